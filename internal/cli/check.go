package cli

import (
	"encoding/json"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"qtsetup/internal/installer"
)

var checkStrict bool

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check external tool availability",
		RunE:  runCheck,
	}

	cmd.Flags().BoolVar(&checkStrict, "strict", false, "Fail when a required tool is missing")

	return cmd
}

func runCheck(cmd *cobra.Command, _ []string) error {
	infos := installer.Probe(cmd.Context(), nil)

	if outputJSON {
		data, err := json.MarshalIndent(infos, "", "  ")
		if err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		cmd.Println(string(data))
	} else {
		printToolTable(cmd, infos)
	}

	if checkStrict {
		for _, info := range infos {
			if !info.Available {
				return fmt.Errorf("required tool %s is not available", info.Name)
			}
		}
	}
	return nil
}

var (
	tableHeaderStyle = lipgloss.NewStyle().Bold(true)
	okStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	missingStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
)

func printToolTable(cmd *cobra.Command, infos []installer.ToolInfo) {
	cmd.Println(tableHeaderStyle.Render(fmt.Sprintf("%-10s %-10s %-9s %s", "TOOL", "VERSION", "STATUS", "PATH")))
	for _, info := range infos {
		status := okStyle.Render(fmt.Sprintf("%-9s", "ok"))
		if !info.Available {
			status = missingStyle.Render(fmt.Sprintf("%-9s", "missing"))
		} else if info.Error != "" {
			status = missingStyle.Render(fmt.Sprintf("%-9s", "error"))
		}
		version := info.Version
		if version == "" {
			version = "-"
		}
		cmd.Printf("%-10s %-10s %s %s\n", info.Name, version, status, info.Path)
	}
}
