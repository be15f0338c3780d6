package cli

import (
	"github.com/spf13/cobra"

	"qtsetup/internal/logx"
	"qtsetup/internal/publish"
	"qtsetup/pkg/actionenv"
)

var envScript string

func newEnvCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "env",
		Short: "Publish environment variables for an existing installation",
		RunE:  runEnv,
	}

	registerInputFlags(cmd)
	cmd.Flags().StringVar(&envScript, "env-script", "", "Write shell export lines here when not running under a CI env-file protocol")

	return cmd
}

func runEnv(cmd *cobra.Command, _ []string) error {
	logger := logx.New(verbose)

	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	envw, err := actionenv.New(envScript, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer envw.Close()

	pub := publish.Publisher{Env: envw, Logger: logger}
	qtPath, err := pub.Publish(cfg)
	if err != nil {
		return err
	}
	if qtPath != "" && !outputJSON {
		cmd.Printf("qtPath=%s\n", qtPath)
	}
	return nil
}
