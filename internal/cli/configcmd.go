package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"qtsetup/internal/cache"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the resolved configuration and derived cache key",
		RunE:  runConfig,
	}

	registerInputFlags(cmd)

	return cmd
}

func runConfig(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	key := cache.Key(cfg, cache.HostOSRelease())

	if outputJSON {
		view := struct {
			Config   any    `json:"config"`
			CacheKey string `json:"cacheKey"`
		}{cfg, key}
		data, err := json.MarshalIndent(view, "", "  ")
		if err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	cmd.Print(string(data))
	cmd.Printf("cache_key: %s\n", key)
	return nil
}
