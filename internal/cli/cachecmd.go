package cli

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"qtsetup/internal/cache"
)

var cacheDir string

func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and manage the local blob cache",
	}

	cmd.PersistentFlags().StringVar(&cacheDir, "cache-dir", "", "Override the local blob cache directory")

	cmd.AddCommand(newCacheKeyCmd())
	cmd.AddCommand(newCacheListCmd())
	cmd.AddCommand(newCacheClearCmd())

	return cmd
}

func newCacheKeyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "key",
		Short: "Derive the cache key for a configuration",
		RunE:  runCacheKey,
	}
	registerInputFlags(cmd)
	return cmd
}

func runCacheKey(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	key := cache.Key(cfg, cache.HostOSRelease())

	if outputJSON {
		view := struct {
			Key    string `json:"key"`
			BlobID string `json:"blobId"`
		}{key, cache.BlobID(key)}
		data, err := json.MarshalIndent(view, "", "  ")
		if err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Println(key)
	return nil
}

func newCacheListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored cache entries",
		RunE:  runCacheList,
	}
}

func runCacheList(cmd *cobra.Command, _ []string) error {
	store, err := cache.NewDirStore(cacheDir)
	if err != nil {
		return err
	}
	entries, err := store.Entries()
	if err != nil {
		return err
	}

	if outputJSON {
		data, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	ids := make([]string, 0, len(entries))
	for id := range entries {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		entry := entries[id]
		cmd.Printf("%s  %s  %d bytes  %s\n", id[:12], entry.SavedAt.Format("2006-01-02 15:04"), entry.SizeBytes, entry.Key)
	}
	return nil
}

func newCacheClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every stored blob",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := cache.NewDirStore(cacheDir)
			if err != nil {
				return err
			}
			return store.Clear()
		},
	}
}
