package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"qtsetup/internal/cache"
	"qtsetup/internal/config"
	"qtsetup/internal/installer"
	"qtsetup/internal/logx"
	"qtsetup/internal/publish"
	"qtsetup/internal/tui"
	"qtsetup/pkg/actionenv"
)

var (
	installProgress bool
	installEnvFile  string
	installCacheDir string
)

func newInstallCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "install",
		Short: "Install the requested Qt SDK and publish its paths",
		RunE:  runInstall,
	}

	registerInputFlags(cmd)
	cmd.Flags().BoolVar(&installProgress, "progress", false, "Show a live step table instead of streamed logs")
	cmd.Flags().StringVar(&installEnvFile, "env-script", "", "Write shell export lines here when not running under a CI env-file protocol")
	cmd.Flags().StringVar(&installCacheDir, "cache-dir", "", "Override the local blob cache directory")

	return cmd
}

type installSummary struct {
	QtPath   string `json:"qtPath,omitempty"`
	CacheKey string `json:"cacheKey,omitempty"`
	CacheHit bool   `json:"cacheHit"`
	BlobID   string `json:"blobId,omitempty"`
}

func runInstall(cmd *cobra.Command, _ []string) error {
	logger := logx.New(verbose)

	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	envw, err := actionenv.New(installEnvFile, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer envw.Close()

	summary := installSummary{}
	run := func(report installer.ReportFunc, out io.Writer) error {
		return installFlow(cmd.Context(), cfg, logger, envw, report, out, &summary)
	}

	if installProgress && !outputJSON {
		model := tui.NewStepModel("qtsetup install", installer.Steps)
		err = tui.RunWithWork(os.Stdout, model, func(send func(tea.Msg)) {
			report := func(step string, status installer.StepStatus, detail string) {
				send(tui.StepUpdateMsg{Step: step, Status: string(status), Detail: detail})
			}
			if workErr := run(report, io.Discard); workErr != nil {
				send(tui.ErrorMsg{Err: workErr})
			}
		})
	} else {
		err = run(nil, cmd.ErrOrStderr())
	}
	if err != nil {
		return err
	}

	if outputJSON {
		data, err := json.MarshalIndent(summary, "", "  ")
		if err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if summary.CacheHit {
		logger.Info("restored installation from cache", "key", summary.CacheKey)
	}
	if summary.QtPath != "" {
		cmd.Printf("qtPath=%s\n", summary.QtPath)
	}
	return nil
}

// installFlow runs the cache lookup, installer, cache store and publisher
// sequence shared by plain and progress modes.
func installFlow(ctx context.Context, cfg config.Config, logger *log.Logger, envw *actionenv.Writer, report installer.ReportFunc, out io.Writer, summary *installSummary) error {
	var store cache.Store
	if cfg.Cache {
		dirStore, err := cache.NewDirStore(installCacheDir)
		if err != nil {
			return err
		}
		store = dirStore
		summary.CacheKey = cache.Key(cfg, cache.HostOSRelease())

		matched, err := store.Restore(ctx, []string{cfg.Dir}, summary.CacheKey)
		if err != nil {
			// A broken cache must not fail the install; fall through to a
			// fresh installation.
			logger.Warn("cache restore failed", "err", err)
		}
		summary.CacheHit = matched != ""
	}

	if !summary.CacheHit {
		inst := installer.New(cfg, logger,
			installer.WithOutput(out),
			installer.WithReporter(report),
		)
		if err := inst.Run(ctx); err != nil {
			return err
		}

		if cfg.Cache {
			id, err := store.Save(ctx, []string{cfg.Dir}, summary.CacheKey)
			if err != nil {
				logger.Warn("cache save failed", "err", err)
			} else {
				summary.BlobID = id
			}
		}
	}

	pub := publish.Publisher{Env: envw, Logger: logger}
	qtPath, err := pub.Publish(cfg)
	if err != nil {
		return err
	}
	summary.QtPath = qtPath
	return nil
}
