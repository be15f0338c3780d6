package publish

import (
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"qtsetup/internal/config"
	"qtsetup/pkg/actionenv"
)

// Publisher exports installation paths after a successful install or cache
// hit.
type Publisher struct {
	Env    *actionenv.Writer
	Logger *log.Logger
}

// Publish derives paths from the installation directory and publishes them.
// It returns the resolved SDK architecture directory (the qtPath output),
// empty when binaries were not requested.
func (p *Publisher) Publish(cfg config.Config) (string, error) {
	// All environment and search-path mutation, the tool directories
	// included, is conditional on setEnv; only the qtPath output escapes it.
	if len(cfg.Tools) > 0 && cfg.SetEnv {
		if err := p.Env.SetEnv("IQTA_TOOLS", filepath.Join(cfg.Dir, "Tools")); err != nil {
			return "", err
		}
		if cfg.AddToolsToPath {
			for _, dir := range ToolBinDirs(cfg.Dir) {
				if err := p.Env.PrependPath(dir); err != nil {
					return "", err
				}
			}
		}
	}

	if !cfg.InstallQtBinaries {
		return "", nil
	}

	qtPath, err := LocateArchDir(cfg.Dir)
	if err != nil {
		return "", err
	}
	p.Logger.Info("resolved Qt installation", "qtPath", qtPath)

	if err := p.Env.SetOutput("qtPath", qtPath); err != nil {
		return "", err
	}
	if !cfg.SetEnv {
		return qtPath, nil
	}

	if cfg.Host == config.HostLinux {
		if err := p.appendEnv("LD_LIBRARY_PATH", filepath.Join(qtPath, "lib")); err != nil {
			return "", err
		}
	}
	if cfg.Host != config.HostWindows {
		if err := p.appendEnv("PKG_CONFIG_PATH", filepath.Join(qtPath, "lib", "pkgconfig")); err != nil {
			return "", err
		}
	}
	if cfg.VersionMajor() < 6 {
		if err := p.Env.SetEnv("Qt5_DIR", filepath.Join(qtPath, "lib", "cmake")); err != nil {
			return "", err
		}
	}

	exports := map[string]string{
		"QT_ROOT_DIR":      qtPath,
		"QT_PLUGIN_PATH":   filepath.Join(qtPath, "plugins"),
		"QML2_IMPORT_PATH": filepath.Join(qtPath, "qml"),
	}
	for _, name := range []string{"QT_ROOT_DIR", "QT_PLUGIN_PATH", "QML2_IMPORT_PATH"} {
		if err := p.Env.SetEnv(name, exports[name]); err != nil {
			return "", err
		}
	}

	if err := p.Env.PrependPath(filepath.Join(qtPath, "bin")); err != nil {
		return "", err
	}
	return qtPath, nil
}

// appendEnv colon-joins value after any pre-existing variable content
// instead of replacing it.
func (p *Publisher) appendEnv(name, value string) error {
	if existing := os.Getenv(name); existing != "" {
		value = existing + ":" + value
	}
	return p.Env.SetEnv(name, value)
}
