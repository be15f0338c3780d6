package installer

import (
	"context"

	"qtsetup/internal/config"
)

// linuxPackages are the native libraries Qt binaries link against on a
// typical CI image.
var linuxPackages = []string{
	"build-essential",
	"libgl1-mesa-dev",
	"libgstreamer-gl1.0-0",
	"libpulse-dev",
	"libxcb-glx0",
	"libxcb-icccm4",
	"libxcb-image0",
	"libxcb-keysyms1",
	"libxcb-randr0",
	"libxcb-render-util0",
	"libxcb-render0",
	"libxcb-shape0",
	"libxcb-shm0",
	"libxcb-sync1",
	"libxcb-util1",
	"libxcb-xfixes0",
	"libxcb-xinerama0",
	"libxcb1",
	"libxkbcommon-dev",
	"libxkbcommon-x11-0",
	"libxcb-xkb-dev",
}

// cursorPackage is additionally required from Qt 6.5.0 on.
const cursorPackage = "libxcb-cursor0"

// installLinuxDeps installs the native package list through apt-get,
// elevating with sudo unless the nosudo mode was requested.
func (i *Installer) installLinuxDeps(ctx context.Context) (bool, error) {
	cfg := i.cfg
	if cfg.Host != config.HostLinux || cfg.InstallDeps == config.InstallDepsFalse {
		return false, nil
	}

	packages := append([]string{}, linuxPackages...)
	if cfg.VersionAtLeast("6.5.0") {
		packages = append(packages, cursorPackage)
	}

	command := "sudo"
	prefix := []string{"apt-get"}
	if cfg.InstallDeps == config.InstallDepsNoSudo {
		command = "apt-get"
		prefix = nil
	}

	update := append(append([]string{}, prefix...), "update")
	if err := i.run(ctx, command, update...); err != nil {
		return true, err
	}

	install := append(append([]string{}, prefix...), "install", "-y")
	install = append(install, packages...)
	return true, i.run(ctx, command, install...)
}
