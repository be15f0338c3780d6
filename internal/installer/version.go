package installer

import (
	"context"
	"regexp"
	"strings"

	"golang.org/x/mod/semver"
)

// Capabilities records what the installed aqt build can do, detected once
// after installation.
type Capabilities struct {
	// Version is the reported tool version, e.g. "3.1.7".
	Version string

	// AutoDesktop indicates support for --autodesktop, which installs the
	// desktop toolchain mobile and WASM builds depend on.
	AutoDesktop bool

	// WasmFork indicates the tool accepts the --wasm flag for Qt >= 6.7.0.
	WasmFork bool
}

// aqt version reports a line like "aqtinstall(aqt) v3.1.7 on Python 3.11.2".
var aqtVersionPattern = regexp.MustCompile(`v?(\d+\.\d+\.\d+)`)

// detectCapabilities probes the installed tool with its version command and
// derives feature support from the reported version and the configured
// source.
func (i *Installer) detectCapabilities(ctx context.Context) (Capabilities, error) {
	res, err := i.runner.Run(ctx, "aqt", []string{"version"}, RunOptions{Stdout: i.out, Stderr: i.out})
	if err != nil {
		return Capabilities{}, err
	}

	version := parseAqtVersion(string(res.Stdout))
	caps := Capabilities{
		Version:     version,
		AutoDesktop: supportsAutoDesktop(version),
		WasmFork:    i.cfg.AqtSource != "" || strings.HasPrefix(version, "3.2."),
	}
	i.logger.Debug("detected aqt", "version", caps.Version, "autodesktop", caps.AutoDesktop, "wasm", caps.WasmFork)
	return caps, nil
}

func parseAqtVersion(output string) string {
	line := strings.TrimSpace(output)
	if idx := strings.IndexByte(line, '\n'); idx >= 0 {
		line = line[:idx]
	}
	match := aqtVersionPattern.FindStringSubmatch(line)
	if match == nil {
		return ""
	}
	return match[1]
}

// supportsAutoDesktop accepts versions >= 3.0.0 as well as anything in the
// 3.2 line regardless of how it parses.
func supportsAutoDesktop(version string) bool {
	if strings.HasPrefix(version, "3.2.") {
		return true
	}
	v := "v" + version
	return semver.IsValid(v) && semver.Compare(v, "v3.0.0") >= 0
}
