// Package publish locates the installed SDK architecture directory and
// exports the environment variables and outputs later build steps consume.
package publish

import (
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
)

var (
	// qt6VersionDir matches version directories that may carry a parallel
	// desktop toolchain next to the target install.
	qt6VersionDir = regexp.MustCompile(`^6\.\d+\.\d+$`)

	// parallelDesktopArch matches architecture directories installed for
	// mobile, WASM and Windows-on-ARM targets. Tied to the vendor's layout;
	// kept literal on purpose.
	parallelDesktopArch = regexp.MustCompile(`^(android.*|ios|wasm.*|.*_arm64)$`)
)

// LocateArchDir finds the architecture-specific installation directory under
// installDir by searching for version/arch directories holding a qmake
// build-tool marker. Matches needing a parallel desktop install win over
// plain desktop matches; no match at all is an error.
func LocateArchDir(installDir string) (string, error) {
	markers, err := filepath.Glob(filepath.Join(installDir, "[0-9]*", "*", "bin", "qmake*"))
	if err != nil {
		return "", fmt.Errorf("scan %s: %w", installDir, err)
	}

	seen := map[string]bool{}
	var candidates []string
	for _, marker := range markers {
		archDir := filepath.Dir(filepath.Dir(marker))
		if !seen[archDir] {
			seen[archDir] = true
			candidates = append(candidates, archDir)
		}
	}
	if len(candidates) == 0 {
		return "", fmt.Errorf("no Qt installation found under %s", installDir)
	}
	sort.Strings(candidates)

	for _, dir := range candidates {
		arch := filepath.Base(dir)
		version := filepath.Base(filepath.Dir(dir))
		if qt6VersionDir.MatchString(version) && parallelDesktopArch.MatchString(arch) {
			return dir, nil
		}
	}
	return candidates[0], nil
}

// ToolBinDirs returns the bin-like directories of installed auxiliary tools
// under <installDir>/Tools, for search-path publication.
func ToolBinDirs(installDir string) []string {
	var dirs []string
	for _, pattern := range []string{
		filepath.Join(installDir, "Tools", "*", "bin"),
		filepath.Join(installDir, "Tools", "*", "*", "bin"),
	} {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			continue
		}
		dirs = append(dirs, matches...)
	}
	sort.Strings(dirs)
	return dirs
}
