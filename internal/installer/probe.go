package installer

import (
	"context"
	"errors"
	"os/exec"
	"regexp"
	"strings"
	"time"
)

// ToolInfo captures availability and version details for an external tool.
type ToolInfo struct {
	Name      string `json:"name"`
	Path      string `json:"path,omitempty"`
	Version   string `json:"version,omitempty"`
	Available bool   `json:"available"`
	Error     string `json:"error,omitempty"`
}

// probedTools are the external commands the install flow depends on.
var probedTools = []string{"python3", "pip3", "aqt", "7z"}

// 7z prints a banner like "7-Zip (z) 21.07 (x64)" or "7-Zip [64] 16.02";
// the version is the first dotted number on the line.
var sevenZipVersionPattern = regexp.MustCompile(`\d+\.\d+`)

// Probe discovers availability and version information for every external
// command the installer shells out to.
func Probe(ctx context.Context, runner Runner) []ToolInfo {
	if ctx == nil {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
	}
	if runner == nil {
		runner = CmdRunner{}
	}

	infos := make([]ToolInfo, 0, len(probedTools))
	for _, name := range probedTools {
		infos = append(infos, probeOne(ctx, runner, name))
	}
	return infos
}

func probeOne(ctx context.Context, runner Runner, name string) ToolInfo {
	path, err := exec.LookPath(name)
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return ToolInfo{Name: name, Available: false, Error: "not found"}
		}
		return ToolInfo{Name: name, Available: false, Error: err.Error()}
	}

	version, err := probeVersion(ctx, runner, path, name)
	if err != nil {
		return ToolInfo{Name: name, Path: path, Available: true, Error: err.Error()}
	}
	return ToolInfo{Name: name, Path: path, Version: version, Available: true}
}

func probeVersion(ctx context.Context, runner Runner, path, name string) (string, error) {
	args := []string{"--version"}
	switch name {
	case "aqt":
		args = []string{"version"}
	case "7z":
		// No version flag; the bare invocation prints the banner.
		args = nil
	}

	res, err := runner.Run(ctx, path, args, RunOptions{})
	if err != nil {
		return "", err
	}

	line := strings.TrimSpace(string(res.Stdout))
	if idx := strings.IndexByte(line, '\n'); idx >= 0 {
		line = line[:idx]
	}

	switch name {
	case "aqt":
		return parseAqtVersion(line), nil
	case "7z":
		if version := sevenZipVersionPattern.FindString(line); version != "" {
			return version, nil
		}
	case "python3", "pip3":
		// "Python 3.11.2" / "pip 23.0 from ...".
		if fields := strings.Fields(line); len(fields) >= 2 {
			return fields[1], nil
		}
	}
	return line, nil
}
