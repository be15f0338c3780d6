package cli

import (
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"qtsetup/internal/config"
)

var inputUsage = map[string]string{
	"host":              "Host platform (windows, mac, linux); defaults from the running OS",
	"target":            "Install target (desktop, android, ios)",
	"wasm":              "WASM threading mode (none, singlethread, multithread)",
	"version":           "Qt version to install, e.g. 6.8.0",
	"arch":              "Target architecture; derived from host/target/version when empty",
	"dir":               "Base installation directory (SDK lands in <dir>/Qt)",
	"modules":           "Space-separated additional Qt modules",
	"archives":          "Space-separated archives to install",
	"tools":             "Space-separated tool entries (commas separate fields within an entry)",
	"add-tools-to-path": "Prepend installed tool bin directories to PATH",
	"extra":             "Extra arguments passed through to the install-qt invocation",
	"install-deps":      "Install native dependencies on Linux (true, false, nosudo)",
	"cache":             "Restore/save the installation from the local blob cache",
	"cache-key-prefix":  "Prefix for derived cache keys",
	"tools-only":        "Install only the requested tools, no Qt binaries",
	"no-qt-binaries":    "Skip Qt binary installation",
	"set-env":           "Export environment variables for later build steps",
	"aqtsource":         "Custom pip source for the aqt installer",
	"aqtversion":        "pip version constraint for aqtinstall",
	"py7zrversion":      "pip version constraint for py7zr",
	"source":            "Install Qt sources",
	"src-archives":      "Space-separated source archives",
	"documentation":     "Install Qt documentation",
	"doc-modules":       "Space-separated documentation modules",
	"doc-archives":      "Space-separated documentation archives",
	"examples":          "Install Qt examples",
	"example-modules":   "Space-separated example modules",
	"example-archives":  "Space-separated example archives",
}

// registerInputFlags declares one string flag per raw input on cmd, plus the
// shared --inputs-file flag.
func registerInputFlags(cmd *cobra.Command) {
	for _, name := range config.InputNames {
		cmd.Flags().String(name, "", inputUsage[name])
	}
	cmd.Flags().String("inputs-file", "", "YAML file with raw input values")
}

// gatherInputs assembles the raw input map with precedence
// flag > INPUT_<NAME> environment > inputs file, then fills defaults.
func gatherInputs(cmd *cobra.Command) (config.Inputs, error) {
	in := config.Inputs{}

	if path, _ := cmd.Flags().GetString("inputs-file"); path != "" {
		fileInputs, err := config.FromYAMLFile(path)
		if err != nil {
			return nil, err
		}
		in.Merge(fileInputs)
	}

	in.Merge(config.FromEnv())

	flags := config.Inputs{}
	for _, name := range config.InputNames {
		if cmd.Flags().Changed(name) {
			value, err := cmd.Flags().GetString(name)
			if err != nil {
				return nil, err
			}
			flags[name] = value
		}
	}
	in.Merge(flags)

	return in.ApplyDefaults(), nil
}

// resolveConfig gathers inputs from cmd and resolves them against the
// ambient platform and workspace root.
func resolveConfig(cmd *cobra.Command) (config.Config, error) {
	in, err := gatherInputs(cmd)
	if err != nil {
		return config.Config{}, err
	}
	return config.Resolve(in, runtime.GOOS, os.Getenv("GITHUB_WORKSPACE"))
}
