package config

import (
	"fmt"
	"path/filepath"
	"strings"
)

// InstallDeps is the tri-state dependency-installation mode.
type InstallDeps string

const (
	InstallDepsTrue   InstallDeps = "true"
	InstallDepsFalse  InstallDeps = "false"
	InstallDepsNoSudo InstallDeps = "nosudo"
)

// Host literals accepted for the host input.
const (
	HostWindows = "windows"
	HostMac     = "mac"
	HostLinux   = "linux"
)

// Target literals accepted for the target input.
const (
	TargetDesktop = "desktop"
	TargetAndroid = "android"
	TargetIOS     = "ios"
)

// Wasm threading modes accepted for the wasm input.
const (
	WasmNone         = "none"
	WasmSingleThread = "singlethread"
	WasmMultiThread  = "multithread"
)

// Config is the fully resolved installation configuration. It is built once
// by Resolve and never mutated afterwards; derived fields (Arch, Dir) are
// computed at construction time.
type Config struct {
	Host    string `json:"host" yaml:"host"`
	Target  string `json:"target" yaml:"target"`
	Wasm    string `json:"wasm" yaml:"wasm"`
	Version string `json:"version" yaml:"version"`
	Arch    string `json:"arch,omitempty" yaml:"arch,omitempty"`

	// Dir is the absolute installation directory, always <base>/Qt.
	Dir string `json:"dir" yaml:"dir"`

	Modules         []string `json:"modules,omitempty" yaml:"modules,omitempty"`
	Archives        []string `json:"archives,omitempty" yaml:"archives,omitempty"`
	Tools           []string `json:"tools,omitempty" yaml:"tools,omitempty"`
	Extra           []string `json:"extra,omitempty" yaml:"extra,omitempty"`
	SrcArchives     []string `json:"srcArchives,omitempty" yaml:"src_archives,omitempty"`
	DocArchives     []string `json:"docArchives,omitempty" yaml:"doc_archives,omitempty"`
	DocModules      []string `json:"docModules,omitempty" yaml:"doc_modules,omitempty"`
	ExampleArchives []string `json:"exampleArchives,omitempty" yaml:"example_archives,omitempty"`
	ExampleModules  []string `json:"exampleModules,omitempty" yaml:"example_modules,omitempty"`

	Src     bool `json:"src" yaml:"src"`
	Doc     bool `json:"doc" yaml:"doc"`
	Example bool `json:"example" yaml:"example"`

	AddToolsToPath    bool `json:"addToolsToPath" yaml:"add_tools_to_path"`
	Cache             bool `json:"cache" yaml:"cache"`
	SetEnv            bool `json:"setEnv" yaml:"set_env"`
	InstallQtBinaries bool `json:"installQtBinaries" yaml:"install_qt_binaries"`

	InstallDeps InstallDeps `json:"installDeps" yaml:"install_deps"`

	CacheKeyPrefix string `json:"cacheKeyPrefix" yaml:"cache_key_prefix"`
	AqtSource      string `json:"aqtSource,omitempty" yaml:"aqt_source,omitempty"`
	AqtVersion     string `json:"aqtVersion" yaml:"aqt_version"`
	Py7zrVersion   string `json:"py7zrVersion" yaml:"py7zr_version"`
}

// Resolve validates the raw inputs and produces a Config. hostOS is the
// ambient platform identifier (runtime.GOOS); workspace is the fallback base
// directory used when the dir input is empty. Resolution fails atomically:
// the first malformed field aborts construction with an error naming it.
func Resolve(in Inputs, hostOS, workspace string) (Config, error) {
	cfg := Config{}

	host := in.Get("host")
	if host == "" {
		switch hostOS {
		case "windows":
			host = HostWindows
		case "darwin":
			host = HostMac
		default:
			host = HostLinux
		}
	}
	switch host {
	case HostWindows, HostMac, HostLinux:
		cfg.Host = host
	default:
		return Config{}, fmt.Errorf("input %q: unrecognized host %q (expected windows, mac or linux)", "host", host)
	}

	switch target := in.Get("target"); target {
	case TargetDesktop, TargetAndroid, TargetIOS:
		cfg.Target = target
	case "":
		return Config{}, fmt.Errorf("input %q: value is required (desktop, android or ios)", "target")
	default:
		return Config{}, fmt.Errorf("input %q: unrecognized target %q (expected desktop, android or ios)", "target", target)
	}

	switch wasm := in.Get("wasm"); wasm {
	case WasmNone, WasmSingleThread, WasmMultiThread:
		cfg.Wasm = wasm
	case "":
		return Config{}, fmt.Errorf("input %q: value is required (none, singlethread or multithread)", "wasm")
	default:
		return Config{}, fmt.Errorf("input %q: unrecognized wasm mode %q (expected none, singlethread or multithread)", "wasm", wasm)
	}

	version := in.Get("version")
	if version == "" {
		return Config{}, fmt.Errorf("input %q: value is required", "version")
	}
	if !validVersion(version) {
		return Config{}, fmt.Errorf("input %q: %q is not a semantic version", "version", version)
	}
	cfg.Version = version

	cfg.Arch = in.Get("arch")
	if cfg.Arch == "" {
		cfg.Arch = defaultArch(cfg.Target, cfg.Host, cfg.Version)
	}

	base := in.Get("dir")
	if base == "" {
		base = workspace
	}
	if base == "" {
		return Config{}, fmt.Errorf("input %q: no installation directory given and no workspace root available", "dir")
	}
	cfg.Dir = filepath.Join(base, "Qt")

	cfg.Modules = in.List("modules")
	cfg.Archives = in.List("archives")
	cfg.Extra = in.List("extra")
	cfg.SrcArchives = in.List("src-archives")
	cfg.DocArchives = in.List("doc-archives")
	cfg.DocModules = in.List("doc-modules")
	cfg.ExampleArchives = in.List("example-archives")
	cfg.ExampleModules = in.List("example-modules")

	// Tool entries may carry "name,version,variant" triplets; commas become
	// spaces so the installer can pass the fields through individually.
	tools := in.List("tools")
	for i, tool := range tools {
		tools[i] = strings.ReplaceAll(tool, ",", " ")
	}
	cfg.Tools = tools

	cfg.Src = in.Bool("source")
	cfg.Doc = in.Bool("documentation")
	cfg.Example = in.Bool("examples")
	cfg.AddToolsToPath = in.Bool("add-tools-to-path")
	cfg.Cache = in.Bool("cache")
	cfg.SetEnv = in.Bool("set-env")
	cfg.InstallQtBinaries = !in.Bool("tools-only") && !in.Bool("no-qt-binaries")

	if strings.EqualFold(in.Get("install-deps"), string(InstallDepsNoSudo)) {
		cfg.InstallDeps = InstallDepsNoSudo
	} else if in.Bool("install-deps") {
		cfg.InstallDeps = InstallDepsTrue
	} else {
		cfg.InstallDeps = InstallDepsFalse
	}

	cfg.CacheKeyPrefix = in.Get("cache-key-prefix")
	cfg.AqtSource = in.Get("aqtsource")
	cfg.AqtVersion = in.Get("aqtversion")
	cfg.Py7zrVersion = in.Get("py7zrversion")

	return cfg, nil
}

// VersionMajor returns the leading numeric component of the Qt version.
func (c Config) VersionMajor() int {
	return versionMajor(c.Version)
}

// VersionAtLeast reports whether the Qt version is >= min under semantic
// version ordering.
func (c Config) VersionAtLeast(min string) bool {
	return versionAtLeast(c.Version, min)
}

// NeedsParallelDesktop reports whether the requested platform installs a
// desktop toolchain alongside the target (mobile targets and WASM builds).
func (c Config) NeedsParallelDesktop() bool {
	return c.Wasm != WasmNone || c.Target == TargetAndroid || c.Target == TargetIOS
}
