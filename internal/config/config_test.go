package config

import (
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func baseInputs() Inputs {
	return Inputs{
		"target":  "desktop",
		"wasm":    "none",
		"version": "6.2.0",
		"dir":     "/opt/qt",
	}.ApplyDefaults()
}

func TestResolveHostFallback(t *testing.T) {
	cases := []struct {
		hostOS string
		want   string
	}{
		{"windows", HostWindows},
		{"darwin", HostMac},
		{"linux", HostLinux},
		{"freebsd", HostLinux},
	}
	for _, tc := range cases {
		cfg, err := Resolve(baseInputs(), tc.hostOS, "")
		if err != nil {
			t.Fatalf("Resolve(%s): %v", tc.hostOS, err)
		}
		if cfg.Host != tc.want {
			t.Fatalf("hostOS %s: expected host %s, got %s", tc.hostOS, tc.want, cfg.Host)
		}
	}
}

func TestResolveRejectsUnknownHost(t *testing.T) {
	in := baseInputs()
	in["host"] = "beos"
	if _, err := Resolve(in, "linux", ""); err == nil || !strings.Contains(err.Error(), `"host"`) {
		t.Fatalf("expected host validation error, got %v", err)
	}
}

func TestResolveRequiredFields(t *testing.T) {
	for _, name := range []string{"target", "wasm", "version"} {
		in := baseInputs()
		delete(in, name)
		_, err := Resolve(in, "linux", "")
		if err == nil || !strings.Contains(err.Error(), `"`+name+`"`) {
			t.Fatalf("missing %s: expected error naming the field, got %v", name, err)
		}
	}
}

func TestArchDefaultAndroid(t *testing.T) {
	cases := []struct {
		version string
		want    string
	}{
		{"5.13.9", "android_armv7"},
		{"5.14.0", "android"},
		{"5.15.2", "android"},
		{"6.0.0", "android_armv7"},
		{"6.5.3", "android_armv7"},
	}
	for _, tc := range cases {
		in := baseInputs()
		in["target"] = "android"
		in["version"] = tc.version
		cfg, err := Resolve(in, "linux", "")
		if err != nil {
			t.Fatalf("Resolve(%s): %v", tc.version, err)
		}
		if cfg.Arch != tc.want {
			t.Fatalf("android %s: expected arch %s, got %s", tc.version, tc.want, cfg.Arch)
		}
	}
}

func TestArchDefaultWindowsLadder(t *testing.T) {
	cases := []struct {
		version string
		want    string
	}{
		{"6.8.0", "win64_msvc2022_64"},
		{"7.0.0", "win64_msvc2022_64"},
		{"5.15.0", "win64_msvc2019_64"},
		{"6.2.4", "win64_msvc2019_64"},
		{"5.5.0", "win64_msvc2013_64"},
		{"5.8.0", "win64_msvc2015_64"},
		{"5.14.2", "win64_msvc2017_64"},
		{"5.9.0", "win64_msvc2017_64"},
	}
	for _, tc := range cases {
		in := baseInputs()
		in["host"] = "windows"
		in["version"] = tc.version
		cfg, err := Resolve(in, "windows", "")
		if err != nil {
			t.Fatalf("Resolve(%s): %v", tc.version, err)
		}
		if cfg.Arch != tc.want {
			t.Fatalf("windows %s: expected arch %s, got %s", tc.version, tc.want, cfg.Arch)
		}
	}
}

func TestArchEmptyOnLinuxDesktop(t *testing.T) {
	cfg, err := Resolve(baseInputs(), "linux", "")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Arch != "" {
		t.Fatalf("expected empty arch, got %q", cfg.Arch)
	}
}

func TestArchInputWins(t *testing.T) {
	in := baseInputs()
	in["host"] = "windows"
	in["arch"] = "win64_mingw"
	cfg, err := Resolve(in, "windows", "")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Arch != "win64_mingw" {
		t.Fatalf("expected explicit arch to win, got %q", cfg.Arch)
	}
}

func TestDirAlwaysJoinsQt(t *testing.T) {
	cfg, err := Resolve(baseInputs(), "linux", "")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Dir != filepath.Join("/opt/qt", "Qt") {
		t.Fatalf("unexpected dir %q", cfg.Dir)
	}

	in := baseInputs()
	delete(in, "dir")
	cfg, err = Resolve(in, "linux", "/workspace")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Dir != filepath.Join("/workspace", "Qt") {
		t.Fatalf("unexpected workspace-derived dir %q", cfg.Dir)
	}

	if _, err := Resolve(in, "linux", ""); err == nil || !strings.Contains(err.Error(), `"dir"`) {
		t.Fatalf("expected dir error when both inputs empty, got %v", err)
	}
}

func TestToolsCommaRewrite(t *testing.T) {
	in := baseInputs()
	in["tools"] = "tools_ifw,4.1.1,qt.tools.ifw.41 tools_cmake"
	cfg, err := Resolve(in, "linux", "")
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"tools_ifw 4.1.1 qt.tools.ifw.41", "tools_cmake"}
	if !reflect.DeepEqual(cfg.Tools, want) {
		t.Fatalf("expected tools %v, got %v", want, cfg.Tools)
	}
}

func TestEmptyListsStayEmpty(t *testing.T) {
	cfg, err := Resolve(baseInputs(), "linux", "")
	if err != nil {
		t.Fatal(err)
	}
	if len(cfg.Modules) != 0 || len(cfg.Tools) != 0 || len(cfg.Archives) != 0 {
		t.Fatalf("expected empty sequences, got %v / %v / %v", cfg.Modules, cfg.Tools, cfg.Archives)
	}
}

func TestInstallDepsTriState(t *testing.T) {
	cases := []struct {
		raw  string
		want InstallDeps
	}{
		{"true", InstallDepsTrue},
		{"TRUE", InstallDepsTrue},
		{"nosudo", InstallDepsNoSudo},
		{"NoSudo", InstallDepsNoSudo},
		{"false", InstallDepsFalse},
		{"yes", InstallDepsFalse},
	}
	for _, tc := range cases {
		in := baseInputs()
		in["install-deps"] = tc.raw
		cfg, err := Resolve(in, "linux", "")
		if err != nil {
			t.Fatal(err)
		}
		if cfg.InstallDeps != tc.want {
			t.Fatalf("install-deps %q: expected %s, got %s", tc.raw, tc.want, cfg.InstallDeps)
		}
	}
}

func TestInstallQtBinariesFlags(t *testing.T) {
	in := baseInputs()
	cfg, _ := Resolve(in, "linux", "")
	if !cfg.InstallQtBinaries {
		t.Fatal("expected binaries enabled by default")
	}

	in["tools-only"] = "true"
	cfg, _ = Resolve(in, "linux", "")
	if cfg.InstallQtBinaries {
		t.Fatal("tools-only should disable binaries")
	}

	delete(in, "tools-only")
	in["no-qt-binaries"] = "true"
	cfg, _ = Resolve(in, "linux", "")
	if cfg.InstallQtBinaries {
		t.Fatal("no-qt-binaries should disable binaries")
	}
}

func TestResolveIdempotent(t *testing.T) {
	in := baseInputs()
	in["modules"] = "qtcharts qtnetworkauth"
	in["tools"] = "tools_ifw,4.1.1"
	in["source"] = "true"

	first, err := Resolve(in, "linux", "")
	if err != nil {
		t.Fatal(err)
	}
	second, err := Resolve(in, "linux", "")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected identical configs:\n%+v\n%+v", first, second)
	}
}
