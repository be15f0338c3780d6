package publish

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func touchQmake(t *testing.T, installDir, version, arch string) string {
	t.Helper()
	archDir := filepath.Join(installDir, version, arch)
	binDir := filepath.Join(archDir, "bin")
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(binDir, "qmake"), []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	return archDir
}

func TestLocateArchDirSingleInstall(t *testing.T) {
	dir := t.TempDir()
	want := touchQmake(t, dir, "6.2.0", "gcc_64")

	got, err := LocateArchDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if got != want {
		t.Fatalf("expected %s, got %s", want, got)
	}
}

func TestLocateArchDirPrefersParallelDesktopTarget(t *testing.T) {
	cases := []string{"android_armv7", "ios", "wasm_multithread", "win64_msvc2022_arm64"}
	for _, arch := range cases {
		dir := t.TempDir()
		touchQmake(t, dir, "6.5.3", "gcc_64")
		want := touchQmake(t, dir, "6.5.3", arch)

		got, err := LocateArchDir(dir)
		if err != nil {
			t.Fatal(err)
		}
		if got != want {
			t.Fatalf("arch %s: expected %s, got %s", arch, want, got)
		}
	}
}

func TestLocateArchDirQt5MobileTakesFirstCandidate(t *testing.T) {
	// The parallel-desktop preference only applies to Qt 6 version
	// directories.
	dir := t.TempDir()
	touchQmake(t, dir, "5.15.2", "android")
	touchQmake(t, dir, "5.15.2", "gcc_64")

	got, err := LocateArchDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(got) != "android" {
		t.Fatalf("expected lexicographically first candidate, got %s", got)
	}
}

func TestLocateArchDirWindowsQmakeExe(t *testing.T) {
	dir := t.TempDir()
	archDir := filepath.Join(dir, "6.8.0", "win64_msvc2022_64")
	binDir := filepath.Join(archDir, "bin")
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(binDir, "qmake.exe"), []byte("MZ"), 0o755); err != nil {
		t.Fatal(err)
	}

	got, err := LocateArchDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if got != archDir {
		t.Fatalf("expected %s, got %s", archDir, got)
	}
}

func TestLocateArchDirNoInstall(t *testing.T) {
	dir := t.TempDir()
	_, err := LocateArchDir(dir)
	if err == nil || !strings.Contains(err.Error(), "no Qt installation") {
		t.Fatalf("expected missing-install error, got %v", err)
	}
}

func TestToolBinDirs(t *testing.T) {
	dir := t.TempDir()
	for _, rel := range []string{
		"Tools/CMake/bin",
		"Tools/QtInstallerFramework/4.1/bin",
	} {
		if err := os.MkdirAll(filepath.Join(dir, filepath.FromSlash(rel)), 0o755); err != nil {
			t.Fatal(err)
		}
	}

	dirs := ToolBinDirs(dir)
	if len(dirs) != 2 {
		t.Fatalf("expected two tool bin dirs, got %v", dirs)
	}
	if filepath.Base(dirs[0]) != "bin" || filepath.Base(dirs[1]) != "bin" {
		t.Fatalf("unexpected entries: %v", dirs)
	}
}

func TestToolBinDirsEmpty(t *testing.T) {
	if dirs := ToolBinDirs(t.TempDir()); len(dirs) != 0 {
		t.Fatalf("expected no tool dirs, got %v", dirs)
	}
}
