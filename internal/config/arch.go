package config

import (
	"strconv"
	"strings"

	"golang.org/x/mod/semver"
)

// defaultArch derives the architecture identifier when the arch input is
// empty. Android targets take precedence over the Windows host ladder; on
// non-Windows desktop hosts the architecture stays empty and the installer
// omits it.
func defaultArch(target, host, version string) string {
	if target == TargetAndroid {
		if versionAtLeast(version, "5.14.0") && !versionAtLeast(version, "6.0.0") {
			return "android"
		}
		return "android_armv7"
	}

	if host == HostWindows {
		// First match wins; the order is part of the contract.
		switch {
		case versionAtLeast(version, "6.8.0"):
			return "win64_msvc2022_64"
		case versionAtLeast(version, "5.15.0"):
			return "win64_msvc2019_64"
		case versionBelow(version, "5.6.0"):
			return "win64_msvc2013_64"
		case versionBelow(version, "5.9.0"):
			return "win64_msvc2015_64"
		default:
			return "win64_msvc2017_64"
		}
	}

	return ""
}

func canonical(version string) string {
	return "v" + strings.TrimPrefix(version, "v")
}

func validVersion(version string) bool {
	return semver.IsValid(canonical(version))
}

func versionAtLeast(version, min string) bool {
	return semver.Compare(canonical(version), canonical(min)) >= 0
}

func versionBelow(version, max string) bool {
	return semver.Compare(canonical(version), canonical(max)) < 0
}

func versionMajor(version string) int {
	major := strings.TrimPrefix(semver.Major(canonical(version)), "v")
	n, err := strconv.Atoi(major)
	if err != nil {
		return 0
	}
	return n
}
