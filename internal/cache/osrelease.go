package cache

import (
	"bytes"
	"os"
	"os/exec"
	"runtime"
	"strings"
)

// HostOSRelease returns the kernel release identifier of the running host.
// It feeds the cache key so installations from different OS images never
// share a cache entry. The value falls back to the bare GOOS when the
// release cannot be determined.
func HostOSRelease() string {
	switch runtime.GOOS {
	case "linux":
		if data, err := os.ReadFile("/proc/sys/kernel/osrelease"); err == nil {
			if release := strings.TrimSpace(string(data)); release != "" {
				return release
			}
		}
	case "darwin":
		if out, err := exec.Command("uname", "-r").Output(); err == nil {
			if release := string(bytes.TrimSpace(out)); release != "" {
				return release
			}
		}
	}
	return runtime.GOOS
}
