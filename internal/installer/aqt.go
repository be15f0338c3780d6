package installer

import (
	"context"
	"strings"
)

// installAqt installs the aqt SDK-fetching tool itself via pip, alongside
// its archive dependencies. Custom sources pass through verbatim; wildcard
// version constraints are pinned against the remote tag listing first.
func (i *Installer) installAqt(ctx context.Context) (bool, error) {
	cfg := i.cfg

	args := []string{"install", "setuptools", "wheel", "py7zr" + cfg.Py7zrVersion}
	switch {
	case cfg.AqtSource != "":
		args = append(args, cfg.AqtSource)
	case strings.Contains(cfg.AqtVersion, "*"):
		pinned := i.resolveWildcard(ctx, cfg.AqtVersion)
		args = append(args, "aqtinstall=="+pinned)
	default:
		args = append(args, "aqtinstall"+cfg.AqtVersion)
	}

	return true, i.run(ctx, "pip3", args...)
}

// resolveWildcard turns a "==X.Y.*" constraint into a concrete version by
// picking the highest matching published tag. Any listing or matching
// failure recovers to "<base>.0" with a warning; it never aborts the run.
func (i *Installer) resolveWildcard(ctx context.Context, constraint string) string {
	base := wildcardBase(constraint)
	fallback := base + ".0"

	tags, err := i.tags.ListTags(ctx)
	if err != nil {
		i.logger.Warn("tag listing failed; falling back to base release", "constraint", constraint, "fallback", fallback, "err", err)
		return fallback
	}

	best := highestMatching(tags, base)
	if best == "" {
		i.logger.Warn("no published tag matches constraint; falling back to base release", "constraint", constraint, "fallback", fallback)
		return fallback
	}
	return best
}

// wildcardBase strips the pip operator and trailing wildcard segment:
// "==3.1.*" -> "3.1".
func wildcardBase(constraint string) string {
	base := strings.TrimLeft(constraint, "=<>!~ ")
	if idx := strings.Index(base, "*"); idx >= 0 {
		base = base[:idx]
	}
	return strings.Trim(base, ".")
}

func splitFields(s string) []string {
	return strings.Fields(s)
}
