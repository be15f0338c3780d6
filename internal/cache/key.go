package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"qtsetup/internal/config"
)

// maxKeyLength bounds the assembled cache key. Longer keys are replaced by
// the prefix plus a SHA-256 digest of the full assembly, trading readability
// for a stable bounded-size key.
const maxKeyLength = 512

// Key derives the cache key for a resolved configuration and the ambient
// host OS release string. It is a pure function: identical inputs produce a
// byte-identical key across runs and processes, which the cache layer
// depends on.
func Key(cfg config.Config, osRelease string) string {
	token := func(flag bool, name string) string {
		if flag {
			return name
		}
		return ""
	}

	groups := [][]string{
		{cfg.Host, osRelease, cfg.Target, cfg.Wasm, cfg.Arch, cfg.Version,
			cfg.Dir, cfg.Py7zrVersion, cfg.AqtSource, cfg.AqtVersion},
		cfg.Modules,
		cfg.Archives,
		cfg.Extra,
		cfg.Tools,
		{token(cfg.Src, "src")},
		cfg.SrcArchives,
		{token(cfg.Doc, "doc")},
		cfg.DocArchives,
		cfg.DocModules,
		{token(cfg.Example, "example")},
		cfg.ExampleArchives,
		cfg.ExampleModules,
	}

	var b strings.Builder
	b.WriteString(cfg.CacheKeyPrefix)
	for _, group := range groups {
		for _, value := range group {
			if value == "" {
				continue
			}
			b.WriteByte('-')
			b.WriteString(value)
		}
	}

	// List-valued inputs may smuggle commas in; the key grammar reserves
	// hyphens as the only separator.
	key := strings.ReplaceAll(b.String(), ",", "-")
	if len(key) > maxKeyLength {
		sum := sha256.Sum256([]byte(key))
		return cfg.CacheKeyPrefix + "-" + hex.EncodeToString(sum[:])
	}
	return key
}
