package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// InputNames lists every recognized raw input key.
var InputNames = []string{
	"host", "target", "wasm", "version", "arch", "dir",
	"modules", "archives", "tools", "add-tools-to-path", "extra",
	"install-deps", "cache", "cache-key-prefix",
	"tools-only", "no-qt-binaries", "set-env",
	"aqtsource", "aqtversion", "py7zrversion",
	"source", "src-archives",
	"documentation", "doc-modules", "doc-archives",
	"examples", "example-modules", "example-archives",
}

// Inputs is the raw key/value input mapping consumed by Resolve. Absent keys
// read as the empty string.
type Inputs map[string]string

// Get returns the trimmed raw value for name.
func (in Inputs) Get(name string) string {
	return strings.TrimSpace(in[name])
}

// Bool interprets the raw value as true iff it equals "true"
// case-insensitively.
func (in Inputs) Bool(name string) bool {
	return strings.EqualFold(in.Get(name), "true")
}

// List splits the raw value on whitespace; an empty value yields an empty
// sequence.
func (in Inputs) List(name string) []string {
	return strings.Fields(in.Get(name))
}

// rawDefaults are the values assumed for inputs nobody set.
var rawDefaults = map[string]string{
	"aqtversion":        "==3.1.*",
	"py7zrversion":      "==0.20.*",
	"cache-key-prefix":  "install-qt",
	"set-env":           "true",
	"add-tools-to-path": "true",
	"install-deps":      "true",
}

// ApplyDefaults fills unset inputs with their documented defaults, returning
// the same map for chaining.
func (in Inputs) ApplyDefaults() Inputs {
	for name, value := range rawDefaults {
		if in.Get(name) == "" {
			in[name] = value
		}
	}
	return in
}

// FromEnv reads INPUT_<NAME> environment variables (uppercase, dashes
// replaced with underscores) for every known input.
func FromEnv() Inputs {
	in := Inputs{}
	for _, name := range InputNames {
		envName := "INPUT_" + strings.ToUpper(strings.ReplaceAll(name, "-", "_"))
		if value, ok := os.LookupEnv(envName); ok {
			in[name] = value
		}
	}
	return in
}

// FromYAMLFile loads raw inputs from a flat YAML mapping. Unknown keys fail
// so typos surface instead of silently resolving to defaults.
func FromYAMLFile(path string) (Inputs, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read inputs file: %w", err)
	}

	raw := map[string]string{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("unmarshal inputs file: %w", err)
	}

	known := make(map[string]bool, len(InputNames))
	for _, name := range InputNames {
		known[name] = true
	}

	in := Inputs{}
	for name, value := range raw {
		if !known[name] {
			return nil, fmt.Errorf("inputs file: unknown input %q", name)
		}
		in[name] = value
	}
	return in, nil
}

// Merge overlays non-empty values from layers onto in, later layers winning.
func (in Inputs) Merge(layers ...Inputs) Inputs {
	for _, layer := range layers {
		for name, value := range layer {
			if strings.TrimSpace(value) != "" {
				in[name] = value
			}
		}
	}
	return in
}
