// Package config decodes the driver-level option file `kcl.yaml` (if
// present in the working directory): defaults for plan options and
// app_args that `cmd/kcl` merges underneath whatever the invocation's own
// flags set. Grounded on MacroPower-x's use of github.com/goccy/go-yaml
// for this purpose, distinct from the planner's own insertion-order YAML
// writer in package plan (gopkg.in/yaml.v2).
package config

import (
	"os"

	"github.com/goccy/go-yaml"
)

// Defaults is the decoded shape of `kcl.yaml`.
type Defaults struct {
	SortKeys              bool              `yaml:"sort_keys"`
	IncludeSchemaTypePath bool              `yaml:"include_schema_type_path"`
	ShowHidden            bool              `yaml:"show_hidden"`
	DisableNone           bool              `yaml:"disable_none"`
	DisableEmptyList      bool              `yaml:"disable_empty_list"`
	AppArgs               map[string]string `yaml:"app_args"`
}

// Load reads and decodes path. A missing file yields zero Defaults and no
// error, since `kcl.yaml` is optional.
func Load(path string) (*Defaults, error) {
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &Defaults{}, nil
	}
	if err != nil {
		return nil, err
	}
	var d Defaults
	if err := yaml.Unmarshal(raw, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// MergeAppArgs layers override on top of base, override winning on key
// collision — the same precedence cmd/kcl gives explicit -D flags over
// kcl.yaml defaults.
func MergeAppArgs(base, override map[string]string) map[string]string {
	out := make(map[string]string, len(base)+len(override))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range override {
		out[k] = v
	}
	return out
}
