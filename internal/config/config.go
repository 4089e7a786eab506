// Package config loads pipeline options for the irc CLI driver from an
// optional YAML file, grounded on the teacher's eval_harness spec-loading
// convention (internal/eval_harness/spec.go).
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/sunholo/actorc/internal/ir"
)

// RequireFlavor records the flavor a compilation's input IR is expected
// to carry, convertible with ToFlavor. No irc command checks a program
// against it: each pipeline run starts from the fixture's own flavor.
type RequireFlavor struct {
	HasAwait bool `yaml:"has_await"`
	HasShow  bool `yaml:"has_show"`
}

func (r RequireFlavor) ToFlavor() ir.Flavor {
	return ir.Flavor{HasAwait: r.HasAwait, HasShow: r.HasShow}
}

// Config controls one pipeline invocation: which diagnostics to print,
// plus a RequireFlavor value that is loaded but not enforced.
type Config struct {
	DumpIR            bool          `yaml:"dump_ir"`
	DumpAfterEachPass bool          `yaml:"dump_after_each_pass"`
	RequireFlavor     RequireFlavor `yaml:"require_flavor"`
}

// Default returns the Config a bare `irc` invocation uses with no file.
func Default() *Config {
	return &Config{
		RequireFlavor: RequireFlavor{HasAwait: true, HasShow: true},
	}
}

// Load reads Config from a YAML file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}
	return cfg, nil
}
