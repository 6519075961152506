// Package config handles the intvm.toml engine configuration.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Config is the engine configuration.
type Config struct {
	Engine Engine `toml:"engine"`
	Log    Log    `toml:"log"`
}

// Engine configures the interpreter.
type Engine struct {
	DisasmOnUnimplemented bool `toml:"disasm_on_unimplemented"`
	MaxSteps              int  `toml:"max_steps"` // 0 = unlimited
}

// Log configures diagnostics output.
type Log struct {
	Debug   bool `toml:"debug"`
	NoColor bool `toml:"no_color"`
}

// Default returns the configuration used when no file is given
func Default() Config {
	return Config{
		Engine: Engine{DisasmOnUnimplemented: true},
	}
}

// Load parses a config file over the defaults. A missing file is not an
// error when optional is set.
func Load(path string, optional bool) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if optional && errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("cannot read %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse error in %s: %w", path, err)
	}

	if cfg.Engine.MaxSteps < 0 {
		return cfg, fmt.Errorf("%s: max_steps must not be negative", path)
	}

	return cfg, nil
}
