// Package config loads the optional TOML configuration shared by the
// commands. Settings come from the defaults, then the file, then any flag
// given explicitly on the command line.
package config

import (
	"bytes"
	"flag"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

type Log struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

type Demo struct {
	Seconds  int  `toml:"seconds"`
	Simulate bool `toml:"simulate"`
	Events   int  `toml:"events"`
}

type Bench struct {
	Runs   int    `toml:"runs"`
	Cycles int    `toml:"cycles"`
	CSV    bool   `toml:"csv"`
	Store  string `toml:"store"`
	DB     string `toml:"db"`
}

type Config struct {
	Log   Log   `toml:"log"`
	Demo  Demo  `toml:"demo"`
	Bench Bench `toml:"bench"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Log: Log{
			Level:  "WARN",
			Format: "pretty",
		},
		Demo: Demo{
			Seconds: 0,
			Events:  8,
		},
		Bench: Bench{
			Runs:   5,
			Cycles: 1_000_000,
			Store:  "bolt",
		},
	}
}

// Load reads the file at path over the defaults. Unknown keys are an error.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Explicit returns the names of the flags that were set on the command
// line.
func Explicit(fs *flag.FlagSet) map[string]bool {
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) {
		set[f.Name] = true
	})
	return set
}

// Encode renders cfg as TOML.
func Encode(cfg Config) ([]byte, error) {
	return toml.Marshal(cfg)
}
