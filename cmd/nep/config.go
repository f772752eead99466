package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

const defaultConfigFile = "nep.toml"

type fileConfig struct {
	Run  runConfig  `toml:"run"`
	Log  logConfig  `toml:"log"`
	REPL replConfig `toml:"repl"`

	path string
}

type runConfig struct {
	Extension      string `toml:"extension"`
	StepQuota      int    `toml:"step_quota"`
	RecursionLimit int    `toml:"recursion_limit"`
	Timing         bool   `toml:"timing"`
}

type logConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

type replConfig struct {
	Prompt string `toml:"prompt"`
}

// loadConfig reads the TOML file at path. With an empty path the default
// file in the working directory is used when it exists; otherwise the
// built-in defaults apply.
func loadConfig(path string) (*fileConfig, error) {
	explicit := path != ""
	if !explicit {
		path = defaultConfigFile
	}

	cfg := &fileConfig{}
	if _, err := os.Stat(path); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("stat config %s: %w", path, err)
		}
		if explicit {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		cfg.applyDefaults()
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.path = path
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *fileConfig) applyDefaults() {
	if c.Run.Extension == "" {
		c.Run.Extension = ".nep"
	}
	if !strings.HasPrefix(c.Run.Extension, ".") {
		c.Run.Extension = "." + c.Run.Extension
	}
	if c.Log.Level == "" {
		c.Log.Level = "warn"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	if c.REPL.Prompt == "" {
		c.REPL.Prompt = "nep> "
	}
}

func (c *fileConfig) validate() error {
	if c.Run.StepQuota < 0 {
		return fmt.Errorf("run.step_quota must not be negative")
	}
	if c.Run.RecursionLimit < 0 {
		return fmt.Errorf("run.recursion_limit must not be negative")
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}
	if _, err := parseLogLevel(c.Log.Level); err != nil {
		return err
	}
	return nil
}
