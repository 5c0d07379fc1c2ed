package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Config holds all configuration for the ecsgen generator.
// Precedence: environment variables > config file > defaults.
type Config struct {
	Manifest ManifestConfig `toml:"manifest"`
	Output   OutputConfig   `toml:"output"`
	Log      LogConfig      `toml:"log"`
}

// ManifestConfig locates the manifest document to generate from.
type ManifestConfig struct {
	Path string `toml:"path"`
}

// OutputConfig controls where and how generated artifacts are written.
type OutputConfig struct {
	Dir    string `toml:"dir"`    // Output directory for generated files.
	Prefix string `toml:"prefix"` // Loaded and overridable, but not applied: artifacts are always named "<artifact>.gen.go".
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level string `toml:"level"` // debug, info, warn, error
}

// Load creates a Config by reading from a TOML config file and environment
// variables. Precedence: environment variables > config file > defaults.
//
// Config file search order (first found wins):
//  1. Path passed via configPath parameter (from --config flag)
//  2. ECSGEN_CONFIG environment variable
//  3. ./ecsgen.toml (current directory)
//  4. ~/.config/ecsgen/ecsgen.toml (XDG-style)
//
// All fields are optional in the config file. Environment variables always
// override file values.
func Load(configPath string) (*Config, error) {
	cfg := &Config{
		Manifest: ManifestConfig{
			Path: "ecs.yaml",
		},
		Output: OutputConfig{
			Dir:    "generated",
			Prefix: "",
		},
		Log: LogConfig{
			Level: "info",
		},
	}

	if err := cfg.loadFile(configPath); err != nil {
		return nil, err
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFile finds and parses the TOML config file. If no file is found,
// this is a no-op (config file is optional).
func (c *Config) loadFile(configPath string) error {
	path := resolveConfigPath(configPath)
	if path == "" {
		return nil // no config file found; rely on defaults + env
	}

	if _, err := toml.DecodeFile(path, c); err != nil {
		return fmt.Errorf("reading config file %s: %w", path, err)
	}

	return nil
}

// resolveConfigPath determines which config file to use. Returns empty string
// if no config file is found (config file is optional).
func resolveConfigPath(explicit string) string {
	if explicit != "" {
		return explicit // caller wants this file; let DecodeFile report if missing
	}

	if p := os.Getenv("ECSGEN_CONFIG"); p != "" {
		return p
	}

	if _, err := os.Stat("ecsgen.toml"); err == nil {
		return "ecsgen.toml"
	}

	if home, err := os.UserHomeDir(); err == nil {
		p := home + "/.config/ecsgen/ecsgen.toml"
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}

// applyEnv overlays environment variables on top of existing config values.
// An env var only takes effect if it is non-empty.
func (c *Config) applyEnv() {
	envOverride("ECSGEN_MANIFEST", &c.Manifest.Path)
	envOverride("ECSGEN_OUTPUT_DIR", &c.Output.Dir)
	envOverride("ECSGEN_OUTPUT_PREFIX", &c.Output.Prefix)
	envOverride("ECSGEN_LOG_LEVEL", &c.Log.Level)
}

// Validate checks that required fields are present.
func (c *Config) Validate() error {
	if c.Manifest.Path == "" {
		return fmt.Errorf("manifest path is required: set manifest.path in config file, or ECSGEN_MANIFEST env var")
	}
	if c.Output.Dir == "" {
		return fmt.Errorf("output directory is required: set output.dir in config file, or ECSGEN_OUTPUT_DIR env var")
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %q (must be one of debug, info, warn, error)", c.Log.Level)
	}
	return nil
}

// envOverride sets *dst to the value of the named env var, if it is non-empty.
func envOverride(key string, dst *string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
