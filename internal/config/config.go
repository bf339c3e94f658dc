// Package config loads the project file tokencheck.toml.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// FileName is the project configuration file name.
const FileName = "tokencheck.toml"

// Config is the decoded project configuration.
type Config struct {
	Schemas SchemasConfig `toml:"schemas"`
	Check   CheckConfig   `toml:"check"`

	// Path is the file the config was read from; empty for Default.
	Path string `toml:"-"`
}

// SchemasConfig locates family schema sources.
type SchemasConfig struct {
	Dir string `toml:"dir"`
}

// CheckConfig holds verification defaults.
type CheckConfig struct {
	Values bool   `toml:"values"`
	Format string `toml:"format"`
	Jobs   int    `toml:"jobs"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Check: CheckConfig{Format: "text"},
	}
}

// Find walks up from startDir looking for tokencheck.toml.
// The boolean is false when no file exists up to the filesystem root.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false, nil
		}
		dir = parent
	}
}

// Load decodes the file at path. Unknown keys are rejected and a relative
// schemas.dir is resolved against the file's directory.
func Load(path string) (*Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}

	cfg.Path = path
	if cfg.Check.Format != "text" && cfg.Check.Format != "json" {
		return nil, fmt.Errorf("%s: [check].format must be text or json, got %q", path, cfg.Check.Format)
	}
	if cfg.Check.Jobs < 0 {
		return nil, fmt.Errorf("%s: [check].jobs must be non-negative", path)
	}
	if meta.IsDefined("schemas", "dir") {
		if strings.TrimSpace(cfg.Schemas.Dir) == "" {
			return nil, fmt.Errorf("%s: [schemas].dir is empty", path)
		}
		if !filepath.IsAbs(cfg.Schemas.Dir) {
			cfg.Schemas.Dir = filepath.Join(filepath.Dir(path), filepath.FromSlash(cfg.Schemas.Dir))
		}
	}
	return cfg, nil
}

// Discover finds and loads the nearest config file, or returns Default.
func Discover(startDir string) (*Config, error) {
	path, ok, err := Find(startDir)
	if err != nil {
		return nil, err
	}
	if !ok {
		return Default(), nil
	}
	return Load(path)
}
