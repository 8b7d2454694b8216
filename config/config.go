// Package config loads formatsb settings from a TOML file.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/byte4ever/formatsb/composite"
	"github.com/byte4ever/formatsb/output"
)

// Config holds the formatsb configuration.
type Config struct {
	LineBreak      string   `toml:"line_break"`
	StartTag       string   `toml:"start_tag"`
	EndTag         string   `toml:"end_tag"`
	Format         string   `toml:"format"` // json, yaml, text or rendered
	StampInfoFiles []string `toml:"stamp_info_files"`
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		LineBreak: composite.DefaultLineBreak,
		StartTag:  "{{",
		EndTag:    "}}",
		Format:    string(output.JSON),
	}
}

// Load reads config from path.
// Returns Default() if path is empty or the file doesn't exist.
// Returns error only if the file exists but is invalid.
func Load(path string) (Config, error) {
	const errCtx = "loading config"

	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path) //nolint:gosec // path from CLI flag
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}

		return Default(), fmt.Errorf("%s: %w", errCtx, err)
	}

	cfg := Default()
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("%s: parsing %s: %w", errCtx, path, err)
	}

	// Empty values fall back to defaults; an empty line break
	// would silently drop line terminators.
	def := Default()
	if cfg.LineBreak == "" {
		cfg.LineBreak = def.LineBreak
	}

	if cfg.StartTag == "" {
		cfg.StartTag = def.StartTag
	}

	if cfg.EndTag == "" {
		cfg.EndTag = def.EndTag
	}

	if cfg.Format == "" {
		cfg.Format = def.Format
	}

	if _, err := output.ParseFormat(cfg.Format); err != nil {
		return Default(), fmt.Errorf("%s: %w", errCtx, err)
	}

	if err := composite.ValidateLineBreak(cfg.LineBreak); err != nil {
		return Default(), fmt.Errorf("%s: line_break: %w", errCtx, err)
	}

	return cfg, nil
}
