// Package config loads the driver's optional lox.toml file.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Color is a forced-color-mode setting from the config file.
// ColorAuto defers to terminal detection.
type Color string

const (
	ColorAuto Color = "auto"
	ColorOn   Color = "on"
	ColorOff  Color = "off"
)

// Config holds the driver defaults a lox.toml file may supply.
type Config struct {
	Color  Color  `toml:"color"`
	Prompt string `toml:"prompt"`
}

// Default returns the configuration the driver uses when no file is
// found or the file is malformed.
func Default() Config {
	return Config{Color: ColorAuto, Prompt: "> "}
}

// fileConfig mirrors the on-disk shape before defaults are applied.
// An explicit empty value is treated the same as an absent key.
type fileConfig struct {
	Color  string `toml:"color"`
	Prompt string `toml:"prompt"`
}

// Load looks for lox.toml first in the current directory, then in the
// user's config directory, and returns the first one found decoded
// over the defaults. A missing file is not an error. A malformed file
// is reported to errW and treated as absent: the driver's defaults
// apply and execution is never blocked.
func Load(errW io.Writer) Config {
	cfg := Default()

	path, ok := findConfigFile()
	if !ok {
		return cfg
	}

	var fc fileConfig
	if _, err := toml.DecodeFile(path, &fc); err != nil {
		fmt.Fprintf(errW, "warning: %s: failed to parse config: %s\n", path, err)
		return cfg
	}

	if fc.Color != "" {
		switch Color(fc.Color) {
		case ColorAuto, ColorOn, ColorOff:
			cfg.Color = Color(fc.Color)
		default:
			fmt.Fprintf(errW, "warning: %s: invalid color %q, ignoring\n", path, fc.Color)
		}
	}
	if fc.Prompt != "" {
		cfg.Prompt = fc.Prompt
	}
	return cfg
}

func findConfigFile() (string, bool) {
	if cwd, err := os.Getwd(); err == nil {
		candidate := filepath.Join(cwd, "lox.toml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true
		}
	}

	if dir, err := os.UserConfigDir(); err == nil {
		candidate := filepath.Join(dir, "lox", "lox.toml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false
		}
	}

	return "", false
}
