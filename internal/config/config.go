// internal/config/config.go
//
// Runtime configuration for the blockfall binary.
//
// Sources, later ones win:
//   1. Built-in defaults.
//   2. An optional YAML file named by BLOCKFALL_CONFIG.
//   3. Environment variables (a `.env` file is loaded by main beforehand).
//
// Environment variables:
//   LOG_LEVEL          zerolog level name (default "info")
//   PIECES_FILE        YAML piece catalog; empty means the embedded default
//   BLOCKFALL_EMPTY    symbol for an empty cell (default "-")
//   BLOCKFALL_FILLED   symbol for an occupied cell (default "0")

package config

import (
	"errors"
	"fmt"
	"os"
	"unicode"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

// Config holds every tunable of the binary.
type Config struct {
	LogLevel     string `yaml:"log_level"`
	PiecesFile   string `yaml:"pieces_file"`
	EmptySymbol  string `yaml:"empty_symbol"`
	FilledSymbol string `yaml:"filled_symbol"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		LogLevel:     "info",
		EmptySymbol:  "-",
		FilledSymbol: "0",
	}
}

// Load builds the configuration from defaults, the optional config file and
// the environment, then validates it.
func Load() (Config, error) {
	c := Default()
	if path := os.Getenv("BLOCKFALL_CONFIG"); path != "" {
		if err := c.mergeFile(path); err != nil {
			return Config{}, err
		}
	}
	c.mergeEnv()
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate checks that both symbols are single visible runes and differ.
func (c Config) Validate() error {
	symbols := []struct{ name, value string }{
		{"empty_symbol", c.EmptySymbol},
		{"filled_symbol", c.FilledSymbol},
	}
	for _, s := range symbols {
		r, size := utf8.DecodeRuneInString(s.value)
		if s.value == "" || size != len(s.value) || unicode.IsSpace(r) {
			return fmt.Errorf("config: %s must be a single non-space character, got %q", s.name, s.value)
		}
	}
	if c.EmptySymbol == c.FilledSymbol {
		return errors.New("config: empty_symbol and filled_symbol must differ")
	}
	return nil
}

// mergeFile overlays the non-empty fields of a YAML file onto c.
func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	var f Config
	if err := yaml.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	c.overlay(f)
	return nil
}

func (c *Config) mergeEnv() {
	c.overlay(Config{
		LogLevel:     os.Getenv("LOG_LEVEL"),
		PiecesFile:   os.Getenv("PIECES_FILE"),
		EmptySymbol:  os.Getenv("BLOCKFALL_EMPTY"),
		FilledSymbol: os.Getenv("BLOCKFALL_FILLED"),
	})
}

func (c *Config) overlay(o Config) {
	setIf(&c.LogLevel, o.LogLevel)
	setIf(&c.PiecesFile, o.PiecesFile)
	setIf(&c.EmptySymbol, o.EmptySymbol)
	setIf(&c.FilledSymbol, o.FilledSymbol)
}

func setIf(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
