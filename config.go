package bvrw

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/BurntSushi/toml"
	log "github.com/sirupsen/logrus"
)

// Config represents the configuration of a Rewriter.
type Config struct {
	// Rewrite level. 0 disables rewriting, 1 enables evaluation, elimination
	// and special constant rules, 2 enables every rule.
	Level int `toml:"level"`

	// Names of rules that are never applied.
	Disabled []string `toml:"disabled_rules"`

	// Logging level used by the command line tool.
	LogLevel string `toml:"log_level"`
}

// DefaultConfig returns the default rewriter configuration.
func DefaultConfig() Config {
	return Config{
		Level:    DefaultLevel,
		LogLevel: "info",
	}
}

// LoadConfig reads a TOML configuration file from path.
func LoadConfig(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer f.Close()

	config, err := DecodeConfig(f)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return config, nil
}

// DecodeConfig decodes a TOML configuration from r. Keys that are not
// present keep their default values.
func DecodeConfig(r io.Reader) (Config, error) {
	var other Config
	meta, err := toml.DecodeReader(r, &other)
	if err != nil {
		return Config{}, err
	}
	if keys := meta.Undecoded(); len(keys) > 0 {
		return Config{}, fmt.Errorf("unknown config key: %s", keys[0])
	}

	config := DefaultConfig()
	if meta.IsDefined("level") {
		config.Level = other.Level
	}
	if meta.IsDefined("disabled_rules") {
		config.Disabled = normalizeList(other.Disabled)
	}
	if meta.IsDefined("log_level") {
		config.LogLevel = other.LogLevel
	}

	if err := config.Validate(); err != nil {
		return Config{}, err
	}
	return config, nil
}

// Validate returns an error if the level, a rule name or the log level is invalid.
func (c *Config) Validate() error {
	if c.Level < LevelNone || c.Level > LevelFull {
		return fmt.Errorf("%w: %d", ErrInvalidLevel, c.Level)
	}
	for _, name := range c.Disabled {
		if _, err := ParseRuleID(name); err != nil {
			return err
		}
	}
	if c.LogLevel != "" {
		if _, err := log.ParseLevel(c.LogLevel); err != nil {
			return err
		}
	}
	return nil
}

// normalizeList sorts list and removes duplicates.
func normalizeList(list []string) []string {
	if len(list) <= 1 {
		return list
	}
	sort.Strings(list)
	other := make([]string, 0, len(list))
	other = append(other, list[0])
	for i, el := range list[1:] {
		if el != list[i] {
			other = append(other, el)
		}
	}
	return other
}
