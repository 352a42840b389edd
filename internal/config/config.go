package config

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	// DefaultIntervalHours is the check interval used when none is configured.
	DefaultIntervalHours = 8

	// MinIntervalHours is the shortest allowed check interval.
	MinIntervalHours = 1

	// MaxIntervalHours is the longest interval a time.Duration can hold.
	MaxIntervalHours = int(math.MaxInt64 / int64(time.Hour))

	keyInterval    = "updateintervalhours"
	keyShowExit    = "showexitoption"
	keyShowConsole = "showwingetconsoleoption"
)

// Config represents the upkeep settings file.
type Config struct {
	// UpdateIntervalHours is the time between scheduled upgrade checks.
	UpdateIntervalHours int `toml:"UpdateIntervalHours"`

	// ShowExitOption adds an Exit item to the tray menu.
	ShowExitOption bool `toml:"ShowExitOption"`

	// ShowConsoleOption adds an Open WinGet Console item to the tray menu.
	ShowConsoleOption bool `toml:"ShowWinGetConsoleOption"`
}

// settingsFile is the on-disk layout: a single [Settings] table.
type settingsFile struct {
	Settings Config `toml:"Settings"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		UpdateIntervalHours: DefaultIntervalHours,
		ShowExitOption:      true,
		ShowConsoleOption:   true,
	}
}

// Load loads the configuration from the default path.
// If the file doesn't exist, the defaults are written there and returned.
func Load() (*Config, error) {
	return LoadFrom(ConfigPath())
}

// LoadFrom loads the configuration from a specific path.
//
// Recognized keys override their defaults; anything else in the file is
// ignored, and a value that cannot be understood keeps the default. When the
// file is missing the defaults are persisted first. Errors are only returned
// for I/O failures, always together with a usable configuration.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		if err := cfg.SaveTo(path); err != nil {
			return cfg, fmt.Errorf("failed to write default config: %w", err)
		}
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	cfg.merge(string(data))
	return cfg, nil
}

// merge applies every recognized key=value line to c.
func (c *Config) merge(content string) {
	lines := strings.FieldsFunc(content, func(r rune) bool { return r == '\n' || r == '\r' })
	for _, line := range lines {
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)

		switch strings.ToLower(strings.TrimSpace(key)) {
		case keyInterval:
			if hours, err := strconv.Atoi(value); err == nil {
				c.UpdateIntervalHours = max(MinIntervalHours, hours)
			}
		case keyShowExit:
			c.ShowExitOption = parseBool(value)
		case keyShowConsole:
			c.ShowConsoleOption = parseBool(value)
		}
	}
}

// parseBool accepts true, 1 and yes in any case. Everything else is false.
func parseBool(value string) bool {
	switch strings.ToLower(value) {
	case "true", "1", "yes":
		return true
	}
	return false
}

// SaveTo writes the configuration to a specific path.
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(settingsFile{Settings: *c})
}

// IntervalHours returns the configured interval clamped to
// [MinIntervalHours, MaxIntervalHours].
func (c *Config) IntervalHours() int {
	return min(max(MinIntervalHours, c.UpdateIntervalHours), MaxIntervalHours)
}

// Interval returns the time between scheduled checks.
func (c *Config) Interval() time.Duration {
	return time.Duration(c.IntervalHours()) * time.Hour
}
