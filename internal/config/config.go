// Package config loads and validates the application configuration from
// an orvia_config.yaml file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/teambition/rrule-go"
	"gopkg.in/yaml.v3"

	"github.com/jzsun22/orvia-scheduler/pkg/core/timeutil"
)

// DefaultTimezone is the business's civil timezone when none is configured
const DefaultTimezone = "America/Los_Angeles"

// DefaultCacheTTL is how long roster reads stay cached when no TTL is
// configured
const DefaultCacheTTL = 5 * time.Minute

// PairedShiftRule identifies the split-shift special case: the one
// location/position whose two templates must share a single worker.
// Times are "HH:mm" strings.
type PairedShiftRule struct {
	LocationID  string `yaml:"locationID" validate:"required"`
	PositionID  string `yaml:"positionID" validate:"required"`
	FirstStart  string `yaml:"firstStart" validate:"required"`
	FirstEnd    string `yaml:"firstEnd" validate:"required"`
	SecondStart string `yaml:"secondStart" validate:"required"`
	SecondEnd   string `yaml:"secondEnd" validate:"required"`
}

// ClosedDateRule marks recurring dates a location is closed; matching
// dates are excluded from generation
type ClosedDateRule struct {
	RRule  string `yaml:"rrule" validate:"required"`
	Reason string `yaml:"reason,omitempty"`
}

// Config represents the application configuration
type Config struct {
	DatabaseURL     string           `yaml:"databaseURL" validate:"required"`
	Timezone        string           `yaml:"timezone,omitempty"`
	CacheTTLMinutes int              `yaml:"cacheTTLMinutes,omitempty" validate:"omitempty,min=1"`
	PairedShift     *PairedShiftRule `yaml:"pairedShift,omitempty"`
	ClosedDates     []ClosedDateRule `yaml:"closedDates,omitempty" validate:"dive"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Load loads and validates the configuration from orvia_config.yaml,
// looking in the current directory first and then the user's home
// directory
func Load() (*Config, error) {
	configPath, err := findConfigFile()
	if err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	return LoadFromPath(configPath)
}

// LoadFromPath loads and validates the configuration from a specific path
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate validates the configuration struct, the paired-shift clock
// strings, the timezone name, and closed-date rrule syntax
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	if cfg.Timezone != "" {
		if _, err := time.LoadLocation(cfg.Timezone); err != nil {
			return fmt.Errorf("invalid timezone %q: %w", cfg.Timezone, err)
		}
	}

	if ps := cfg.PairedShift; ps != nil {
		for _, clock := range []string{ps.FirstStart, ps.FirstEnd, ps.SecondStart, ps.SecondEnd} {
			if _, err := timeutil.ParseClock(clock); err != nil {
				return fmt.Errorf("invalid pairedShift time: %w", err)
			}
		}
	}

	for i, rule := range cfg.ClosedDates {
		if _, err := rrule.StrToRRule(rule.RRule); err != nil {
			return fmt.Errorf("invalid rrule in closedDates[%d]: %w", i, err)
		}
	}

	return nil
}

// TimezoneName returns the configured timezone, falling back to the
// default business zone
func (c *Config) TimezoneName() string {
	if c.Timezone != "" {
		return c.Timezone
	}
	return DefaultTimezone
}

// CacheTTL returns the configured roster cache TTL
func (c *Config) CacheTTL() time.Duration {
	if c.CacheTTLMinutes > 0 {
		return time.Duration(c.CacheTTLMinutes) * time.Minute
	}
	return DefaultCacheTTL
}

// findConfigFile searches for orvia_config.yaml in the current directory
// and then the home directory
func findConfigFile() (string, error) {
	configFileName := "orvia_config.yaml"

	if _, err := os.Stat(configFileName); err == nil {
		return configFileName, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	homeConfigPath := filepath.Join(homeDir, configFileName)
	if _, err := os.Stat(homeConfigPath); err == nil {
		return homeConfigPath, nil
	}

	return "", fmt.Errorf("config file not found in current directory or home directory")
}
