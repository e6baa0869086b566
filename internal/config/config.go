package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/teambition/rrule-go"
	"gopkg.in/yaml.v3"
)

// StressProfile describes one reproducible stress scenario: a recurring
// shift timetable plus a synthetic volunteer population.
type StressProfile struct {
	Name string `yaml:"name" validate:"required"`

	// RRule lays out the shift dates ("FREQ=DAILY;COUNT=3", ...)
	RRule string `yaml:"rrule" validate:"required"`

	// ShiftsPerDay and Capacity shape the timetable
	ShiftsPerDay int `yaml:"shiftsPerDay" validate:"min=1"`
	Capacity     int `yaml:"capacity" validate:"min=1"`

	// Volunteers is the population size
	Volunteers int `yaml:"volunteers" validate:"min=1"`

	// Skew biases preferences toward popular shifts: 0 = uniform, 1 =
	// everyone wants the same few shifts
	Skew float64 `yaml:"skew" validate:"min=0,max=1"`

	// Runs is how many seeds to sweep
	Runs int `yaml:"runs" validate:"min=1"`
}

// Config is the application configuration for the fairshift CLI.
type Config struct {
	// LogDir receives JSON debug logs; empty disables file logging
	LogDir string `yaml:"logDir,omitempty"`

	// PostgresDSN enables persistence of solve runs when non-empty
	PostgresDSN string `yaml:"postgresDSN,omitempty"`

	// SolveTimeoutSeconds bounds a whole solve invocation; 0 means no
	// deadline
	SolveTimeoutSeconds int `yaml:"solveTimeoutSeconds,omitempty" validate:"min=0"`

	// StressProfiles available to the stress command
	StressProfiles []StressProfile `yaml:"stressProfiles,omitempty" validate:"dive"`
}

const configFileName = "fairshift.yaml"

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Load reads the configuration from fairshift.yaml, looking in the current
// directory first and the user's home directory second. A missing file
// yields a zero-value config, which is valid.
func Load() (*Config, error) {
	path, err := findConfigFile()
	if err != nil {
		return &Config{}, nil
	}
	return LoadFromPath(path)
}

// LoadFromPath reads and validates the configuration at a specific path.
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

// Validate runs struct validation and checks rrule syntax for every stress
// profile.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	for i, profile := range cfg.StressProfiles {
		if _, err := rrule.StrToRRule(profile.RRule); err != nil {
			return fmt.Errorf("invalid rrule in stressProfiles[%d]: %w", i, err)
		}
	}

	return nil
}

// Profile returns the named stress profile.
func (c *Config) Profile(name string) (*StressProfile, error) {
	for i := range c.StressProfiles {
		if c.StressProfiles[i].Name == name {
			return &c.StressProfiles[i], nil
		}
	}
	return nil, fmt.Errorf("no stress profile named %q", name)
}

func findConfigFile() (string, error) {
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
