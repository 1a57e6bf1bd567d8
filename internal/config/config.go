// Package config loads and validates the YAML configuration for the
// secretary assignment driver.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config is the application configuration for one assignment run.
type Config struct {
	DatabaseURL   string `yaml:"databaseURL" validate:"required"`
	DefaultTimeLimitSeconds int  `yaml:"defaultTimeLimitSeconds" validate:"gte=1"`
	DefaultVerbose          bool `yaml:"defaultVerbose"`

	// IncludeAdminInWorkloadBalance decides whether admin placements count
	// toward the workload-balance deviation term. Default false: the weight
	// table scopes that term to medical-only counts.
	IncludeAdminInWorkloadBalance bool `yaml:"includeAdminInWorkloadBalance"`

	// DatabaseMaxConns bounds the pgx pool opened by internal/store/postgres.
	DatabaseMaxConns int32 `yaml:"databaseMaxConns" validate:"gte=1"`
	// DatabaseMaxConnIdleSeconds releases idle pool connections between CLI runs.
	DatabaseMaxConnIdleSeconds int `yaml:"databaseMaxConnIdleSeconds" validate:"gte=1"`

	// LogDir is where the run's log file is written, named after the week
	// it processed.
	LogDir string `yaml:"logDir" validate:"required"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Default returns a config with every non-required field at its documented default.
func Default() Config {
	return Config{
		DefaultTimeLimitSeconds:       30,
		DefaultVerbose:                false,
		IncludeAdminInWorkloadBalance: false,
		DatabaseMaxConns:              10,
		DatabaseMaxConnIdleSeconds:    1800,
		LogDir:                        "logs",
	}
}

// Load finds and parses the config file, applying defaults for unset fields.
func Load() (*Config, error) {
	path, err := findConfigFile()
	if err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}
	return LoadFromPath(path)
}

// LoadFromPath loads and validates the configuration from a specific path.
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate runs struct-tag validation over the configuration.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

// findConfigFile searches for the config file in the current directory,
// then in the home directory.
func findConfigFile() (string, error) {
	const configFileName = "secretary_assign_config.yaml"

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
