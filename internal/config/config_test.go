package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 30, cfg.DefaultTimeLimitSeconds)
	assert.False(t, cfg.DefaultVerbose)
	assert.False(t, cfg.IncludeAdminInWorkloadBalance)
	assert.Equal(t, int32(10), cfg.DatabaseMaxConns)
	assert.Equal(t, "logs", cfg.LogDir)
}

func TestValidate_ValidConfig(t *testing.T) {
	cfg := Default()
	cfg.DatabaseURL = "postgres://localhost/secretary_assign"

	err := Validate(&cfg)
	assert.NoError(t, err)
}

func TestValidate_MissingDatabaseURL(t *testing.T) {
	cfg := Default()

	err := Validate(&cfg)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "config validation failed")
}

func TestValidate_InvalidTimeLimit(t *testing.T) {
	cfg := Default()
	cfg.DatabaseURL = "postgres://localhost/secretary_assign"
	cfg.DefaultTimeLimitSeconds = 0

	err := Validate(&cfg)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "config validation failed")
}

func TestLoadFromPath_ValidConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "test_config.yaml")

	validConfig := `
databaseURL: "postgres://localhost/secretary_assign"
defaultTimeLimitSeconds: 45
defaultVerbose: true
includeAdminInWorkloadBalance: true
`

	err := os.WriteFile(configPath, []byte(validConfig), 0644)
	require.NoError(t, err)

	cfg, err := LoadFromPath(configPath)
	require.NoError(t, err)

	assert.Equal(t, "postgres://localhost/secretary_assign", cfg.DatabaseURL)
	assert.Equal(t, 45, cfg.DefaultTimeLimitSeconds)
	assert.True(t, cfg.DefaultVerbose)
	assert.True(t, cfg.IncludeAdminInWorkloadBalance)
}

func TestLoadFromPath_MinimalConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "minimal_config.yaml")

	minimalConfig := `
databaseURL: "postgres://localhost/secretary_assign"
`

	err := os.WriteFile(configPath, []byte(minimalConfig), 0644)
	require.NoError(t, err)

	cfg, err := LoadFromPath(configPath)
	require.NoError(t, err)

	assert.Equal(t, "postgres://localhost/secretary_assign", cfg.DatabaseURL)
	assert.Equal(t, 30, cfg.DefaultTimeLimitSeconds)
	assert.False(t, cfg.DefaultVerbose)
}

func TestLoadFromPath_MissingRequiredField(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid_config.yaml")

	invalidConfig := `
defaultTimeLimitSeconds: 30
`

	err := os.WriteFile(configPath, []byte(invalidConfig), 0644)
	require.NoError(t, err)

	_, err = LoadFromPath(configPath)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "config validation failed")
}

func TestLoadFromPath_InvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid_yaml.yaml")

	invalidYAML := `
databaseURL: "postgres://localhost/secretary_assign"
  invalid indentation
`

	err := os.WriteFile(configPath, []byte(invalidYAML), 0644)
	require.NoError(t, err)

	_, err = LoadFromPath(configPath)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestLoadFromPath_FileNotFound(t *testing.T) {
	_, err := LoadFromPath("/nonexistent/path/config.yaml")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}
