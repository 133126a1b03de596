package utils

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/ochronus/gocomppare/internal/config"
	"github.com/ochronus/gocomppare/internal/services/comppare"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigTemplateContent(t *testing.T) {
	for _, section := range []string{"base_url", "loglevel", "[credentials]", "email", "password"} {
		assert.Contains(t, configTemplate, section)
	}
}

func TestConfigTemplateBaseURL(t *testing.T) {
	assert.Contains(t, ConfigTemplate(""), `base_url = "`+comppare.DefaultBaseURL+`"`)
	assert.Contains(t, ConfigTemplate("http://localhost:8000/api"), `base_url = "http://localhost:8000/api"`)
	assert.NotContains(t, ConfigTemplate(""), "{{BASE_URL}}")
}

func TestGenerateConfigCreatesDirectory(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "subdir", "nested", "config.toml")

	var out bytes.Buffer
	require.NoError(t, GenerateConfig(configPath, "", &out))

	info, err := os.Stat(configPath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
	assert.Contains(t, out.String(), "Writing "+configPath)
}

func TestGenerateConfigBacksUpExistingFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(configPath, []byte("old"), 0644))

	var out bytes.Buffer
	require.NoError(t, GenerateConfig(configPath, "", &out))

	backup, err := os.ReadFile(configPath + ".bak")
	require.NoError(t, err)
	assert.Equal(t, "old", string(backup))
	assert.Contains(t, out.String(), "Backing up config")
}

func TestGeneratedConfigLoads(t *testing.T) {
	for _, key := range []string{"BASE_URL", "LOGLEVEL", "EMAIL", "PASSWORD"} {
		t.Setenv(config.EnvPrefix+"_"+key, "")
		os.Unsetenv(config.EnvPrefix + "_" + key)
	}

	configPath := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, GenerateConfig(configPath, "http://localhost:8000/api", &bytes.Buffer{}))

	cfg, err := config.Load(configPath, false)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "http://localhost:8000/api", cfg.BaseURL)
	assert.Equal(t, "info", cfg.Loglevel)
	assert.True(t, cfg.HasCredentials())
}
