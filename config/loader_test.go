// Configuration loader tests.
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoader_LoadDefaults(t *testing.T) {
	cfg, err := NewLoader().Load()
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, 3005, cfg.Server.HTTPPort)
	assert.Equal(t, "gpt-4o-mini", cfg.LLM.Model)
	assert.True(t, cfg.Agent.Headless)
}

func TestLoader_LoadFromYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
server:
  http_port: 8888
  read_timeout: 60s

llm:
  model: "gpt-4o"
  base_url: "https://llm.internal"

agent:
  runtime_url: "http://runtime:7788"
  headless: false
  max_turns: 25

log:
  level: "debug"
  format: "console"
`
	err := os.WriteFile(configPath, []byte(yamlContent), 0644)
	require.NoError(t, err)

	cfg, err := NewLoader().
		WithConfigPath(configPath).
		Load()
	require.NoError(t, err)

	assert.Equal(t, 8888, cfg.Server.HTTPPort)
	assert.Equal(t, 60*time.Second, cfg.Server.ReadTimeout)

	assert.Equal(t, "gpt-4o", cfg.LLM.Model)
	assert.Equal(t, "https://llm.internal", cfg.LLM.BaseURL)

	assert.Equal(t, "http://runtime:7788", cfg.Agent.RuntimeURL)
	assert.False(t, cfg.Agent.Headless)
	assert.Equal(t, 25, cfg.Agent.MaxTurns)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
}

func TestLoader_LoadFromEnv(t *testing.T) {
	envVars := map[string]string{
		"BROWSERAGENT_SERVER_HTTP_PORT": "7777",
		"BROWSERAGENT_LLM_MODEL":        "gpt-4-turbo",
		"BROWSERAGENT_AGENT_MAX_TURNS":  "15",
		"BROWSERAGENT_AGENT_HEADLESS":   "false",
		"BROWSERAGENT_LOG_LEVEL":        "warn",
	}

	for k, v := range envVars {
		t.Setenv(k, v)
	}

	cfg, err := NewLoader().Load()
	require.NoError(t, err)

	assert.Equal(t, 7777, cfg.Server.HTTPPort)
	assert.Equal(t, "gpt-4-turbo", cfg.LLM.Model)
	assert.Equal(t, 15, cfg.Agent.MaxTurns)
	assert.False(t, cfg.Agent.Headless)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoader_EnvOverridesYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
server:
  http_port: 8888
llm:
  model: "yaml-model"
`
	err := os.WriteFile(configPath, []byte(yamlContent), 0644)
	require.NoError(t, err)

	t.Setenv("BROWSERAGENT_SERVER_HTTP_PORT", "9999")

	cfg, err := NewLoader().
		WithConfigPath(configPath).
		Load()
	require.NoError(t, err)

	// Environment wins over YAML; untouched YAML values survive.
	assert.Equal(t, 9999, cfg.Server.HTTPPort)
	assert.Equal(t, "yaml-model", cfg.LLM.Model)
}

func TestLoader_LegacyEnvAliases(t *testing.T) {
	// Existing deployments configure the service via the flat PORT and
	// OPENAI_API_KEY variables; they must keep working and win over both
	// YAML and prefixed environment values.
	t.Setenv("PORT", "4242")
	t.Setenv("OPENAI_API_KEY", "sk-legacy")
	t.Setenv("BROWSERAGENT_SERVER_HTTP_PORT", "7777")

	cfg, err := NewLoader().Load()
	require.NoError(t, err)

	assert.Equal(t, 4242, cfg.Server.HTTPPort)
	assert.Equal(t, "sk-legacy", cfg.LLM.APIKey)
}

func TestLoader_LegacyPortIgnoresGarbage(t *testing.T) {
	t.Setenv("PORT", "not-a-port")

	cfg, err := NewLoader().Load()
	require.NoError(t, err)

	assert.Equal(t, 3005, cfg.Server.HTTPPort)
}

func TestLoader_CustomEnvPrefix(t *testing.T) {
	t.Setenv("MYAPP_SERVER_HTTP_PORT", "6666")

	cfg, err := NewLoader().
		WithEnvPrefix("MYAPP").
		Load()
	require.NoError(t, err)

	assert.Equal(t, 6666, cfg.Server.HTTPPort)
}

func TestLoader_WithValidator(t *testing.T) {
	validator := func(cfg *Config) error {
		if cfg.Server.HTTPPort < 1024 {
			return assert.AnError
		}
		return nil
	}

	t.Setenv("BROWSERAGENT_SERVER_HTTP_PORT", "80")

	_, err := NewLoader().
		WithValidator(validator).
		Load()
	assert.Error(t, err)
}

func TestLoader_NonExistentFile(t *testing.T) {
	cfg, err := NewLoader().
		WithConfigPath("/non/existent/path/config.yaml").
		Load()
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, 3005, cfg.Server.HTTPPort)
}

func TestLoader_InvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	invalidYAML := `
server:
  http_port: [invalid
  this is not valid yaml
`
	err := os.WriteFile(configPath, []byte(invalidYAML), 0644)
	require.NoError(t, err)

	_, err = NewLoader().
		WithConfigPath(configPath).
		Load()
	assert.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid default config",
			modify:  func(c *Config) {},
			wantErr: false,
		},
		{
			name: "invalid HTTP port (negative)",
			modify: func(c *Config) {
				c.Server.HTTPPort = -1
			},
			wantErr: true,
		},
		{
			name: "invalid HTTP port (too large)",
			modify: func(c *Config) {
				c.Server.HTTPPort = 70000
			},
			wantErr: true,
		},
		{
			name: "invalid max turns",
			modify: func(c *Config) {
				c.Agent.MaxTurns = 0
			},
			wantErr: true,
		},
		{
			name: "missing runtime URL",
			modify: func(c *Config) {
				c.Agent.RuntimeURL = ""
			},
			wantErr: true,
		},
		{
			name: "missing model",
			modify: func(c *Config) {
				c.LLM.Model = ""
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestMustLoad_InvalidFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	err := os.WriteFile(configPath, []byte("invalid: [yaml"), 0644)
	require.NoError(t, err)

	assert.Panics(t, func() {
		MustLoad(configPath)
	})
}
