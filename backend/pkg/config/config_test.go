package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "bella-chat/backend/pkg/errors"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "LITELLM_URL", "DEFAULT_MODEL", "GEN_TEMPERATURE", "GEN_TOP_P",
		"GEN_MAX_LENGTH", "GEN_REPETITION_PENALTY", "NEO4J_URI", "NEO4J_PASSWORD", "REPLICATE_API_TOKEN",
		"SESSION_IDLE_MINUTES", "MAX_SESSIONS"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8501", cfg.Port)
	assert.Equal(t, "Llama2-7B", cfg.DefaultModel)
	assert.InDelta(t, 0.1, cfg.Temperature, 1e-9)
	assert.InDelta(t, 0.9, cfg.TopP, 1e-9)
	assert.Equal(t, 150, cfg.MaxLength)
	assert.InDelta(t, 1.0, cfg.RepetitionPenalty, 1e-9)
	assert.Equal(t, 30*time.Minute, cfg.SessionIdleTimeout)
	assert.Equal(t, 10000, cfg.MaxSessions)
	assert.False(t, cfg.GraphExportEnabled())
	assert.Equal(t, "response.txt", cfg.LocalOutputFile)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("GEN_MAX_LENGTH", "300")
	t.Setenv("GEN_TEMPERATURE", "0.75")
	t.Setenv("NEO4J_URI", "bolt://graph:7687")
	t.Setenv("NEO4J_PASSWORD", "secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, 300, cfg.MaxLength)
	assert.InDelta(t, 0.75, cfg.Temperature, 1e-9)
	assert.True(t, cfg.GraphExportEnabled())
}

func TestLoad_UnparsableNumbersFallBack(t *testing.T) {
	t.Setenv("GEN_MAX_LENGTH", "lots")
	t.Setenv("GEN_TOP_P", "high")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 150, cfg.MaxLength)
	assert.InDelta(t, 0.9, cfg.TopP, 1e-9)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Port:               "8501",
			LiteLLMURL:         "http://localhost:4000",
			DefaultModel:       "Llama2-7B",
			Temperature:        0.1,
			TopP:               0.9,
			MaxLength:          150,
			RepetitionPenalty:  1,
			SessionIdleTimeout: 30 * time.Minute,
			MaxSessions:        10000,
		}
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"ok", func(*Config) {}, ""},
		{"no gateway", func(c *Config) { c.LiteLLMURL = "" }, "LITELLM_URL"},
		{"top_p zero", func(c *Config) { c.TopP = 0 }, "GEN_TOP_P"},
		{"max length zero", func(c *Config) { c.MaxLength = 0 }, "GEN_MAX_LENGTH"},
		{"no idle timeout", func(c *Config) { c.SessionIdleTimeout = 0 }, "SESSION_IDLE_MINUTES"},
		{"no session cap", func(c *Config) { c.MaxSessions = 0 }, "MAX_SESSIONS"},
		{"neo4j without password", func(c *Config) { c.Neo4jURI = "bolt://x" }, "NEO4J_PASSWORD"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeConfig))
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}
