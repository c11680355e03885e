package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	apperrors "bella-chat/backend/pkg/errors"
)

// Config holds all application configuration
type Config struct {
	// App
	Port     string
	Env      string
	LogLevel string

	// Hosted inference (OpenAI-compatible gateway in front of Replicate)
	LiteLLMURL        string
	ReplicateAPIToken string // Optional; users can enter one in the UI
	DefaultModel      string

	// Browser sessions
	SessionIdleTimeout time.Duration
	MaxSessions        int

	// Generation parameters
	Temperature       float64
	TopP              float64
	MaxLength         int
	RepetitionPenalty float64

	// Neo4j (optional, enables the HIFIS export)
	Neo4jURI      string
	Neo4jUser     string
	Neo4jPassword string

	// Local batch inference
	LocalRuntimeURL string
	LocalModelPath  string
	LocalOutputFile string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file, but don't fail if it doesn't exist
	_ = godotenv.Load()

	cfg := &Config{
		Port:               getEnv("PORT", "8501"),
		Env:                getEnv("ENV", "development"),
		LogLevel:           getEnv("LOG_LEVEL", ""),
		LiteLLMURL:         getEnv("LITELLM_URL", "http://localhost:4000"),
		ReplicateAPIToken:  getEnv("REPLICATE_API_TOKEN", ""),
		DefaultModel:       getEnv("DEFAULT_MODEL", "Llama2-7B"),
		Temperature:        getEnvFloat("GEN_TEMPERATURE", 0.1),
		TopP:               getEnvFloat("GEN_TOP_P", 0.9),
		MaxLength:          getEnvInt("GEN_MAX_LENGTH", 150),
		RepetitionPenalty:  getEnvFloat("GEN_REPETITION_PENALTY", 1),
		SessionIdleTimeout: time.Duration(getEnvInt("SESSION_IDLE_MINUTES", 30)) * time.Minute,
		MaxSessions:        getEnvInt("MAX_SESSIONS", 10000),
		Neo4jURI:           getEnv("NEO4J_URI", ""),
		Neo4jUser:          getEnv("NEO4J_USER", "neo4j"),
		Neo4jPassword:      getEnv("NEO4J_PASSWORD", ""),
		LocalRuntimeURL:    getEnv("LOCAL_RUNTIME_URL", "http://127.0.0.1:11434"),
		LocalModelPath:     getEnv("LOCAL_MODEL_PATH", "llama-2-7b-chat.ggmlv3.q2_K.bin"),
		LocalOutputFile:    getEnv("LOCAL_OUTPUT_FILE", "response.txt"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that required configuration values are set
func (c *Config) Validate() error {
	if c.Port == "" {
		return apperrors.NewConfigMissingRequired("PORT")
	}
	if c.LiteLLMURL == "" {
		return apperrors.NewConfigMissingRequired("LITELLM_URL")
	}
	if c.DefaultModel == "" {
		return apperrors.NewConfigMissingRequired("DEFAULT_MODEL")
	}
	if c.Temperature < 0 || c.Temperature > 5 {
		return apperrors.NewConfigValidationFailed("GEN_TEMPERATURE", "must be within [0, 5]")
	}
	if c.TopP <= 0 || c.TopP > 1 {
		return apperrors.NewConfigValidationFailed("GEN_TOP_P", "must be within (0, 1]")
	}
	if c.MaxLength < 1 {
		return apperrors.NewConfigValidationFailed("GEN_MAX_LENGTH", "must be positive")
	}
	if c.RepetitionPenalty <= 0 {
		return apperrors.NewConfigValidationFailed("GEN_REPETITION_PENALTY", "must be positive")
	}
	if c.SessionIdleTimeout <= 0 {
		return apperrors.NewConfigValidationFailed("SESSION_IDLE_MINUTES", "must be positive")
	}
	if c.MaxSessions < 1 {
		return apperrors.NewConfigValidationFailed("MAX_SESSIONS", "must be positive")
	}
	// Neo4j is optional, but a URI without a password never connects
	if c.Neo4jURI != "" && c.Neo4jPassword == "" {
		return apperrors.NewConfigMissingRequired("NEO4J_PASSWORD")
	}
	return nil
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// GraphExportEnabled reports whether a Neo4j target is configured
func (c *Config) GraphExportEnabled() bool {
	return c.Neo4jURI != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		var result float64
		if _, err := fmt.Sscanf(value, "%f", &result); err == nil {
			return result
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var result int
		if _, err := fmt.Sscanf(value, "%d", &result); err == nil {
			return result
		}
	}
	return defaultValue
}
