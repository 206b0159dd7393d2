package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"digitpad/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig
	Predictor PredictorConfig
	Canvas    CanvasConfig
	Session   SessionConfig
	LogLevel  string
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	GinMode string
}

// PredictorConfig holds settings for the external model server
type PredictorConfig struct {
	URL     string
	Timeout time.Duration
	// BatchSize bounds concurrent requests issued by the CLI.
	BatchSize int64
}

// CanvasConfig holds the sketch surface dimensions
type CanvasConfig struct {
	Width  int
	Height int
	// ModelInputSize is the square edge the drawing is downsampled to
	// before upload. 0 sends the canvas at full size.
	ModelInputSize uint
	// rawModelInputSize keeps the signed env value for validation.
	rawModelInputSize int
}

// Limits enforced by validateConfig.
const (
	MaxModelInputSize = 4096
	MinSessionTTL     = time.Second
)

// SessionConfig holds sketch session lifecycle settings
type SessionConfig struct {
	TTL time.Duration
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Server:    *loadServerConfig(),
		Predictor: *loadPredictorConfig(),
		Canvas:    *loadCanvasConfig(),
		Session:   *loadSessionConfig(),
		LogLevel:  getEnvOrDefault("LOG_LEVEL", "INFO"),
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadServerConfig() *ServerConfig {
	return &ServerConfig{
		Port:    getEnvOrDefault("PORT", "8080"),
		GinMode: getEnvOrDefault("GIN_MODE", "debug"),
	}
}

func loadPredictorConfig() *PredictorConfig {
	return &PredictorConfig{
		URL:       getEnvOrDefault("PREDICT_URL", "http://localhost:8000/api/predict"),
		Timeout:   getEnvDurationOrDefault("PREDICT_TIMEOUT", 10*time.Second),
		BatchSize: int64(getEnvIntOrDefault("PREDICT_BATCH_SIZE", 4)),
	}
}

func loadCanvasConfig() *CanvasConfig {
	inputSize := getEnvIntOrDefault("MODEL_INPUT_SIZE", 0)
	canvas := &CanvasConfig{
		Width:             getEnvIntOrDefault("CANVAS_WIDTH", 280),
		Height:            getEnvIntOrDefault("CANVAS_HEIGHT", 280),
		rawModelInputSize: inputSize,
	}
	if inputSize > 0 {
		canvas.ModelInputSize = uint(inputSize)
	}
	return canvas
}

func loadSessionConfig() *SessionConfig {
	return &SessionConfig{
		TTL: getEnvDurationOrDefault("SESSION_TTL", 30*time.Minute),
	}
}

func validateConfig(config *Config) error {
	if config.Server.Port == "" {
		return errors.ConfigInvalid("PORT is required")
	}
	u, err := url.Parse(config.Predictor.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return errors.ConfigInvalid("PREDICT_URL must be an absolute URL")
	}
	if config.Predictor.Timeout <= 0 {
		return errors.ConfigInvalid("PREDICT_TIMEOUT must be positive")
	}
	if config.Predictor.BatchSize <= 0 {
		return errors.ConfigInvalid("PREDICT_BATCH_SIZE must be positive")
	}
	if config.Canvas.Width <= 0 || config.Canvas.Height <= 0 {
		return errors.ConfigInvalid("CANVAS_WIDTH and CANVAS_HEIGHT must be positive")
	}
	if config.Canvas.rawModelInputSize < 0 || config.Canvas.rawModelInputSize > MaxModelInputSize {
		return errors.ConfigInvalid(fmt.Sprintf("MODEL_INPUT_SIZE must be between 0 and %d", MaxModelInputSize))
	}
	if config.Session.TTL < MinSessionTTL {
		return errors.ConfigInvalid(fmt.Sprintf("SESSION_TTL must be at least %s", MinSessionTTL))
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
