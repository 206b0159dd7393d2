package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"digitpad/internal/errors"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "GIN_MODE", "PREDICT_URL", "PREDICT_TIMEOUT", "PREDICT_BATCH_SIZE",
		"CANVAS_WIDTH", "CANVAS_HEIGHT", "MODEL_INPUT_SIZE", "SESSION_TTL", "LOG_LEVEL"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "http://localhost:8000/api/predict", cfg.Predictor.URL)
	assert.Equal(t, 10*time.Second, cfg.Predictor.Timeout)
	assert.Equal(t, int64(4), cfg.Predictor.BatchSize)
	assert.Equal(t, 280, cfg.Canvas.Width)
	assert.Equal(t, 280, cfg.Canvas.Height)
	assert.Equal(t, uint(0), cfg.Canvas.ModelInputSize)
	assert.Equal(t, 30*time.Minute, cfg.Session.TTL)
	assert.Equal(t, "INFO", cfg.LogLevel)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("PREDICT_URL", "http://model:8000/api/predict")
	t.Setenv("PREDICT_TIMEOUT", "3s")
	t.Setenv("MODEL_INPUT_SIZE", "28")
	t.Setenv("CANVAS_WIDTH", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "http://model:8000/api/predict", cfg.Predictor.URL)
	assert.Equal(t, 3*time.Second, cfg.Predictor.Timeout)
	assert.Equal(t, uint(28), cfg.Canvas.ModelInputSize)
	assert.Equal(t, 280, cfg.Canvas.Width, "unparseable values fall back to the default")
}

func TestLoadRejectsRelativePredictURL(t *testing.T) {
	t.Setenv("PREDICT_URL", "/api/predict")

	_, err := Load()
	require.Error(t, err)
	assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))
}

func TestLoadRejectsModelInputSizeOutOfRange(t *testing.T) {
	for _, value := range []string{"-1", "-28", "5000"} {
		t.Run(value, func(t *testing.T) {
			t.Setenv("MODEL_INPUT_SIZE", value)

			cfg, err := Load()
			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))
			assert.Contains(t, err.Error(), "MODEL_INPUT_SIZE")
		})
	}
}

func TestLoadRejectsTinySessionTTL(t *testing.T) {
	for _, value := range []string{"1ns", "500ms", "-1m"} {
		t.Run(value, func(t *testing.T) {
			t.Setenv("SESSION_TTL", value)

			_, err := Load()
			require.Error(t, err)
			assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))
			assert.Contains(t, err.Error(), "SESSION_TTL")
		})
	}

	t.Setenv("SESSION_TTL", "2s")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, cfg.Session.TTL)
}
