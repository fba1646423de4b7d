package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.False(t, cfg.Gemini.Enabled())
	assert.Equal(t, "gemini-1.5-flash", cfg.Gemini.Model)
	assert.Equal(t, []string{"eng"}, cfg.OCR.Languages)
	assert.Equal(t, 300, cfg.OCR.DPI)
	assert.Equal(t, 60*time.Second, cfg.Pipeline.AITimeout)
	assert.Equal(t, 0, cfg.Pipeline.MaxWorkers)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("GEMINI_MODEL", "gemini-1.5-pro")
	t.Setenv("OCR_LANGUAGES", "eng,hin")
	t.Setenv("OCR_DPI", "400")
	t.Setenv("AI_TIMEOUT", "30s")
	t.Setenv("OCR_MAX_WORKERS", "4")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.Gemini.Enabled())
	assert.Equal(t, "gemini-1.5-pro", cfg.Gemini.Model)
	assert.Equal(t, []string{"eng", "hin"}, cfg.OCR.Languages)
	assert.Equal(t, 400, cfg.OCR.DPI)
	assert.Equal(t, 30*time.Second, cfg.Pipeline.AITimeout)
	assert.Equal(t, 4, cfg.Pipeline.MaxWorkers)
}

func TestLoad_BadValuesFallBack(t *testing.T) {
	t.Setenv("OCR_DPI", "very high")
	t.Setenv("AI_TIMEOUT", "later")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 300, cfg.OCR.DPI)
	assert.Equal(t, 60*time.Second, cfg.Pipeline.AITimeout)
}
