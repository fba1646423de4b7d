package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	// Load environment variables from .env files when present.
	_ "github.com/joho/godotenv/autoload"
)

// Config holds all pipeline configuration
type Config struct {
	Gemini   GeminiConfig
	OCR      OCRConfig
	Pipeline PipelineConfig
}

// GeminiConfig configures the optional AI document extractor. An empty APIKey
// disables the AI fallback entirely; the rest of the pipeline is unaffected.
type GeminiConfig struct {
	APIKey string
	Model  string
}

// Enabled reports whether the AI fallback can be constructed.
func (c GeminiConfig) Enabled() bool { return c.APIKey != "" }

// OCRConfig configures page rasterization and text recognition.
type OCRConfig struct {
	Languages []string // tesseract language codes
	DPI       int      // rasterization resolution
}

// PipelineConfig holds cross-cutting pipeline limits.
type PipelineConfig struct {
	AITimeout  time.Duration // upper bound on the AI extractor call
	MaxWorkers int           // page-level OCR worker pool size, 0 = NumCPU
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Gemini: GeminiConfig{
			APIKey: getEnv("GEMINI_API_KEY", ""),
			Model:  getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
		},
		OCR: OCRConfig{
			Languages: strings.Split(getEnv("OCR_LANGUAGES", "eng"), ","),
			DPI:       getEnvAsInt("OCR_DPI", 300),
		},
		Pipeline: PipelineConfig{
			AITimeout:  getEnvAsDuration("AI_TIMEOUT", 60*time.Second),
			MaxWorkers: getEnvAsInt("OCR_MAX_WORKERS", 0),
		},
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}
