// Package config loads process configuration once at startup. Nothing in the
// pipeline reads the environment directly; the capability credential and
// model name are injected from here.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// DefaultModel is the Gemini model used when SUBSCOPE_MODEL is not set.
const DefaultModel = "gemini-2.5-flash"

// Config holds all process-wide settings.
type Config struct {
	// GeminiAPIKey is the inference capability credential.
	GeminiAPIKey string

	// Model is the Gemini model name used for every request.
	Model string

	// Port is the HTTP listen port for the presentation shell.
	Port string
}

// Load reads configuration from the environment, after loading a .env file
// if one exists. It fails when the capability credential is missing.
func Load() (*Config, error) {
	// .env is optional; real environments set variables directly.
	_ = godotenv.Load()

	cfg := &Config{
		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
		Model:        os.Getenv("SUBSCOPE_MODEL"),
		Port:         os.Getenv("PORT"),
	}
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("config: GEMINI_API_KEY is not set")
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	return cfg, nil
}
