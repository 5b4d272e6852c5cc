package config

import (
	"fmt"

	"github.com/Herodot91/gov-simulator/internal/logger"
	"github.com/Herodot91/gov-simulator/internal/models"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// MaxInteractiveBudget bounds the budget selector in the interactive UI.
const MaxInteractiveBudget = 150

// Config holds the application configuration.
type Config struct {
	Mode           string `env:"CIVICSIM_MODE" envDefault:"Democracy"`
	StartingBudget int    `env:"CIVICSIM_BUDGET" envDefault:"100"`
	ExportDir      string `env:"CIVICSIM_EXPORT_DIR" envDefault:".exports"`
	CatalogPath    string `env:"CIVICSIM_CATALOG"`

	// GeminiAPIKey enables the press briefing when set.
	GeminiAPIKey string `env:"GEMINI_API_KEY"`
	GeminiModel  string `env:"GEMINI_MODEL" envDefault:"gemini-2.5-flash"`

	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	LogEncoding string `env:"LOG_ENCODING" envDefault:"console"`
	LogOutput   string `env:"LOG_OUTPUT" envDefault:"stderr"`
}

// LoadConfig loads the configuration from environment variables. Values in
// a .env file in the working directory are used when the variable is unset.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if _, err := models.ParseMode(c.Mode); err != nil {
		return fmt.Errorf("CIVICSIM_MODE: %w", err)
	}
	if c.StartingBudget < 0 {
		return fmt.Errorf("CIVICSIM_BUDGET must not be negative, got %d", c.StartingBudget)
	}
	if c.ExportDir == "" {
		return fmt.Errorf("CIVICSIM_EXPORT_DIR must not be empty")
	}
	return nil
}

// ParsedMode returns the validated default mode.
func (c *Config) ParsedMode() models.Mode {
	m, err := models.ParseMode(c.Mode)
	if err != nil {
		return models.Democracy
	}
	return m
}

func (c *Config) Logger() logger.Config {
	return logger.Config{
		Level:      c.LogLevel,
		Encoding:   c.LogEncoding,
		OutputPath: c.LogOutput,
	}
}
