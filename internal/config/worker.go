package config

import (
	"fmt"

	"github.com/caarlos0/env/v6"
)

// WorkerConfig holds the tagging worker settings, read from the environment.
type WorkerConfig struct {
	Addr             string `env:"TAGGER_ADDR" envDefault:":8081"`
	Kind             string `env:"TAGGER_KIND" envDefault:"frequency"` // frequency, candidate
	MaxTags          int    `env:"TAGGER_MAX_TAGS" envDefault:"5"`
	StopWordsPath    string `env:"TAGGER_STOPWORDS"`
	PopularWordsPath string `env:"TAGGER_POPULAR_WORDS"`
	MaxTexts         int    `env:"TAGGER_MAX_TEXTS" envDefault:"10"`
	MaxTextLength    int    `env:"TAGGER_MAX_TEXT_LENGTH" envDefault:"1000"`
	Env              string `env:"ENV" envDefault:"local"`
	LogLevel         string `env:"LOG_LEVEL"`
	ShutdownSec      int    `env:"TAGGER_SHUTDOWN_TIMEOUT_SEC" envDefault:"10"`
}

// LoadWorker parses the worker configuration from the environment.
func LoadWorker() (WorkerConfig, error) {
	var cfg WorkerConfig
	if err := env.Parse(&cfg); err != nil {
		return WorkerConfig{}, fmt.Errorf("failed to parse worker env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return WorkerConfig{}, fmt.Errorf("invalid worker config: %w", err)
	}
	return cfg, nil
}

// Validate checks the worker configuration for correctness.
func (c *WorkerConfig) Validate() error {
	switch c.Kind {
	case "frequency", "candidate":
	default:
		return fmt.Errorf("TAGGER_KIND must be frequency or candidate, got %q", c.Kind)
	}
	if c.MaxTags <= 0 {
		return fmt.Errorf("TAGGER_MAX_TAGS must be positive, got %d", c.MaxTags)
	}
	if c.Addr == "" {
		return fmt.Errorf("TAGGER_ADDR is required")
	}
	return nil
}
