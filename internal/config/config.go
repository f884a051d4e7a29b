package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Environment string `envconfig:"ENVIRONMENT" default:"local"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`

	SerperAPIKey   string        `envconfig:"SERPER_API_KEY" required:"true"`
	SerperEndpoint string        `envconfig:"SERPER_ENDPOINT" default:"https://google.serper.dev/search"`
	SearchTimeout  time.Duration `envconfig:"SEARCH_TIMEOUT" default:"15s"`
	SearchRPS      float64       `envconfig:"SEARCH_RPS" default:"4"`
	SearchBurst    int           `envconfig:"SEARCH_BURST" default:"4"`
	SearchWorkers  int           `envconfig:"SEARCH_WORKERS" default:"4"`

	EmbeddingEndpoint  string        `envconfig:"EMBEDDING_ENDPOINT" default:"http://127.0.0.1:8844/embed"`
	EmbeddingModelName string        `envconfig:"EMBEDDING_MODEL_NAME" default:"all-MiniLM-L6-v2"`
	EmbeddingMaxLength int           `envconfig:"EMBEDDING_MAX_LENGTH" default:"512"`
	EmbeddingTimeout   time.Duration `envconfig:"EMBEDDING_TIMEOUT" default:"45s"`

	SnippetEnrichment bool `envconfig:"SNIPPET_ENRICHMENT" default:"false"`

	SpanThreshold float64 `envconfig:"SPAN_THRESHOLD" default:"0.4"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.SerperAPIKey) == "" {
		return fmt.Errorf("SERPER_API_KEY is required")
	}
	if strings.TrimSpace(c.SerperEndpoint) == "" {
		return fmt.Errorf("SERPER_ENDPOINT is required")
	}
	if strings.TrimSpace(c.EmbeddingEndpoint) == "" {
		return fmt.Errorf("EMBEDDING_ENDPOINT is required")
	}
	if c.SearchTimeout <= 0 {
		return fmt.Errorf("SEARCH_TIMEOUT must be positive")
	}
	if c.SearchRPS <= 0 {
		return fmt.Errorf("SEARCH_RPS must be positive")
	}
	if c.SearchBurst < 1 {
		return fmt.Errorf("SEARCH_BURST must be >= 1")
	}
	if c.SearchWorkers < 1 {
		return fmt.Errorf("SEARCH_WORKERS must be >= 1")
	}
	if c.EmbeddingTimeout <= 0 {
		return fmt.Errorf("EMBEDDING_TIMEOUT must be positive")
	}
	if c.SpanThreshold <= 0 || c.SpanThreshold >= 1 {
		return fmt.Errorf("SPAN_THRESHOLD must be in (0, 1)")
	}
	return nil
}
