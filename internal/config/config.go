package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config carries every externally tunable setting. It is built once in main
// and handed to constructors; nothing else reads the environment.
type Config struct {
	// HTTP server
	Port       string
	AdminToken string

	// Database
	DatabaseURL string

	// Redis (optional - empty addr disables the filter-options cache)
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// OpenAI
	OpenAIAPIKey        string
	LLMModel            string
	EmbeddingModel      string
	EmbeddingDimensions int

	// Airtable source
	AirtableAPIKey  string
	AirtableBaseID  string
	AirtableTable   string
	AirtableBaseURL string

	// Ingestion pacing
	TransferBatchSize int
	TransferDelay     time.Duration
	EnrichDelay       time.Duration

	// Logging
	LogLevel string
}

// Load reads configuration from the environment, consulting a .env file
// first when one is present.
func Load() (*Config, error) {
	// .env is a development convenience; absence is not an error
	_ = godotenv.Load()

	cfg := &Config{
		// Defaults
		Port:                "8080",
		LLMModel:            "gpt-4o-mini",
		EmbeddingModel:      "text-embedding-3-small",
		EmbeddingDimensions: 1536,
		AirtableBaseURL:     "https://api.airtable.com/v0",
		TransferBatchSize:   25,
		TransferDelay:       500 * time.Millisecond,
		EnrichDelay:         time.Second,
		LogLevel:            "info",
	}

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	cfg.OpenAIAPIKey = os.Getenv("OPENAI_API_KEY")
	cfg.AdminToken = os.Getenv("ADMIN_TOKEN")

	cfg.AirtableAPIKey = os.Getenv("AIRTABLE_API_KEY")
	cfg.AirtableBaseID = os.Getenv("AIRTABLE_BASE_ID")
	cfg.AirtableTable = os.Getenv("AIRTABLE_TABLE_NAME")
	if baseURL := os.Getenv("AIRTABLE_BASE_URL"); baseURL != "" {
		cfg.AirtableBaseURL = baseURL
	}

	if port := os.Getenv("PORT"); port != "" {
		cfg.Port = port
	}
	if model := os.Getenv("LLM_MODEL"); model != "" {
		cfg.LLMModel = model
	}
	if model := os.Getenv("EMBEDDING_MODEL"); model != "" {
		cfg.EmbeddingModel = model
	}

	cfg.RedisAddr = os.Getenv("REDIS_ADDR")
	cfg.RedisPassword = os.Getenv("REDIS_PASSWORD")
	if redisDB := os.Getenv("REDIS_DB"); redisDB != "" {
		db, err := strconv.Atoi(redisDB)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
		}
		cfg.RedisDB = db
	}

	if batchSize := os.Getenv("TRANSFER_BATCH_SIZE"); batchSize != "" {
		n, err := strconv.Atoi(batchSize)
		if err != nil {
			return nil, fmt.Errorf("invalid TRANSFER_BATCH_SIZE: %w", err)
		}
		cfg.TransferBatchSize = n
	}
	if delay := os.Getenv("TRANSFER_DELAY"); delay != "" {
		d, err := time.ParseDuration(delay)
		if err != nil {
			return nil, fmt.Errorf("invalid TRANSFER_DELAY: %w", err)
		}
		cfg.TransferDelay = d
	}
	if delay := os.Getenv("ENRICH_DELAY"); delay != "" {
		d, err := time.ParseDuration(delay)
		if err != nil {
			return nil, fmt.Errorf("invalid ENRICH_DELAY: %w", err)
		}
		cfg.EnrichDelay = d
	}

	if logLevel := os.Getenv("LOG_LEVEL"); logLevel != "" {
		cfg.LogLevel = logLevel
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("database URL is empty")
	}

	if c.TransferBatchSize < 1 || c.TransferBatchSize > 100 {
		return fmt.Errorf("transfer batch size must be between 1 and 100")
	}

	if c.EmbeddingDimensions < 1 {
		return fmt.Errorf("embedding dimensions must be positive")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s", c.LogLevel)
	}

	return nil
}
