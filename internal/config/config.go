// Package config provides unified configuration loading for the Concierge Engine.
// Supports YAML files, environment variables, and programmatic overrides.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the Concierge Engine.
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Knowledge     KnowledgeConfig     `yaml:"knowledge"`
	Vector        VectorConfig        `yaml:"vector"`
	Embedding     EmbeddingConfig     `yaml:"embedding"`
	Generative    GenerativeConfig    `yaml:"generative"`
	Gateway       GatewayConfig       `yaml:"gateway"`
	Cache         CacheConfig         `yaml:"cache"`
	Qualification QualificationConfig `yaml:"qualification"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host             string        `yaml:"host"`
	Port             int           `yaml:"port"`
	ReadTimeout      time.Duration `yaml:"read_timeout"`
	WriteTimeout     time.Duration `yaml:"write_timeout"`
	IdleTimeout      time.Duration `yaml:"idle_timeout"`
	GracefulShutdown time.Duration `yaml:"graceful_shutdown"`
}

// KnowledgeConfig holds knowledge base settings.
type KnowledgeConfig struct {
	Driver   string         `yaml:"driver"` // memory, sqlite or postgres
	SQLite   SQLiteConfig   `yaml:"sqlite"`
	Postgres PostgresConfig `yaml:"postgres"`
	SeedPath string         `yaml:"seed_path"`
}

// SQLiteConfig holds SQLite-specific settings.
type SQLiteConfig struct {
	Path         string `yaml:"path"`
	MaxOpenConns int    `yaml:"max_open_conns"`
	JournalMode  string `yaml:"journal_mode"`
}

// PostgresConfig holds Postgres-specific settings.
type PostgresConfig struct {
	DSN             string        `yaml:"dsn"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
}

// VectorConfig holds vector index settings. An empty URL means the
// similarity-search stage is skipped entirely.
type VectorConfig struct {
	URL        string        `yaml:"url"`
	APIKey     string        `yaml:"api_key"`
	Collection string        `yaml:"collection"`
	TopK       int           `yaml:"top_k"`
	Timeout    time.Duration `yaml:"timeout"`
}

// EmbeddingConfig holds embedding API settings. An empty API key means
// embeddings are unavailable and vector retrieval is skipped.
type EmbeddingConfig struct {
	BaseURL string        `yaml:"base_url"`
	APIKey  string        `yaml:"api_key"`
	Model   string        `yaml:"model"`
	Timeout time.Duration `yaml:"timeout"`
}

// GenerativeConfig holds generative API settings. An empty API key means
// the generative stage is skipped.
type GenerativeConfig struct {
	BaseURL     string        `yaml:"base_url"`
	APIKey      string        `yaml:"api_key"`
	Model       string        `yaml:"model"`
	MaxTokens   int           `yaml:"max_tokens"`
	Temperature float64       `yaml:"temperature"`
	Timeout     time.Duration `yaml:"timeout"`
}

// GatewayConfig holds the remote all-in-one orchestrator settings. An empty
// URL means the local pipeline is always used.
type GatewayConfig struct {
	URL           string        `yaml:"url"`
	ChatTimeout   time.Duration `yaml:"chat_timeout"`
	HealthTimeout time.Duration `yaml:"health_timeout"`
}

// CacheConfig holds cache settings.
type CacheConfig struct {
	Driver     string        `yaml:"driver"` // memory or redis
	TTL        time.Duration `yaml:"ttl"`
	MaxEntries int           `yaml:"max_entries"`
	Redis      RedisConfig   `yaml:"redis"`
}

// RedisConfig holds Redis-specific settings.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
}

// QualificationConfig holds lead-qualification settings. ScoreScale selects
// the reporting scale for the overall score: 10 (canonical, one decimal) or
// 100 (dashboard style). Scoring is always computed on the 0-10 scale.
type QualificationConfig struct {
	ScoreScale int `yaml:"score_scale"`
}

// ObservabilityConfig holds logging settings.
type ObservabilityConfig struct {
	LogLevel    string `yaml:"log_level"`
	LogFormat   string `yaml:"log_format"`
	ServiceName string `yaml:"service_name"`
}

// Load reads configuration from a YAML file and applies environment overrides.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// DefaultConfig returns a configuration with sensible defaults for development.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:             "0.0.0.0",
			Port:             8090,
			ReadTimeout:      30 * time.Second,
			WriteTimeout:     60 * time.Second,
			IdleTimeout:      120 * time.Second,
			GracefulShutdown: 10 * time.Second,
		},
		Knowledge: KnowledgeConfig{
			Driver: "memory",
			SQLite: SQLiteConfig{
				Path:         "/tmp/concierge-engine.db",
				MaxOpenConns: 1,
				JournalMode:  "WAL",
			},
			Postgres: PostgresConfig{
				MaxOpenConns:    25,
				MaxIdleConns:    5,
				ConnMaxLifetime: 5 * time.Minute,
			},
		},
		Vector: VectorConfig{
			Collection: "knowledge",
			TopK:       3,
			Timeout:    10 * time.Second,
		},
		Embedding: EmbeddingConfig{
			BaseURL: "https://api.cohere.ai/v1",
			Model:   "embed-multilingual-v3.0",
			Timeout: 10 * time.Second,
		},
		Generative: GenerativeConfig{
			BaseURL:     "https://api.cohere.ai/v1",
			Model:       "command-r",
			MaxTokens:   300,
			Temperature: 0.7,
			Timeout:     30 * time.Second,
		},
		Gateway: GatewayConfig{
			ChatTimeout:   30 * time.Second,
			HealthTimeout: 5 * time.Second,
		},
		Cache: CacheConfig{
			Driver:     "memory",
			TTL:        5 * time.Minute,
			MaxEntries: 10000,
			Redis: RedisConfig{
				Addr:     "localhost:6379",
				DB:       0,
				PoolSize: 10,
			},
		},
		Qualification: QualificationConfig{
			ScoreScale: 10,
		},
		Observability: ObservabilityConfig{
			LogLevel:    "info",
			LogFormat:   "json",
			ServiceName: "concierge-engine",
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	switch c.Knowledge.Driver {
	case "memory", "sqlite", "postgres":
	default:
		return fmt.Errorf("invalid knowledge driver: %s", c.Knowledge.Driver)
	}

	if c.Cache.Driver != "memory" && c.Cache.Driver != "redis" {
		return fmt.Errorf("invalid cache driver: %s", c.Cache.Driver)
	}

	if c.Vector.TopK < 1 || c.Vector.TopK > 20 {
		return fmt.Errorf("vector top_k must be between 1 and 20")
	}

	if c.Qualification.ScoreScale != 10 && c.Qualification.ScoreScale != 100 {
		return fmt.Errorf("qualification score_scale must be 10 or 100")
	}

	return nil
}

// SQLDriver returns the database/sql driver name for the configured
// knowledge driver.
func (c *Config) SQLDriver() string {
	if c.Knowledge.Driver == "sqlite" {
		return "sqlite3"
	}
	return "postgres"
}

// DatabaseDSN returns the knowledge store connection string.
func (c *Config) DatabaseDSN() string {
	if c.Knowledge.Driver == "sqlite" {
		return c.Knowledge.SQLite.Path
	}
	return c.Knowledge.Postgres.DSN
}

// applyEnvOverrides applies environment variable overrides to config.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("SERVER_PORT"); v != "" {
		var port int
		if _, err := fmt.Sscanf(v, "%d", &port); err == nil {
			cfg.Server.Port = port
		}
	}

	if v := os.Getenv("SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}

	if v := os.Getenv("DATABASE_URL"); v != "" {
		if strings.HasPrefix(v, "sqlite:") {
			cfg.Knowledge.Driver = "sqlite"
			cfg.Knowledge.SQLite.Path = strings.TrimPrefix(v, "sqlite:")
		} else if strings.HasPrefix(v, "postgres") {
			cfg.Knowledge.Driver = "postgres"
			cfg.Knowledge.Postgres.DSN = v
		}
	}

	if v := os.Getenv("REDIS_URL"); v != "" {
		cfg.Cache.Driver = "redis"
		cfg.Cache.Redis.Addr = strings.TrimPrefix(v, "redis://")
	}

	if v := os.Getenv("VECTOR_URL"); v != "" {
		cfg.Vector.URL = v
	}

	if v := os.Getenv("VECTOR_API_KEY"); v != "" {
		cfg.Vector.APIKey = v
	}

	if v := os.Getenv("VECTOR_COLLECTION"); v != "" {
		cfg.Vector.Collection = v
	}

	if v := os.Getenv("EMBEDDING_API_KEY"); v != "" {
		cfg.Embedding.APIKey = v
	}

	if v := os.Getenv("EMBEDDING_BASE_URL"); v != "" {
		cfg.Embedding.BaseURL = v
	}

	if v := os.Getenv("EMBEDDING_MODEL"); v != "" {
		cfg.Embedding.Model = v
	}

	if v := os.Getenv("GENERATIVE_API_KEY"); v != "" {
		cfg.Generative.APIKey = v
	}

	if v := os.Getenv("GENERATIVE_BASE_URL"); v != "" {
		cfg.Generative.BaseURL = v
	}

	if v := os.Getenv("GENERATIVE_MODEL"); v != "" {
		cfg.Generative.Model = v
	}

	if v := os.Getenv("GATEWAY_URL"); v != "" {
		cfg.Gateway.URL = v
	}

	if v := os.Getenv("KNOWLEDGE_SEED_PATH"); v != "" {
		cfg.Knowledge.SeedPath = v
	}

	if v := os.Getenv("SCORE_SCALE"); v != "" {
		var scale int
		if _, err := fmt.Sscanf(v, "%d", &scale); err == nil {
			cfg.Qualification.ScoreScale = scale
		}
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Observability.LogLevel = v
	}

	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Observability.LogFormat = v
	}
}
