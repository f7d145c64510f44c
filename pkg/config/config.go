package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
		APIKey          string        `yaml:"api_key"`
	} `yaml:"server"`
	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		Output string `yaml:"output"`
	} `yaml:"logging"`
	Trading212 struct {
		APIKey     string        `yaml:"api_key"`
		BaseURL    string        `yaml:"base_url"`
		Conversion float64       `yaml:"conversion"`
		QuotaLimit int           `yaml:"quota_limit"`
		QuotaWindow time.Duration `yaml:"quota_window"`
	} `yaml:"trading212"`
	News struct {
		APIKey      string        `yaml:"api_key"`
		BaseURL     string        `yaml:"base_url"`
		QuotaLimit  int           `yaml:"quota_limit"`
		QuotaWindow time.Duration `yaml:"quota_window"`
		ArticleLimit int          `yaml:"article_limit"`
	} `yaml:"news"`
	Sentiment struct {
		CacheTTL time.Duration `yaml:"cache_ttl"`
	} `yaml:"sentiment"`
	Cache struct {
		Backend string `yaml:"backend"` // memory or redis
		Redis   struct {
			Addr     string `yaml:"addr"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
			Prefix   string `yaml:"prefix"`
		} `yaml:"redis"`
	} `yaml:"cache"`
	Pipeline struct {
		Workers int `yaml:"workers"`
	} `yaml:"pipeline"`
	Postgres struct {
		DSN string `yaml:"dsn"`
	} `yaml:"postgres"`
	ClickHouse struct {
		Enabled      bool          `yaml:"enabled"`
		Host         string        `yaml:"host"`
		Port         int           `yaml:"port"`
		Database     string        `yaml:"database"`
		User         string        `yaml:"user"`
		Password     string        `yaml:"password"`
		DialTimeout  time.Duration `yaml:"dial_timeout"`
		ReadTimeout  time.Duration `yaml:"read_timeout"`
		WriteTimeout time.Duration `yaml:"write_timeout"`
	} `yaml:"clickhouse"`
	Kafka struct {
		Enabled      bool     `yaml:"enabled"`
		Brokers      []string `yaml:"brokers"`
		Topic        string   `yaml:"topic"`
		RequiredAcks int      `yaml:"required_acks"`
		Compression  string   `yaml:"compression"`
		WriteTimeout time.Duration `yaml:"write_timeout"`
	} `yaml:"kafka"`
	Advisor struct {
		APIKey string `yaml:"api_key"`
		Model  string `yaml:"model"`
	} `yaml:"advisor"`
	Sync struct {
		Schedule string `yaml:"schedule"` // cron spec for the sync worker
		UserID   string `yaml:"user_id"`
	} `yaml:"sync"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	c.applyDefaults()
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides secrets from env vars.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("TRADING212_API_KEY"); v != "" {
		c.Trading212.APIKey = v
	}
	if v := os.Getenv("TRADING212_API_URL"); v != "" {
		c.Trading212.BaseURL = v
	}
	if v := os.Getenv("NEWS_API_KEY"); v != "" {
		c.News.APIKey = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		c.Advisor.APIKey = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.Postgres.DSN = v
	}
	if v := os.Getenv("DASHBOARD_API_KEY"); v != "" {
		c.Server.APIKey = v
	}
	return c, nil
}

func (c *Config) applyDefaults() {
	if c.Trading212.BaseURL == "" {
		c.Trading212.BaseURL = "https://live.trading212.com/api/v0"
	}
	if c.Trading212.Conversion <= 0 {
		c.Trading212.Conversion = 1
	}
	if c.Trading212.QuotaLimit == 0 {
		c.Trading212.QuotaLimit = 60
	}
	if c.Trading212.QuotaWindow == 0 {
		c.Trading212.QuotaWindow = time.Minute
	}
	if c.News.BaseURL == "" {
		c.News.BaseURL = "https://newsapi.org"
	}
	if c.News.QuotaLimit == 0 {
		c.News.QuotaLimit = 100
	}
	if c.News.QuotaWindow == 0 {
		c.News.QuotaWindow = 24 * time.Hour
	}
	if c.News.ArticleLimit == 0 {
		c.News.ArticleLimit = 5
	}
	if c.Sentiment.CacheTTL == 0 {
		c.Sentiment.CacheTTL = 24 * time.Hour
	}
	if c.Cache.Backend == "" {
		c.Cache.Backend = "memory"
	}
	if c.Pipeline.Workers == 0 {
		c.Pipeline.Workers = 4
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "console"
	}
	if c.Logging.Output == "" {
		c.Logging.Output = "stdout"
	}
	if c.Kafka.Topic == "" {
		c.Kafka.Topic = "portfolio.sync.completed"
	}
	if c.Advisor.Model == "" {
		c.Advisor.Model = "gemini-2.0-flash"
	}
	if c.Sync.UserID == "" {
		c.Sync.UserID = "default"
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Server.Port == 0 {
		return fmt.Errorf("server.port is required")
	}
	if c.Cache.Backend != "memory" && c.Cache.Backend != "redis" {
		return fmt.Errorf("cache.backend must be 'memory' or 'redis', got '%s'", c.Cache.Backend)
	}
	if c.Cache.Backend == "redis" && c.Cache.Redis.Addr == "" {
		return fmt.Errorf("cache.redis.addr is required when cache.backend is redis")
	}
	if c.Postgres.DSN == "" {
		return fmt.Errorf("postgres.dsn is required")
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers cannot be empty when kafka is enabled")
	}
	if c.ClickHouse.Enabled && c.ClickHouse.Host == "" {
		return fmt.Errorf("clickhouse.host is required when clickhouse is enabled")
	}
	return nil
}
