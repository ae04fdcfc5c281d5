package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the application configuration loaded from files and environment variables.
type Config struct {
	AppName  string `mapstructure:"app_name"`
	Env      string `mapstructure:"app_env"`
	LogLevel string `mapstructure:"log_level"`

	GNewsAPIKey    string `mapstructure:"gnews_api_key"`
	GNewsBaseURL   string `mapstructure:"gnews_base_url"`
	StrategiesFile string `mapstructure:"strategies_file"`
	PublishersFile string `mapstructure:"publishers_file"`

	FeedLimit              int           `mapstructure:"feed_limit"`
	FeedFloor              int           `mapstructure:"feed_floor"`
	StrategyTimeoutSeconds int64         `mapstructure:"strategy_timeout"`
	HTTPTimeoutSeconds     int64         `mapstructure:"http_timeout"`
	RefreshIntervalSeconds int64         `mapstructure:"refresh_interval"`
	ScrapeImages           bool          `mapstructure:"scrape_images"`
	StrategyTimeout        time.Duration `mapstructure:"-"`
	HTTPTimeout            time.Duration `mapstructure:"-"`
	RefreshInterval        time.Duration `mapstructure:"-"`

	StorageType            string        `mapstructure:"storage_type"`
	BBoltPath              string        `mapstructure:"bbolt_path"`
	StorageTTLSeconds      int64         `mapstructure:"storage_ttl_seconds"`
	StorageCleanupSeconds  int64         `mapstructure:"storage_cleanup_interval_seconds"`
	StorageTTL             time.Duration `mapstructure:"-"`
	StorageCleanupInterval time.Duration `mapstructure:"-"`
}

// HasAPIKey reports whether a GNews key was configured.
func (c *Config) HasAPIKey() bool {
	return c != nil && strings.TrimSpace(c.GNewsAPIKey) != ""
}

// Redacted returns a copy safe to log.
func (c Config) Redacted() Config {
	if c.GNewsAPIKey != "" {
		c.GNewsAPIKey = "***"
	}
	return c
}

// Load reads configuration from environment variables and config files.
func Load() (*Config, error) {
	_ = godotenv.Load("configs/.env")

	v := viper.New()

	v.SetDefault("app_name", "football-insight")
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("gnews_api_key", "")
	v.SetDefault("gnews_base_url", "https://gnews.io/api/v4")
	v.SetDefault("strategies_file", "")
	v.SetDefault("publishers_file", "./configs/publishers.yaml")
	v.SetDefault("feed_limit", 15)
	v.SetDefault("feed_floor", 50)
	v.SetDefault("strategy_timeout", 10) // seconds
	v.SetDefault("http_timeout", 15)     // seconds
	v.SetDefault("refresh_interval", 900)
	v.SetDefault("scrape_images", true)
	v.SetDefault("storage_type", "none")
	v.SetDefault("bbolt_path", "./data/delivered.db")
	v.SetDefault("storage_ttl_seconds", int64((5*24*time.Hour)/time.Second))
	v.SetDefault("storage_cleanup_interval_seconds", int64((12*time.Hour)/time.Second))

	v.AutomaticEnv()
	// The mobile build exposed the key as EXPO_GNEWS_API_KEY; accept both.
	if err := v.BindEnv("gnews_api_key", "GNEWS_API_KEY", "EXPO_GNEWS_API_KEY"); err != nil {
		return nil, fmt.Errorf("bind gnews_api_key: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.GNewsAPIKey = strings.TrimSpace(cfg.GNewsAPIKey)

	if err := finalize(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func finalize(cfg *Config) error {
	if cfg.FeedLimit <= 0 {
		return fmt.Errorf("invalid feed_limit (must be positive)")
	}
	if cfg.FeedFloor < 0 {
		return fmt.Errorf("invalid feed_floor (must not be negative)")
	}
	if cfg.StrategyTimeoutSeconds <= 0 {
		return fmt.Errorf("invalid strategy_timeout (must be positive seconds)")
	}
	if cfg.HTTPTimeoutSeconds <= 0 {
		return fmt.Errorf("invalid http_timeout (must be positive seconds)")
	}
	if cfg.RefreshIntervalSeconds <= 0 {
		return fmt.Errorf("invalid refresh_interval (must be positive seconds)")
	}
	cfg.StrategyTimeout = time.Duration(cfg.StrategyTimeoutSeconds) * time.Second
	cfg.HTTPTimeout = time.Duration(cfg.HTTPTimeoutSeconds) * time.Second
	cfg.RefreshInterval = time.Duration(cfg.RefreshIntervalSeconds) * time.Second

	if cfg.StorageTTLSeconds <= 0 {
		return fmt.Errorf("invalid storage_ttl_seconds (must be positive seconds)")
	}
	if cfg.StorageCleanupSeconds <= 0 {
		return fmt.Errorf("invalid storage_cleanup_interval_seconds (must be positive seconds)")
	}
	cfg.StorageTTL = time.Duration(cfg.StorageTTLSeconds) * time.Second
	cfg.StorageCleanupInterval = time.Duration(cfg.StorageCleanupSeconds) * time.Second

	return nil
}
