package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/samvad-hq/catalog-sdk/pkg/catalog"
	"github.com/samvad-hq/catalog-sdk/pkg/httpclient"
	"github.com/spf13/viper"
)

// Config holds the application configuration loaded from files and environment variables.
type Config struct {
	AppName  string `mapstructure:"app_name"`
	Env      string `mapstructure:"app_env"`
	LogLevel string `mapstructure:"log_level"`

	APIKey  string `mapstructure:"catalog_api_key"`
	BaseURL string `mapstructure:"catalog_base_url"`

	SinksFile string `mapstructure:"sinks_file"`

	JournalPath            string        `mapstructure:"journal_path"`
	JournalTTLSeconds      int64         `mapstructure:"journal_ttl_seconds"`
	JournalCleanupSeconds  int64         `mapstructure:"journal_cleanup_interval_seconds"`
	JournalTTL             time.Duration `mapstructure:"-"`
	JournalCleanupInterval time.Duration `mapstructure:"-"`
}

// Load reads configuration from configs/.env and the environment.
func Load() (*Config, error) {
	return LoadFrom(viper.New())
}

// LoadFrom reads configuration through v, so callers can bind command-line flags first.
func LoadFrom(v *viper.Viper) (*Config, error) {
	_ = godotenv.Load("configs/.env")

	if v == nil {
		v = viper.New()
	}

	v.SetDefault("app_name", "catalogctl")
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("catalog_api_key", "")
	v.SetDefault("catalog_base_url", catalog.DefaultBaseURL)
	v.SetDefault("sinks_file", "")
	v.SetDefault("journal_path", "")
	v.SetDefault("journal_ttl_seconds", int64((7*24*time.Hour)/time.Second))
	v.SetDefault("journal_cleanup_interval_seconds", int64((6*time.Hour)/time.Second))

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.APIKey = strings.TrimSpace(cfg.APIKey)
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if u, err := url.Parse(cfg.BaseURL); err != nil || !u.IsAbs() || u.Host == "" {
		return nil, fmt.Errorf("invalid catalog_base_url %q (must be an absolute URL)", cfg.BaseURL)
	}

	if cfg.JournalTTLSeconds <= 0 {
		return nil, fmt.Errorf("invalid journal_ttl_seconds (must be positive seconds)")
	}
	if cfg.JournalCleanupSeconds <= 0 {
		return nil, fmt.Errorf("invalid journal_cleanup_interval_seconds (must be positive seconds)")
	}
	cfg.JournalTTL = time.Duration(cfg.JournalTTLSeconds) * time.Second
	cfg.JournalCleanupInterval = time.Duration(cfg.JournalCleanupSeconds) * time.Second

	return &cfg, nil
}

// Redacted returns a copy safe to log: the API key is reduced to its edges.
func (c Config) Redacted() Config {
	c.APIKey = httpclient.MaskSecret(c.APIKey)
	return c
}
