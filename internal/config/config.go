// Package config loads and validates vapescout configuration via Viper.
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config captures all configuration knobs loaded via Viper.
type Config struct {
	Crawler   CrawlerConfig         `mapstructure:"crawler"`
	Scraper   ScraperConfig         `mapstructure:"scraper"`
	Extractor ExtractorConfig       `mapstructure:"extractor"`
	DB        DBConfig              `mapstructure:"db"`
	Metrics   MetricsConfig         `mapstructure:"metrics"`
	Logging   LoggingConfig         `mapstructure:"logging"`
	Sites     map[string]SiteConfig `mapstructure:"sites"`
}

// SiteConfig describes one target site. The registry is loaded once and
// treated as immutable for the process lifetime.
type SiteConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	ProductPattern string `mapstructure:"product_pattern"`
}

// CrawlerConfig governs the URL discovery crawl.
type CrawlerConfig struct {
	Concurrency    int    `mapstructure:"concurrency"`
	BatchSize      int    `mapstructure:"batch_size"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
	MaxRetries     int    `mapstructure:"max_retries"`
	RetryDelayMs   int    `mapstructure:"retry_delay_ms"`
	UserAgent      string `mapstructure:"user_agent"`
}

// ScraperConfig governs the product page scraping stage.
type ScraperConfig struct {
	OutputDir    string `mapstructure:"output_dir"`
	DelaySeconds int    `mapstructure:"delay_seconds"`
}

// ExtractorConfig governs the LLM attribute extraction stage.
type ExtractorConfig struct {
	BatchSize         int    `mapstructure:"batch_size"`
	BatchPauseSeconds int    `mapstructure:"batch_pause_seconds"`
	Model             string `mapstructure:"model"`
	APIKey            string `mapstructure:"api_key"`
	AzureEndpoint     string `mapstructure:"azure_endpoint"`
	AzureDeployment   string `mapstructure:"azure_deployment"`
}

// DBConfig controls the optional Postgres record store. Disabled when the DSN
// is empty.
type DBConfig struct {
	DSN string `mapstructure:"dsn"`
}

// MetricsConfig controls the optional metrics/health listener. Disabled when
// the address is empty.
type MetricsConfig struct {
	Addr string `mapstructure:"addr"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

// Load builds a Config from disk and environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("VAPESCOUT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// The original deployment keeps the key in OPENAI_API_KEY; accept both.
	if err := v.BindEnv("extractor.api_key", "VAPESCOUT_EXTRACTOR_API_KEY", "OPENAI_API_KEY"); err != nil {
		return Config{}, fmt.Errorf("bind api key env: %w", err)
	}
	if err := v.BindEnv("extractor.azure_endpoint", "VAPESCOUT_EXTRACTOR_AZURE_ENDPOINT", "AZURE_OPENAI_ENDPOINT"); err != nil {
		return Config{}, fmt.Errorf("bind azure endpoint env: %w", err)
	}
	if err := v.BindEnv("extractor.azure_deployment", "VAPESCOUT_EXTRACTOR_AZURE_DEPLOYMENT", "AZURE_OPENAI_DEPLOYMENT"); err != nil {
		return Config{}, fmt.Errorf("bind azure deployment env: %w", err)
	}

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.vapescout")
	}
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || path != "" {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("crawler.concurrency", 20)
	v.SetDefault("crawler.batch_size", 50)
	v.SetDefault("crawler.timeout_seconds", 5)
	v.SetDefault("crawler.max_retries", 3)
	v.SetDefault("crawler.retry_delay_ms", 500)
	v.SetDefault("crawler.user_agent",
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36")
	v.SetDefault("scraper.output_dir", "output")
	v.SetDefault("scraper.delay_seconds", 1)
	v.SetDefault("extractor.batch_size", 4)
	v.SetDefault("extractor.batch_pause_seconds", 1)
	v.SetDefault("extractor.model", "gpt-4-turbo-preview")
	v.SetDefault("logging.development", true)
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if c.Crawler.Concurrency <= 0 {
		return fmt.Errorf("crawler.concurrency must be > 0")
	}
	if c.Crawler.BatchSize <= 0 {
		return fmt.Errorf("crawler.batch_size must be > 0")
	}
	if c.Crawler.TimeoutSeconds <= 0 {
		return fmt.Errorf("crawler.timeout_seconds must be > 0")
	}
	if c.Crawler.MaxRetries <= 0 {
		return fmt.Errorf("crawler.max_retries must be > 0")
	}
	if c.Crawler.UserAgent == "" {
		return fmt.Errorf("crawler.user_agent must be set")
	}
	if c.Scraper.OutputDir == "" {
		return fmt.Errorf("scraper.output_dir must be set")
	}
	if c.Extractor.BatchSize <= 0 {
		return fmt.Errorf("extractor.batch_size must be > 0")
	}
	if len(c.Sites) == 0 {
		return fmt.Errorf("at least one site must be configured")
	}
	for name, site := range c.Sites {
		if site.ProductPattern == "" {
			return fmt.Errorf("sites.%s.product_pattern must be set", name)
		}
		u, err := url.Parse(site.BaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("sites.%s.base_url %q is not an absolute URL", name, site.BaseURL)
		}
	}
	return nil
}

// FetchTimeout converts the configured timeout into a duration.
func (c CrawlerConfig) FetchTimeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// RetryDelay converts the configured retry delay into a duration.
func (c CrawlerConfig) RetryDelay() time.Duration {
	return time.Duration(c.RetryDelayMs) * time.Millisecond
}

// PageDelay converts the configured per-request pause into a duration.
func (c ScraperConfig) PageDelay() time.Duration {
	return time.Duration(c.DelaySeconds) * time.Second
}

// BatchPause converts the configured inter-batch pause into a duration.
func (c ExtractorConfig) BatchPause() time.Duration {
	return time.Duration(c.BatchPauseSeconds) * time.Second
}

// SiteNames returns the configured site names in no particular order.
func (c Config) SiteNames() []string {
	names := make([]string, 0, len(c.Sites))
	for name := range c.Sites {
		names = append(names, name)
	}
	return names
}
