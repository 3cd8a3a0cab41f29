// Package config loads service configuration from an optional YAML file with
// TCG_-prefixed environment overrides.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g. TCG_SERVER_PORT.
const EnvPrefix = "TCG"

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Prices   PricesConfig   `mapstructure:"prices"`
	ROI      ROIConfig      `mapstructure:"roi"`
	Scan     ScanConfig     `mapstructure:"scan"`
	Catalog  CatalogConfig  `mapstructure:"catalog"`
}

type ServerConfig struct {
	Port               string        `mapstructure:"port"`
	CORSAllowedOrigins []string      `mapstructure:"cors_allowed_origins"`
	ShutdownTimeout    time.Duration `mapstructure:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Path     string `mapstructure:"path"`
	LogLevel string `mapstructure:"log_level"` // silent, error, warn, info
	Seed     bool   `mapstructure:"seed"`
}

type StorageConfig struct {
	ImageDir      string `mapstructure:"image_dir"`
	MaxUploadSize int64  `mapstructure:"max_upload_size"` // bytes
}

type PricesConfig struct {
	WorkerEnabled bool          `mapstructure:"worker_enabled"`
	Interval      time.Duration `mapstructure:"interval"`
	Variance      float64       `mapstructure:"variance"`
}

// ROIConfig selects the grading-cost assumption. CostOverride, when positive,
// wins over the authority/tier table lookup.
type ROIConfig struct {
	GradingAuthority string  `mapstructure:"grading_authority"`
	GradingTier      string  `mapstructure:"grading_tier"`
	CostOverride     float64 `mapstructure:"grading_cost_override"`
	TopLimit         int     `mapstructure:"top_limit"`
}

type ScanConfig struct {
	RatePerSecond float64 `mapstructure:"rate_per_second"`
	Burst         int     `mapstructure:"burst"`
	MaxClients    int     `mapstructure:"max_clients"`
}

type CatalogConfig struct {
	CacheSize int `mapstructure:"cache_size"`
}

// Load reads configuration from path (skipped when empty) and the environment.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.cors_allowed_origins", []string{"http://localhost:5173", "http://localhost:3000"})
	v.SetDefault("server.shutdown_timeout", "10s")

	v.SetDefault("database.path", "./tcg_portfolio.db")
	v.SetDefault("database.log_level", "warn")
	v.SetDefault("database.seed", true)

	v.SetDefault("storage.image_dir", "./data/images")
	v.SetDefault("storage.max_upload_size", 10<<20)

	v.SetDefault("prices.worker_enabled", true)
	v.SetDefault("prices.interval", "24h")
	v.SetDefault("prices.variance", 0.05)

	v.SetDefault("roi.grading_authority", "PSA")
	v.SetDefault("roi.grading_tier", "economy")
	v.SetDefault("roi.grading_cost_override", 0.0)
	v.SetDefault("roi.top_limit", 20)

	v.SetDefault("scan.rate_per_second", 1.0)
	v.SetDefault("scan.burst", 5)
	v.SetDefault("scan.max_clients", 1024)

	v.SetDefault("catalog.cache_size", 512)
}

// Validate checks that all configuration values are usable.
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server.port is required")
	}
	if len(c.Server.CORSAllowedOrigins) == 0 {
		return fmt.Errorf("server.cors_allowed_origins must list at least one origin")
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("server.shutdown_timeout must be positive")
	}

	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}
	validLogLevels := map[string]bool{"silent": true, "error": true, "warn": true, "info": true}
	if !validLogLevels[c.Database.LogLevel] {
		return fmt.Errorf("database.log_level must be one of: silent, error, warn, info")
	}

	if c.Storage.ImageDir == "" {
		return fmt.Errorf("storage.image_dir is required")
	}
	if c.Storage.MaxUploadSize < 1 {
		return fmt.Errorf("storage.max_upload_size must be at least 1 byte")
	}

	if c.Prices.Interval < time.Minute {
		return fmt.Errorf("prices.interval must be at least 1 minute")
	}
	if c.Prices.Variance < 0 || c.Prices.Variance >= 1 {
		return fmt.Errorf("prices.variance must be in [0, 1)")
	}

	switch strings.ToUpper(c.ROI.GradingAuthority) {
	case "PSA", "BGS":
	default:
		return fmt.Errorf("roi.grading_authority must be one of: PSA, BGS")
	}
	switch strings.ToLower(c.ROI.GradingTier) {
	case "economy", "regular", "express":
	default:
		return fmt.Errorf("roi.grading_tier must be one of: economy, regular, express")
	}
	if c.ROI.CostOverride < 0 {
		return fmt.Errorf("roi.grading_cost_override must not be negative")
	}
	if c.ROI.TopLimit < 1 {
		return fmt.Errorf("roi.top_limit must be at least 1")
	}

	if c.Scan.RatePerSecond <= 0 {
		return fmt.Errorf("scan.rate_per_second must be positive")
	}
	if c.Scan.Burst < 1 {
		return fmt.Errorf("scan.burst must be at least 1")
	}
	if c.Scan.MaxClients < 1 {
		return fmt.Errorf("scan.max_clients must be at least 1")
	}

	if c.Catalog.CacheSize < 1 {
		return fmt.Errorf("catalog.cache_size must be at least 1")
	}
	return nil
}
