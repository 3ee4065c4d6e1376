package config

import (
	"fmt"
	"time"

	pkgconfig "github.com/kelly-developers/agriecommerce/pkg/config"
)

// Config holds all configuration for the storefront service.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort int `env:"HTTP_PORT" envDefault:"8081"`

	// Upstream marketplace API
	MarketplaceURL string `env:"MARKETPLACE_API_URL" envDefault:"http://localhost:8080/api/v1"`

	// Guest cart storage. When REDIS_ADDR is empty, carts fall back to
	// file storage under STORAGE_DIR.
	RedisAddr  string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPass  string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB    int    `env:"REDIS_DB" envDefault:"0"`
	StorageDir string `env:"STORAGE_DIR" envDefault:"./data"`

	// Guest cart TTL in hours (default: 7 days)
	GuestCartTTL int `env:"GUEST_CART_TTL_HOURS" envDefault:"168"`

	// M-Pesa confirmation polling
	PollInterval   time.Duration `env:"MPESA_POLL_INTERVAL" envDefault:"3s"`
	ConfirmTimeout time.Duration `env:"MPESA_CONFIRM_TIMEOUT" envDefault:"120s"`

	// Flat delivery fee in cents (default: KSh 200)
	DeliveryFee int64 `env:"DELIVERY_FEE_CENTS" envDefault:"20000"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load storefront config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate checks configuration invariants.
func (c *Config) validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	if c.MarketplaceURL == "" {
		return fmt.Errorf("marketplace API URL is required")
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("poll interval must be positive: %s", c.PollInterval)
	}
	if c.ConfirmTimeout <= c.PollInterval {
		return fmt.Errorf("confirm timeout %s must exceed poll interval %s", c.ConfirmTimeout, c.PollInterval)
	}
	if c.DeliveryFee < 0 {
		return fmt.Errorf("delivery fee must not be negative: %d", c.DeliveryFee)
	}
	return nil
}
