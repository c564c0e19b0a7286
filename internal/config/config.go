package config

import (
	"fmt"
	"net/url"
	"time"

	pkgconfig "github.com/shopmesh/storefront/pkg/config"
)

// Config holds all configuration for the storefront service.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort int `env:"STOREFRONT_HTTP_PORT" envDefault:"8080"`

	// Downstream services
	CatalogServiceURL string `env:"CATALOG_SERVICE_URL" envDefault:"http://localhost:8001"`
	CartServiceURL    string `env:"CART_SERVICE_URL" envDefault:"http://localhost:8003"`
	OrderServiceURL   string `env:"ORDER_SERVICE_URL" envDefault:"http://localhost:8004"`

	// Redis
	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	// Catalog page cache
	CatalogCacheTTL time.Duration `env:"CATALOG_CACHE_TTL" envDefault:"2m"`

	// Kafka
	KafkaBrokers []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`

	// Circuit breaker
	CBMaxRequests uint32        `env:"CB_MAX_REQUESTS" envDefault:"3"`
	CBInterval    time.Duration `env:"CB_INTERVAL" envDefault:"60s"`
	CBTimeout     time.Duration `env:"CB_TIMEOUT" envDefault:"30s"`

	// Session stores
	SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"30m"`

	// Catalog paging
	PageSize int `env:"CATALOG_PAGE_SIZE" envDefault:"6"`

	// CORS
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load storefront config: %w", err)
	}
	if cfg.HTTPPort < 1 || cfg.HTTPPort > 65535 {
		return nil, fmt.Errorf("invalid HTTP port: %d", cfg.HTTPPort)
	}
	for name, raw := range map[string]string{
		"CATALOG_SERVICE_URL": cfg.CatalogServiceURL,
		"CART_SERVICE_URL":    cfg.CartServiceURL,
		"ORDER_SERVICE_URL":   cfg.OrderServiceURL,
	} {
		if _, err := url.ParseRequestURI(raw); err != nil {
			return nil, fmt.Errorf("invalid %s: %w", name, err)
		}
	}
	if cfg.RedisAddr == "" {
		return nil, fmt.Errorf("REDIS_ADDR is required")
	}
	if len(cfg.KafkaBrokers) == 0 {
		return nil, fmt.Errorf("KAFKA_BROKERS is required")
	}
	if cfg.PageSize < 1 {
		return nil, fmt.Errorf("CATALOG_PAGE_SIZE must be positive, got %d", cfg.PageSize)
	}
	return cfg, nil
}
