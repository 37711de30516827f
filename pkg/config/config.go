package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds the storefront service configuration, loaded from environment
type Config struct {
	Environment string `envconfig:"ENVIRONMENT" default:"development"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`
	HTTPPort    string `envconfig:"HTTP_PORT" default:"8080"`

	DBHost     string `envconfig:"DB_HOST" default:"localhost"`
	DBPort     string `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER" default:"postgres"`
	DBPassword string `envconfig:"DB_PASSWORD" default:"postgres"`
	DBName     string `envconfig:"DB_NAME" default:"storedb"`
	DBSSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`

	RedisAddr     string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	RedisPassword string `envconfig:"REDIS_PASSWORD" default:""`

	KafkaBrokers []string `envconfig:"KAFKA_BROKERS" default:"localhost:9092"`

	PaymentAPIURL      string        `envconfig:"PAYMENT_API_URL" default:"https://secure.telr.com/gateway/order.json"`
	PaymentStoreID     string        `envconfig:"PAYMENT_STORE_ID"`
	PaymentAuthKey     string        `envconfig:"PAYMENT_AUTH_KEY"`
	PaymentCurrency    string        `envconfig:"PAYMENT_CURRENCY" default:"USD"`
	PaymentSuccessURL  string        `envconfig:"PAYMENT_SUCCESS_URL" default:"http://localhost:8080/api/checkout/success"`
	PaymentCancelURL   string        `envconfig:"PAYMENT_CANCEL_URL" default:"http://localhost:8080/api/checkout"`
	PendingCheckoutTTL time.Duration `envconfig:"PENDING_CHECKOUT_TTL" default:"30m"`
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// IsDevelopment reports whether the service runs in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}
