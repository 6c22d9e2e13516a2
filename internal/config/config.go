package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds everything the API process reads from the environment.
type Config struct {
	Addr        string
	DatabaseURL string
	JWTSecret   string

	// Payment gateway settings. GatewayKeyID/GatewaySecret authenticate
	// outbound order creation; GatewaySecret also signs payment
	// confirmations. WebhookSecret signs raw webhook bodies.
	GatewayBaseURL string
	GatewayKeyID   string
	GatewaySecret  string
	WebhookSecret  string
	GatewayTimeout time.Duration

	Currency string
	TaxRate  float64
}

func Load() Config {
	cfg := Config{
		Addr:           getEnv("FOOD_ORDER_ADDR", ":8080"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		GatewayBaseURL: getEnv("PAYMENT_GATEWAY_URL", "https://api.razorpay.com"),
		GatewayKeyID:   os.Getenv("PAYMENT_GATEWAY_KEY_ID"),
		GatewaySecret:  os.Getenv("PAYMENT_GATEWAY_SECRET"),
		WebhookSecret:  os.Getenv("PAYMENT_WEBHOOK_SECRET"),
		GatewayTimeout: 5 * time.Second,
		Currency:       getEnv("PAYMENT_CURRENCY", "INR"),
		TaxRate:        5.0,
	}

	if v := os.Getenv("PAYMENT_GATEWAY_TIMEOUT_SECONDS"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			cfg.GatewayTimeout = time.Duration(secs) * time.Second
		}
	}
	if v := os.Getenv("ORDER_TAX_RATE"); v != "" {
		if rate, err := strconv.ParseFloat(v, 64); err == nil && rate >= 0 {
			cfg.TaxRate = rate
		}
	}
	// webhook secret defaults to the gateway secret when not set separately
	if cfg.WebhookSecret == "" {
		cfg.WebhookSecret = cfg.GatewaySecret
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
