package config

import (
	"fmt"
	"os"
	"strconv"
)

type Config struct {
	Env  string
	Port string

	RedisURL  string
	RedisPass string
	RedisDB   int

	JWTSecret string

	// Identity provider (supabase-style REST auth + profile rows).
	IdentityURL string
	IdentityKey string

	// Payment capture service (PayPal-style orders API).
	PayPalBaseURL  string
	PayPalClientID string
	PayPalSecret   string

	// When true, a login without a profile row provisions the
	// $55.00 / 160 gems starter profile instead of failing.
	WelcomeBonus bool
}

func Load() (*Config, error) {
	cfg := &Config{
		Env:  getEnv("APP_ENV", "development"),
		Port: getEnv("PORT", "8080"),

		RedisURL:  getEnv("REDIS_URL", "localhost:6379"),
		RedisPass: getEnv("REDIS_PASSWORD", ""),

		JWTSecret: os.Getenv("JWT_SECRET"),

		IdentityURL: getEnv("IDENTITY_URL", ""),
		IdentityKey: getEnv("IDENTITY_ANON_KEY", ""),

		PayPalBaseURL:  getEnv("PAYPAL_BASE_URL", "https://api-m.sandbox.paypal.com"),
		PayPalClientID: getEnv("PAYPAL_CLIENT_ID", ""),
		PayPalSecret:   getEnv("PAYPAL_SECRET", ""),
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	db, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %v", err)
	}
	cfg.RedisDB = db

	cfg.WelcomeBonus, err = strconv.ParseBool(getEnv("WELCOME_BONUS", "true"))
	if err != nil {
		return nil, fmt.Errorf("invalid WELCOME_BONUS: %v", err)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
