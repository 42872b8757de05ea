package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds all service configuration, loaded from environment variables.
type Config struct {
	Port        string `env:"PORT" envDefault:"8080"`
	DatabaseURL string `env:"DATABASE_URL,required,notEmpty"`

	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	VAPIDPublicKey  string `env:"VAPID_PUBLIC_KEY,required,notEmpty"`
	VAPIDPrivateKey string `env:"VAPID_PRIVATE_KEY,required,notEmpty"`
	VAPIDSubject    string `env:"VAPID_SUBJECT" envDefault:"mailto:admin@example.com"`

	SessionSecret string `env:"SESSION_SECRET" envDefault:"secret-key-change-in-production"`

	PushTimeoutSeconds int `env:"PUSH_TIMEOUT_SECONDS" envDefault:"10"`
}

// Load parses configuration from the environment. Missing required values
// (database URL, VAPID keys) fail here rather than at first delivery.
func Load() (*Config, error) {
	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &cfg, nil
}
