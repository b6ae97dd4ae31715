// Package config loads application configuration from environment
// variables. A .env file is honored in development; real environment
// variables always win.
package config

import (
	"context"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

// Config holds all runtime settings. The database connection string is
// the only required external surface; everything else has a workable
// default.
type Config struct {
	Env      string `env:"APP_ENV,   default=dev"`
	Port     string `env:"APP_PORT,  default=8080"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	DBUser string `env:"DB_USER, required"`
	DBPass string `env:"DB_PASS"`
	DBHost string `env:"DB_HOST, default=localhost"`
	DBPort string `env:"DB_PORT, default=3306"`
	DBName string `env:"DB_NAME, required"`

	// SessionSecret signs the session cookie token.
	SessionSecret string `env:"SESSION_SECRET, required"`
	SessionTTLMin int    `env:"SESSION_TTL_MIN, default=60"`

	// AmqpURL enables admin-action event publishing when set.
	AmqpURL string `env:"AMQP_URL"`

	Cache CacheConfig
}

// Load reads a .env file if present and then processes the environment.
func Load(ctx context.Context) (Config, error) {
	_ = godotenv.Load()
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}
