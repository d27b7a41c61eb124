package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Config holds the process configuration, read from the environment with an
// optional .env file for local development.
type Config struct {
	Port     string `env:"PORT" envDefault:"8080"`
	DBPath   string `env:"DB_PATH" envDefault:"listasbebe.db"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	BaseURL  string `env:"BASE_URL" envDefault:"http://localhost:8080"`

	// Backups are disabled unless a bucket is configured.
	S3Bucket       string        `env:"S3_BUCKET"`
	S3Region       string        `env:"S3_REGION" envDefault:"us-east-1"`
	S3Endpoint     string        `env:"S3_ENDPOINT"`
	S3AccessKey    string        `env:"S3_ACCESS_KEY"`
	S3SecretKey    string        `env:"S3_SECRET_KEY"`
	BackupInterval time.Duration `env:"BACKUP_INTERVAL" envDefault:"24h"`

	// Web push is disabled unless both VAPID keys are configured.
	VAPIDPublicKey  string `env:"VAPID_PUBLIC_KEY"`
	VAPIDPrivateKey string `env:"VAPID_PRIVATE_KEY"`
	VAPIDSubscriber string `env:"VAPID_SUBSCRIBER" envDefault:"mailto:admin@localhost"`
}

// Load reads configuration from a .env file (if present) and the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// BackupEnabled reports whether S3 backups are configured.
func (c *Config) BackupEnabled() bool {
	return c.S3Bucket != ""
}

// PushEnabled reports whether web push notifications are configured.
func (c *Config) PushEnabled() bool {
	return c.VAPIDPublicKey != "" && c.VAPIDPrivateKey != ""
}
