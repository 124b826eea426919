package config

import (
	"fmt"
	"log"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

func init() {
	if err := godotenv.Load(); err != nil {
		log.Println("[INFO] No .env file found, falling back to system environment variables")
	}
}

// Config holds everything the host applications read from the environment.
type Config struct {
	DiscordToken     string  `env:"DISCORD_TOKEN"`
	StoragePath      string  `env:"STORAGE_PATH" envDefault:"datastore.json"`
	WebhookRPS       float64 `env:"WEBHOOK_RPS" envDefault:"5"`
	WebhookTimeoutMS int     `env:"WEBHOOK_TIMEOUT_MS" envDefault:"10000"`
	LogFile          string  `env:"LOG_FILE"`
	LogMaxSizeMB     int     `env:"LOG_MAX_SIZE_MB" envDefault:"10"`
	LogMaxBackups    int     `env:"LOG_MAX_BACKUPS" envDefault:"5"`
}

// New parses the environment into a Config.
func New() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
