package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

// Config holds application configuration
type Config struct {
	Port     string `env:"PORT" envDefault:"3000"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	BaseURL  string `env:"BASE_URL" envDefault:"http://localhost:3000"`

	// An empty MongoURI selects the in-memory store.
	MongoURI      string `env:"MONGO_URI"`
	MongoDatabase string `env:"MONGO_DB" envDefault:"contacts"`

	JWTSecret  string        `env:"JWT_SECRET"`
	TokenTTL   time.Duration `env:"TOKEN_TTL" envDefault:"23h"`
	BcryptCost int           `env:"BCRYPT_COST" envDefault:"10"`

	SMTPHost     string `env:"SMTP_HOST" envDefault:"localhost"`
	SMTPPort     string `env:"SMTP_PORT" envDefault:"465"`
	SMTPUsername string `env:"SMTP_USERNAME"`
	SMTPPassword string `env:"SMTP_PASSWORD"`
	SenderEmail  string `env:"SENDER_EMAIL" envDefault:"noreply@localhost"`

	AvatarsDir  string `env:"AVATARS_DIR" envDefault:"public/avatars"`
	S3Bucket    string `env:"S3_BUCKET"`
	S3Region    string `env:"S3_REGION" envDefault:"us-east-1"`
	S3Endpoint  string `env:"S3_ENDPOINT"`
	S3AccessKey string `env:"S3_ACCESS_KEY"`
	S3SecretKey string `env:"S3_SECRET_KEY"`
	S3PublicURL string `env:"S3_PUBLIC_URL"`

	RedisURL     string        `env:"REDIS_URL"`
	ResendLimit  int           `env:"RESEND_LIMIT" envDefault:"3"`
	ResendWindow time.Duration `env:"RESEND_WINDOW" envDefault:"1h"`

	RateLimitRPS   float64 `env:"RATE_LIMIT_RPS" envDefault:"5"`
	RateLimitBurst int     `env:"RATE_LIMIT_BURST" envDefault:"10"`

	PendingEmailSchedule   string        `env:"PENDING_EMAIL_SCHEDULE" envDefault:"@every 5m"`
	// Minimum age of the last delivery attempt before the outbox job retries a user.
	PendingEmailRetryAfter time.Duration `env:"PENDING_EMAIL_RETRY_AFTER" envDefault:"5m"`
}

// NewConfig loads configuration from an optional .env file and environment variables
func NewConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks required settings
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive")
	}
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("BCRYPT_COST must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}
	if c.S3Bucket != "" && (c.S3AccessKey == "" || c.S3SecretKey == "" || c.S3PublicURL == "") {
		return fmt.Errorf("S3_ACCESS_KEY, S3_SECRET_KEY and S3_PUBLIC_URL are required when S3_BUCKET is set")
	}
	if c.ResendLimit <= 0 {
		return fmt.Errorf("RESEND_LIMIT must be positive")
	}
	if c.PendingEmailRetryAfter < 0 {
		return fmt.Errorf("PENDING_EMAIL_RETRY_AFTER must not be negative")
	}
	return nil
}

// UseS3 reports whether avatars go to object storage instead of local disk
func (c *Config) UseS3() bool {
	return c.S3Bucket != ""
}
