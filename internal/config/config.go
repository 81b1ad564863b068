// Package config loads service settings from the environment and an
// optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all settings. Values come from environment variables.
type Config struct {
	AppEnv     string `mapstructure:"APP_ENV" validate:"oneof=development production test"`
	ServerPort string `mapstructure:"SERVER_PORT" validate:"required"`

	DatabaseURL       string        `mapstructure:"DATABASE_URL"`
	DBMaxOpenConns    int           `mapstructure:"DB_MAX_OPEN_CONNS" validate:"min=1"`
	DBMaxIdleConns    int           `mapstructure:"DB_MAX_IDLE_CONNS" validate:"min=0"`
	DBConnMaxLifetime time.Duration `mapstructure:"DB_CONN_MAX_LIFETIME"`

	JWTSecret string        `mapstructure:"JWT_SECRET" validate:"required,min=16"`
	JWTTTL    time.Duration `mapstructure:"JWT_TTL" validate:"gt=0"`

	StripeSecretKey     string `mapstructure:"STRIPE_SECRET_KEY"`
	StripeWebhookSecret string `mapstructure:"STRIPE_WEBHOOK_SECRET"`
	StripeAPIURL        string `mapstructure:"STRIPE_API_URL"`
	Currency            string `mapstructure:"CURRENCY" validate:"len=3"`

	RabbitMQURL    string `mapstructure:"RABBITMQ_URL"`
	EventsExchange string `mapstructure:"EVENTS_EXCHANGE" validate:"required"`

	SweepSchedule string        `mapstructure:"PAYMENT_SWEEP_SCHEDULE" validate:"required"`
	SweepMinAge   time.Duration `mapstructure:"PAYMENT_SWEEP_MIN_AGE"`
	SweepBatch    int           `mapstructure:"PAYMENT_SWEEP_BATCH" validate:"min=1"`

	CORSAllowedOrigins []string `mapstructure:"CORS_ALLOWED_ORIGINS"`

	OIDCIssuer       string `mapstructure:"OIDC_ISSUER"`
	OIDCClientID     string `mapstructure:"OIDC_CLIENT_ID"`
	OIDCClientSecret string `mapstructure:"OIDC_CLIENT_SECRET"`
	OIDCRedirectURL  string `mapstructure:"OIDC_REDIRECT_URL"`
}

// Development reports whether APP_ENV selects development mode.
func (c Config) Development() bool {
	return c.AppEnv == "development"
}

// SSOEnabled reports whether every OIDC setting is present.
func (c Config) SSOEnabled() bool {
	return c.OIDCIssuer != "" && c.OIDCClientID != "" && c.OIDCClientSecret != "" && c.OIDCRedirectURL != ""
}

// PaymentsEnabled reports whether Stripe credentials are configured.
func (c Config) PaymentsEnabled() bool {
	return c.StripeSecretKey != "" && c.StripeWebhookSecret != ""
}

var keys = []string{
	"APP_ENV", "SERVER_PORT", "DATABASE_URL", "DB_MAX_OPEN_CONNS", "DB_MAX_IDLE_CONNS", "DB_CONN_MAX_LIFETIME",
	"JWT_SECRET", "JWT_TTL", "STRIPE_SECRET_KEY", "STRIPE_WEBHOOK_SECRET", "STRIPE_API_URL", "CURRENCY",
	"RABBITMQ_URL", "EVENTS_EXCHANGE", "PAYMENT_SWEEP_SCHEDULE", "PAYMENT_SWEEP_MIN_AGE", "PAYMENT_SWEEP_BATCH",
	"CORS_ALLOWED_ORIGINS", "OIDC_ISSUER", "OIDC_CLIENT_ID", "OIDC_CLIENT_SECRET", "OIDC_REDIRECT_URL",
}

// LoadConfig reads path/.env if it exists, then the environment. Real
// environment variables win over the file.
func LoadConfig(path string) (config Config, err error) {
	if err := godotenv.Load(filepath.Join(path, ".env")); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return config, fmt.Errorf("load .env: %w", err)
	}

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	viper.SetDefault("APP_ENV", "production")
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("DB_MAX_OPEN_CONNS", 10)
	viper.SetDefault("DB_MAX_IDLE_CONNS", 5)
	viper.SetDefault("DB_CONN_MAX_LIFETIME", "5m")
	viper.SetDefault("JWT_TTL", "24h")
	viper.SetDefault("CURRENCY", "usd")
	viper.SetDefault("EVENTS_EXCHANGE", "classbook_events")
	viper.SetDefault("PAYMENT_SWEEP_SCHEDULE", "@every 5m")
	viper.SetDefault("PAYMENT_SWEEP_MIN_AGE", "10m")
	viper.SetDefault("PAYMENT_SWEEP_BATCH", 50)

	for _, k := range keys {
		_ = viper.BindEnv(k)
	}

	if err = viper.Unmarshal(&config); err != nil {
		return config, fmt.Errorf("decode config: %w", err)
	}

	if port := strings.TrimSpace(os.Getenv("PORT")); port != "" {
		config.ServerPort = port
	}
	config.AppEnv = strings.ToLower(strings.TrimSpace(config.AppEnv))
	config.Currency = strings.ToLower(strings.TrimSpace(config.Currency))
	config.CORSAllowedOrigins = splitList(config.CORSAllowedOrigins)

	if err = validator.New().Struct(config); err != nil {
		return config, fmt.Errorf("invalid config: %w", err)
	}
	return config, nil
}

// splitList flattens comma separated entries and drops blanks.
func splitList(in []string) []string {
	var out []string
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}
