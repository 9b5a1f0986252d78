package config

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string `env:"PORT,       default=8080"`
	Env       string `env:"ENV,        default=development"`
	LogLevel  string `env:"LOG_LEVEL,  default=info"`
	ClientURL string `env:"CLIENT_URL, default=http://localhost:3000" validate:"required,url"`

	AccessTokenSecret      string `env:"ACCESS_TOKEN_SECRET" validate:"required,min=32"`
	AccessTokenExpiryMin   int    `env:"ACCESS_TOKEN_EXPIRY,  default=15" validate:"gt=0"`
	RefreshTokenExpiryDays int    `env:"REFRESH_TOKEN_EXPIRY, default=7" validate:"gt=0"`

	Postgres PostgresConfig
	Redis    RedisConfig
	SMTP     SMTPConfig
	Throttle ThrottleConfig
}

type PostgresConfig struct {
	URL string `env:"DATABASE_URL" validate:"required"`
}

// RedisConfig is optional: an empty Addr disables login throttling and the
// Redis readiness check.
type RedisConfig struct {
	Addr string `env:"REDIS_ADDR"`
	DB   int    `env:"REDIS_DB, default=0"`
}

type SMTPConfig struct {
	Host     string `env:"EMAIL_HOST" validate:"required"`
	Port     int    `env:"EMAIL_PORT, default=587" validate:"gt=0"`
	Address  string `env:"EMAIL_ADDRESS" validate:"required,email"`
	Password string `env:"EMAIL_PASSWORD"`
}

type ThrottleConfig struct {
	MaxFailures int           `env:"LOGIN_MAX_FAILURES, default=5" validate:"gt=0"`
	Cooldown    time.Duration `env:"LOGIN_COOLDOWN,     default=15m" validate:"gt=0"`
}

// Load reads configuration from environment variables using go-envconfig and
// validates the result before anything else starts.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) AccessTokenTTL() time.Duration {
	return time.Duration(c.AccessTokenExpiryMin) * time.Minute
}

func (c *Config) RefreshTokenTTL() time.Duration {
	return time.Duration(c.RefreshTokenExpiryDays) * 24 * time.Hour
}
