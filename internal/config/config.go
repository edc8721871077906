package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

var knownWeakSecrets = []string{
	"change-me", "dev-secret-change-me", "secret", "admin", "password",
}

type Config struct {
	Port                   int    `env:"PORT" envDefault:"8080"`
	DatabaseURL            string `env:"DATABASE_URL,required"`
	RedisURL               string `env:"REDIS_URL,required"`
	JWTSecret              string `env:"JWT_SECRET,required"`
	SessionTTLMinutes      int    `env:"SESSION_TTL_MINUTES" envDefault:"30"`
	CleanupIntervalSeconds int    `env:"CLEANUP_INTERVAL_SECONDS" envDefault:"60"`
	LogLevel               string `env:"LOG_LEVEL" envDefault:"info"`
}

func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLMinutes) * time.Minute
}

func (c *Config) CleanupInterval() time.Duration {
	return time.Duration(c.CleanupIntervalSeconds) * time.Second
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func (c *Config) Validate(isProduction bool) error {
	if c.SessionTTLMinutes <= 0 {
		return fmt.Errorf("SESSION_TTL_MINUTES must be positive")
	}
	if isProduction {
		if len(c.JWTSecret) < 32 {
			return fmt.Errorf("JWT_SECRET must be at least 32 characters in production (generate with: openssl rand -base64 32)")
		}
		for _, weak := range knownWeakSecrets {
			if c.JWTSecret == weak {
				return fmt.Errorf("JWT_SECRET is a known weak default; set a strong secret in production")
			}
		}
	}
	return nil
}

func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}
