// Package config loads the application configuration from a YAML file and
// the environment. Environment variables take priority over the file, and
// every field carries a sane default so the server can start with nothing
// but PATUNGAN_JWT_SECRET set.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config is the root application configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Storage StorageConfig `yaml:"storage"`
	Auth    AuthConfig    `yaml:"auth"`
	Log     LogConfig     `yaml:"log"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"PATUNGAN_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"PATUNGAN_PORT"             env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"PATUNGAN_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"PATUNGAN_WRITE_TIMEOUT"    env-default:"30s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"PATUNGAN_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// StorageConfig holds SQLite settings.
type StorageConfig struct {
	Path string `yaml:"path" env:"PATUNGAN_DB_PATH" env-default:"./data/patungan.db"`
}

// AuthConfig holds JWT settings.
type AuthConfig struct {
	JWTSecret string        `yaml:"jwt_secret" env:"PATUNGAN_JWT_SECRET" env-required:"true"`
	TokenTTL  time.Duration `yaml:"token_ttl"  env:"PATUNGAN_TOKEN_TTL"  env-default:"24h"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"tint"`
}

// Addr returns the host:port listen address.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Load reads configuration from CONFIG_PATH (fallback "./config.yaml") and
// the environment. If the default file does not exist, configuration comes
// from the environment and defaults alone; an explicitly set CONFIG_PATH
// that points at a missing file is an error.
func Load() (*Config, error) {
	var cfg Config

	path := os.Getenv("CONFIG_PATH")
	explicit := path != ""
	if !explicit {
		path = "./config.yaml"
	}

	if _, err := os.Stat(path); err == nil {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	} else if explicit {
		return nil, fmt.Errorf("config: file %s: %w", path, err)
	} else {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("config: read env: %w", err)
		}
	}

	if len(cfg.Auth.JWTSecret) < 16 {
		return nil, fmt.Errorf("config: jwt_secret must be at least 16 bytes")
	}

	return &cfg, nil
}
