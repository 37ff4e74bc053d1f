package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const defaultPath = "config.yaml"

// Config is the service configuration, loaded from YAML with
// environment-variable overrides taking precedence.
type Config struct {
	Port        string   `yaml:"port"`
	DatabaseURL string   `yaml:"databaseURL"`
	CORSOrigins []string `yaml:"corsOrigins"`
	JWTSecret   string   `yaml:"jwtSecret"`
	JWTTTL      string   `yaml:"jwtTTL"`
}

// Load reads config from path (defaults to config.yaml). A missing file
// is not an error as long as the environment supplies everything.
func Load(path string) (Config, error) {
	cfg := Config{}
	if path == "" {
		path = defaultPath
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config: %w", err)
		}
	case os.IsNotExist(err):
		// env-only setup
	default:
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if v := os.Getenv("PORT"); v != "" {
		cfg.Port = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.DatabaseURL = v
	}
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		cfg.CORSOrigins = splitCSV(v)
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.JWTSecret = v
	}
	if v := os.Getenv("JWT_TTL"); v != "" {
		cfg.JWTTTL = v
	}

	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.Port == "" {
		return errors.New("config: port is required")
	}
	if c.DatabaseURL == "" {
		return errors.New("config: databaseURL is required")
	}
	if c.JWTSecret == "" {
		return errors.New("config: jwtSecret is required")
	}
	if c.JWTTTL != "" {
		if _, err := time.ParseDuration(c.JWTTTL); err != nil {
			return fmt.Errorf("config: invalid jwtTTL: %w", err)
		}
	}
	return nil
}

// TokenTTL returns the parsed session TTL, defaulting to 24h.
func (c Config) TokenTTL() time.Duration {
	if c.JWTTTL == "" {
		return 24 * time.Hour
	}
	d, err := time.ParseDuration(c.JWTTTL)
	if err != nil {
		return 24 * time.Hour
	}
	return d
}

func splitCSV(input string) []string {
	parts := strings.Split(input, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}
