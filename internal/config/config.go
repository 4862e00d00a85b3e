package config

import (
	"log/slog"
	"strings"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port           int     `envconfig:"PORT" default:"8080"`
	DatabaseURL    string  `envconfig:"DATABASE_URL"`
	JWTSecret      string  `envconfig:"JWT_SECRET" default:"dev-secret-change-in-production"`
	AdminKeyHash   string  `envconfig:"ADMIN_KEY_HASH"`
	AllowedOrigins string  `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:5173,http://localhost:3000"`
	LoadScale      float64 `envconfig:"LOAD_SCALE" default:"1"`
	MaxUploadBytes int64   `envconfig:"MAX_UPLOAD_BYTES" default:"10485760"`
	LogLevel       string  `envconfig:"LOG_LEVEL" default:"info"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Origins returns the allowed origins with blanks removed.
func (c *Config) Origins() []string {
	var origins []string
	for o := range strings.SplitSeq(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

// Level parses LogLevel, falling back to info.
func (c *Config) Level() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}
