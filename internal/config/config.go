package config

import (
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all runtime configuration. DatabaseURL selects the store
// backend: when set the stores run on PostgreSQL, otherwise on MongoDB.
// RedisURL enables the cross-instance bridge when set.
type Config struct {
	Host string
	Port string

	MongoURI    string
	MongoDB     string
	DatabaseURL string
	RedisURL    string

	AllowedOrigins []string

	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// Load reads configuration from a .env file when present, then from the
// environment, falling back to defaults.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")

	v.SetDefault("COLLAB_HOST", "")
	v.SetDefault("COLLAB_PORT", "8080")
	v.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGO_DB", "collab-platform")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("ALLOWED_ORIGINS", "http://localhost:3000")
	v.SetDefault("READ_TIMEOUT", "15s")
	v.SetDefault("WRITE_TIMEOUT", "15s")
	v.SetDefault("IDLE_TIMEOUT", "60s")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		slog.Debug("no .env file, using environment and defaults", "error", err)
	}

	origins := make([]string, 0)
	for _, origin := range strings.Split(v.GetString("ALLOWED_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}

	return &Config{
		Host:           v.GetString("COLLAB_HOST"),
		Port:           v.GetString("COLLAB_PORT"),
		MongoURI:       v.GetString("MONGO_URI"),
		MongoDB:        v.GetString("MONGO_DB"),
		DatabaseURL:    v.GetString("DATABASE_URL"),
		RedisURL:       v.GetString("REDIS_URL"),
		AllowedOrigins: origins,
		ReadTimeout:    v.GetDuration("READ_TIMEOUT"),
		WriteTimeout:   v.GetDuration("WRITE_TIMEOUT"),
		IdleTimeout:    v.GetDuration("IDLE_TIMEOUT"),
	}, nil
}
