package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// ConfigError represents a configuration error.
type ConfigError struct {
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s", e.Message)
}

const (
	SourceEmbedded = "embedded"
	SourceFile     = "file"
	SourcePostgres = "postgres"

	StoreMemory = "memory"
	StoreRedis  = "redis"
)

// Config is the root configuration for the marketplace server and CLI.
type Config struct {
	Server  ServerConfig  `yaml:"server,omitempty"`
	Catalog CatalogConfig `yaml:"catalog,omitempty"`
	Run     RunConfig     `yaml:"run,omitempty"`
	Log     LogConfig     `yaml:"log,omitempty"`
}

type ServerConfig struct {
	Port int    `yaml:"port,omitempty"`
	Mode string `yaml:"mode,omitempty"` // gin mode: "debug" | "release" | "test"
}

// CatalogConfig selects where agents and mock responses come from. The
// embedded data is always tried last. A non-zero Refresh reloads the catalog
// on that interval.
type CatalogConfig struct {
	Source      string        `yaml:"source,omitempty"` // "embedded" | "file" | "postgres"
	Dir         string        `yaml:"dir,omitempty"`
	DatabaseURL string        `yaml:"databaseURL,omitempty"`
	Refresh     time.Duration `yaml:"refresh,omitempty"`
}

type RunConfig struct {
	Delay     time.Duration `yaml:"delay,omitempty"`
	TTL       time.Duration `yaml:"ttl,omitempty"`
	Store     string        `yaml:"store,omitempty"` // "memory" | "redis"
	RedisAddr string        `yaml:"redisAddr,omitempty"`
}

type LogConfig struct {
	Level string `yaml:"level,omitempty"` // "debug" | "info" | "warn" | "error"
}

// SlogLevel maps the configured level onto slog. Unknown levels are info.
func (l LogConfig) SlogLevel() slog.Level {
	switch strings.ToLower(l.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Defaults returns a Config with sensible defaults applied.
func Defaults() Config {
	return Config{
		Server: ServerConfig{
			Port: 8080,
			Mode: "release",
		},
		Catalog: CatalogConfig{
			Source: SourceEmbedded,
		},
		Run: RunConfig{
			Delay: 1500 * time.Millisecond,
			TTL:   time.Hour,
			Store: StoreMemory,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}
