package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Load reads the config file, applies environment overrides, and returns
// a merged Config. An empty path or a missing file produces defaults only.
func Load(path string) (Config, error) {
	cfg := Defaults()

	if path == "" {
		applyEnvOverrides(&cfg)
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			applyEnvOverrides(&cfg)
			return cfg, nil
		}
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, &ConfigError{Message: "failed to parse config: " + err.Error()}
	}

	applyDefaults(&cfg)
	applyEnvOverrides(&cfg)
	return cfg, nil
}

// applyDefaults fills zero-value fields with sensible defaults.
func applyDefaults(cfg *Config) {
	d := Defaults()
	if cfg.Server.Port == 0 {
		cfg.Server.Port = d.Server.Port
	}
	if cfg.Server.Mode == "" {
		cfg.Server.Mode = d.Server.Mode
	}
	if cfg.Catalog.Source == "" {
		cfg.Catalog.Source = d.Catalog.Source
	}
	if cfg.Run.Delay == 0 {
		cfg.Run.Delay = d.Run.Delay
	}
	if cfg.Run.TTL == 0 {
		cfg.Run.TTL = d.Run.TTL
	}
	if cfg.Run.Store == "" {
		cfg.Run.Store = d.Run.Store
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = d.Log.Level
	}
}

// applyEnvOverrides reads MARKETPLACE_* environment variables and overrides
// config values. PORT and DATABASE_URL are honoured as well since most
// hosting platforms set them.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("MARKETPLACE_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("MARKETPLACE_SERVER_MODE"); v != "" {
		cfg.Server.Mode = strings.ToLower(v)
	}
	if v := os.Getenv("MARKETPLACE_CATALOG_SOURCE"); v != "" {
		cfg.Catalog.Source = strings.ToLower(v)
	}
	if v := os.Getenv("MARKETPLACE_CATALOG_DIR"); v != "" {
		cfg.Catalog.Dir = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Catalog.DatabaseURL = v
	}
	if v := os.Getenv("MARKETPLACE_CATALOG_DATABASE_URL"); v != "" {
		cfg.Catalog.DatabaseURL = v
	}
	if v := os.Getenv("MARKETPLACE_CATALOG_REFRESH"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Catalog.Refresh = d
		}
	}
	if v := os.Getenv("MARKETPLACE_RUN_DELAY"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Run.Delay = d
		}
	}
	if v := os.Getenv("MARKETPLACE_RUN_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Run.TTL = d
		}
	}
	if v := os.Getenv("MARKETPLACE_RUN_STORE"); v != "" {
		cfg.Run.Store = strings.ToLower(v)
	}
	if v := os.Getenv("MARKETPLACE_RUN_REDIS_ADDR"); v != "" {
		cfg.Run.RedisAddr = v
	}
	if v := os.Getenv("MARKETPLACE_LOG_LEVEL"); v != "" {
		cfg.Log.Level = strings.ToLower(v)
	}
}
