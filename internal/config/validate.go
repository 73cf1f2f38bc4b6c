package config

import (
	"fmt"
	"slices"
)

// ValidationIssue describes a problem with a config value.
type ValidationIssue struct {
	Path    string
	Message string
}

func (v ValidationIssue) String() string {
	return fmt.Sprintf("%s: %s", v.Path, v.Message)
}

// Validate checks a Config for issues. Returns nil if valid.
func Validate(cfg *Config) []ValidationIssue {
	var issues []ValidationIssue

	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		issues = append(issues, ValidationIssue{
			Path:    "server.port",
			Message: fmt.Sprintf("port must be 1-65535, got %d", cfg.Server.Port),
		})
	}

	validModes := []string{"debug", "release", "test"}
	if cfg.Server.Mode != "" && !slices.Contains(validModes, cfg.Server.Mode) {
		issues = append(issues, ValidationIssue{
			Path:    "server.mode",
			Message: fmt.Sprintf("must be one of %v, got %q", validModes, cfg.Server.Mode),
		})
	}

	validSources := []string{SourceEmbedded, SourceFile, SourcePostgres}
	if !slices.Contains(validSources, cfg.Catalog.Source) {
		issues = append(issues, ValidationIssue{
			Path:    "catalog.source",
			Message: fmt.Sprintf("must be one of %v, got %q", validSources, cfg.Catalog.Source),
		})
	}
	if cfg.Catalog.Source == SourceFile && cfg.Catalog.Dir == "" {
		issues = append(issues, ValidationIssue{
			Path:    "catalog.dir",
			Message: "required when catalog.source is file",
		})
	}
	if cfg.Catalog.Source == SourcePostgres && cfg.Catalog.DatabaseURL == "" {
		issues = append(issues, ValidationIssue{
			Path:    "catalog.databaseURL",
			Message: "required when catalog.source is postgres",
		})
	}

	if cfg.Catalog.Refresh < 0 {
		issues = append(issues, ValidationIssue{
			Path:    "catalog.refresh",
			Message: fmt.Sprintf("must not be negative, got %s", cfg.Catalog.Refresh),
		})
	}

	if cfg.Run.Delay < 0 {
		issues = append(issues, ValidationIssue{
			Path:    "run.delay",
			Message: fmt.Sprintf("must not be negative, got %s", cfg.Run.Delay),
		})
	}
	if cfg.Run.TTL < 0 {
		issues = append(issues, ValidationIssue{
			Path:    "run.ttl",
			Message: fmt.Sprintf("must not be negative, got %s", cfg.Run.TTL),
		})
	}

	validStores := []string{StoreMemory, StoreRedis}
	if !slices.Contains(validStores, cfg.Run.Store) {
		issues = append(issues, ValidationIssue{
			Path:    "run.store",
			Message: fmt.Sprintf("must be one of %v, got %q", validStores, cfg.Run.Store),
		})
	}
	if cfg.Run.Store == StoreRedis && cfg.Run.RedisAddr == "" {
		issues = append(issues, ValidationIssue{
			Path:    "run.redisAddr",
			Message: "required when run.store is redis",
		})
	}

	validLevels := []string{"debug", "info", "warn", "error"}
	if cfg.Log.Level != "" && !slices.Contains(validLevels, cfg.Log.Level) {
		issues = append(issues, ValidationIssue{
			Path:    "log.level",
			Message: fmt.Sprintf("must be one of %v, got %q", validLevels, cfg.Log.Level),
		})
	}

	return issues
}
