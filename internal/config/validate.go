package config

import (
	"fmt"
	"strings"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if err := c.Database.validate(); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := c.Log.validate(); err != nil {
		return fmt.Errorf("log: %w", err)
	}
	if err := c.Seed.validate(); err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	return nil
}

func (d *DatabaseConfig) validate() error {
	if d.MaxConns <= 0 {
		return fmt.Errorf("max_conns must be > 0 (got %d)", d.MaxConns)
	}
	if d.MinConns < 0 {
		return fmt.Errorf("min_conns must be >= 0 (got %d)", d.MinConns)
	}
	if d.MinConns > d.MaxConns {
		return fmt.Errorf("min_conns (%d) must not exceed max_conns (%d)", d.MinConns, d.MaxConns)
	}
	if d.SlowQueryThreshold < 0 {
		return fmt.Errorf("slow_query_threshold must be >= 0 (got %v)", d.SlowQueryThreshold)
	}
	return nil
}

func (l *LogConfig) validate() error {
	switch strings.ToLower(l.Format) {
	case "json", "text":
	default:
		return fmt.Errorf("format must be json or text (got %q)", l.Format)
	}
	switch strings.ToLower(l.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("unknown level %q", l.Level)
	}
	return nil
}

func (s *SeedConfig) validate() error {
	if s.Users < 0 || s.DreamsPerUser < 0 || s.LotsPerUser < 0 || s.Categories < 0 || s.Tags < 0 {
		return fmt.Errorf("counts must be >= 0")
	}
	if s.LotsPerUser > s.DreamsPerUser {
		return fmt.Errorf("lots_per_user (%d) must not exceed dreams_per_user (%d)", s.LotsPerUser, s.DreamsPerUser)
	}
	return nil
}
