// Package config loads host process configuration from a YAML file with
// environment variable overrides. Library consumers embedding the engine
// directly never need this package; it serves the bundled CLI and server.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// EngineConfig configures execution behavior.
type EngineConfig struct {
	TimeoutMs    int64 `yaml:"timeout_ms"`
	GraceDelayMs int64 `yaml:"grace_delay_ms"`
}

// RedisConfig configures the optional Redis state store. When Addr is empty
// the host falls back to the in-memory store.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	TTL      string `yaml:"ttl"` // Go duration string, e.g. "24h"
}

// Config is the root configuration document.
type Config struct {
	Agent    string       `yaml:"agent"`
	Server   ServerConfig `yaml:"server"`
	Engine   EngineConfig `yaml:"engine"`
	Redis    RedisConfig  `yaml:"redis"`
	LogLevel string       `yaml:"log_level"`
}

// Default returns the configuration used when no file or overrides are given.
func Default() Config {
	return Config{
		Agent: "echo",
		Server: ServerConfig{
			Addr: ":8080",
		},
		Engine: EngineConfig{
			TimeoutMs:    30000,
			GraceDelayMs: 300,
		},
		LogLevel: "info",
	}
}

// Load reads the YAML file at path (when non-empty), applies environment
// overrides on top and returns the result. A missing file at the default
// path is not an error; an explicitly requested file must exist.
func Load(path string, required bool) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
		case os.IsNotExist(err) && !required:
			// fall through to defaults
		default:
			return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// Validate checks invariants not expressible in the YAML schema.
func (c Config) Validate() error {
	if c.Engine.TimeoutMs <= 0 {
		return fmt.Errorf("engine.timeout_ms must be positive, got %d", c.Engine.TimeoutMs)
	}
	if c.Engine.GraceDelayMs < 0 {
		return fmt.Errorf("engine.grace_delay_ms must not be negative, got %d", c.Engine.GraceDelayMs)
	}
	if c.Redis.TTL != "" {
		if _, err := time.ParseDuration(c.Redis.TTL); err != nil {
			return fmt.Errorf("redis.ttl: %w", err)
		}
	}
	return nil
}

// Timeout returns the engine timeout as a duration.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.Engine.TimeoutMs) * time.Millisecond
}

// GraceDelay returns the injection grace delay as a duration.
func (c Config) GraceDelay() time.Duration {
	return time.Duration(c.Engine.GraceDelayMs) * time.Millisecond
}

// RedisTTL returns the parsed Redis TTL; zero when unset.
func (c Config) RedisTTL() time.Duration {
	if c.Redis.TTL == "" {
		return 0
	}
	d, err := time.ParseDuration(c.Redis.TTL)
	if err != nil {
		return 0
	}
	return d
}

// applyEnv overrides file values from TEXTMESH_* environment variables.
func applyEnv(cfg *Config) {
	if v := os.Getenv("TEXTMESH_AGENT"); v != "" {
		cfg.Agent = v
	}
	if v := os.Getenv("TEXTMESH_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("TEXTMESH_TIMEOUT_MS"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Engine.TimeoutMs = n
		}
	}
	if v := os.Getenv("TEXTMESH_GRACE_DELAY_MS"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Engine.GraceDelayMs = n
		}
	}
	if v := os.Getenv("TEXTMESH_REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("TEXTMESH_REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if v := os.Getenv("TEXTMESH_REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Redis.DB = n
		}
	}
	if v := os.Getenv("TEXTMESH_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
}
