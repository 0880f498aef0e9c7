package main

import (
	"strings"

	"github.com/hupe1980/textmesh/agents"
	"github.com/hupe1980/textmesh/config"
	"github.com/hupe1980/textmesh/core"
	"github.com/hupe1980/textmesh/engine"
	"github.com/hupe1980/textmesh/logging"
	"github.com/hupe1980/textmesh/model/anthropic"
	"github.com/hupe1980/textmesh/model/openai"
	"github.com/hupe1980/textmesh/room"
	"github.com/hupe1980/textmesh/session"
	sessionredis "github.com/hupe1980/textmesh/session/redis"
)

// buildLogger maps the configured level onto a JSON slog logger.
func buildLogger(cfg config.Config) logging.Logger {
	level := logging.LogLevelInfo
	switch strings.ToLower(cfg.LogLevel) {
	case "debug":
		level = logging.LogLevelDebug
	case "warn":
		level = logging.LogLevelWarn
	case "error":
		level = logging.LogLevelError
	}
	return logging.NewSlogLogger(nil, level, "json")
}

// buildStore wires the configured state store; Redis when an address is set,
// otherwise in-memory.
func buildStore(cfg config.Config) core.StateStore {
	if cfg.Redis.Addr == "" {
		return session.NewInMemoryStore()
	}
	return sessionredis.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB,
		sessionredis.WithTTL(cfg.RedisTTL()))
}

// buildEngine applies the configured execution parameters.
func buildEngine(cfg config.Config, logger logging.Logger) *engine.Engine {
	return engine.New(func(o *engine.Options) {
		o.DefaultTimeout = cfg.Timeout()
		o.GraceDelay = cfg.GraceDelay()
		o.Logger = logger
	})
}

// buildRegistry returns the built-in agents plus the model backed assistants.
// Model credentials come from the provider SDK's own environment variables.
func buildRegistry() *agents.Registry {
	r := agents.Builtin()
	r.Register("assistant-openai", func() room.EntryFunc {
		return agents.Assistant(openai.NewModel())
	})
	r.Register("assistant-anthropic", func() room.EntryFunc {
		return agents.Assistant(anthropic.NewModel())
	})
	return r
}
