// Package observability provides structured logging, correlation IDs and
// health checks for tskprio processes.
package observability

import (
	"context"
	"io"
	"log/slog"
	"os"
	"runtime/debug"

	"github.com/felixgeelhaar/tskprio/pkg/config"
)

// LogConfig configures the logger of one tskprio binary.
type LogConfig struct {
	Level slog.Level
	// JSON selects the JSON handler; text otherwise.
	JSON      bool
	Output    io.Writer
	AddSource bool
	// Service names the binary (tskprio, tskprio-mcp, tskprio-worker).
	Service string
}

// LogConfigFrom derives logger settings from application configuration.
// Unknown levels fall back to info. Production adds source locations.
func LogConfigFrom(cfg *config.Config, service string) LogConfig {
	lc := LogConfig{Level: slog.LevelInfo, Output: os.Stderr, Service: service}
	if cfg == nil {
		return lc
	}
	if cfg.LogLevel != "" {
		var level slog.Level
		if err := level.UnmarshalText([]byte(cfg.LogLevel)); err == nil {
			lc.Level = level
		}
	}
	lc.JSON = cfg.LogFormat == "json"
	lc.AddSource = cfg.IsProduction()
	return lc
}

// NewLogger builds a slog logger tagged with the service name and build
// version. Records logged with a context carry its correlation and request IDs.
func NewLogger(cfg LogConfig) *slog.Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: cfg.Level, AddSource: cfg.AddSource}

	var handler slog.Handler
	if cfg.JSON {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}

	var attrs []slog.Attr
	if cfg.Service != "" {
		attrs = append(attrs, slog.String("service", cfg.Service))
	}
	if version := buildVersion(); version != "" {
		attrs = append(attrs, slog.String("version", version))
	}
	return slog.New(contextHandler{Handler: handler.WithAttrs(attrs)})
}

// buildVersion is the main module version stamped by go install, or "" for
// local builds.
func buildVersion() string {
	info, ok := debug.ReadBuildInfo()
	if !ok || info.Main.Version == "" || info.Main.Version == "(devel)" {
		return ""
	}
	return info.Main.Version
}

// contextHandler copies correlation and request IDs from the record's
// context onto the record.
type contextHandler struct {
	slog.Handler
}

func (h contextHandler) Handle(ctx context.Context, r slog.Record) error {
	if id := CorrelationIDFromContext(ctx); id != "" {
		r.AddAttrs(slog.String(CorrelationIDKey, id))
	}
	if id := RequestIDFromContext(ctx); id != "" {
		r.AddAttrs(slog.String(RequestIDKey, id))
	}
	return h.Handler.Handle(ctx, r)
}

func (h contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return contextHandler{Handler: h.Handler.WithAttrs(attrs)}
}

func (h contextHandler) WithGroup(name string) slog.Handler {
	return contextHandler{Handler: h.Handler.WithGroup(name)}
}
