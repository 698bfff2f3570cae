package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options selects and tunes a backend.
type Options struct {
	Backend string // "slog" (default) or "zap"
	Level   string // debug, info, warn, error
	Format  string // text or json; slog only, zap always writes JSON
	Output  io.Writer
}

// New builds a Logger from opts.
func New(opts Options) (Logger, error) {
	if opts.Output == nil {
		opts.Output = os.Stderr
	}
	switch strings.ToLower(opts.Backend) {
	case "", "slog":
		return newSlog(opts)
	case "zap":
		return newZap(opts)
	default:
		return nil, fmt.Errorf("unknown log backend %q", opts.Backend)
	}
}

func newSlog(opts Options) (Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(levelOrDefault(opts.Level))); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", opts.Level, err)
	}

	ho := &slog.HandlerOptions{Level: level}
	var h slog.Handler
	switch strings.ToLower(opts.Format) {
	case "", "text":
		h = slog.NewTextHandler(opts.Output, ho)
	case "json":
		h = slog.NewJSONHandler(opts.Output, ho)
	default:
		return nil, fmt.Errorf("unknown log format %q", opts.Format)
	}
	return NewSlogLogger(slog.New(h)), nil
}

func newZap(opts Options) (Logger, error) {
	level, err := zapcore.ParseLevel(levelOrDefault(opts.Level))
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", opts.Level, err)
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encCfg),
		zapcore.AddSync(opts.Output),
		level,
	)
	return NewZapLogger(zap.New(core)), nil
}

func levelOrDefault(l string) string {
	if l == "" {
		return "info"
	}
	return strings.ToLower(l)
}

// NewNop returns a Logger that drops everything.
func NewNop() Logger {
	return nop{}
}

type nop struct{}

func (nop) Debug(context.Context, string, ...any) {}
func (nop) Info(context.Context, string, ...any)  {}
func (nop) Warn(context.Context, string, ...any)  {}
func (nop) Error(context.Context, string, ...any) {}
func (n nop) With(...any) Logger                  { return n }
