// Package logging builds the logr.Logger handed to the pipeline packages through the context.
package logging

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/go-logr/logr"
	"github.com/pkg/errors"
)

const (
	FormatText = "text"
	FormatJSON = "json"
)

// New returns a logger writing to w through a slog handler. level is a slog level name such as
// "debug" or "warn"; logr verbosity V(n) is logged at slog level -n.
func New(w io.Writer, level, format string) (logr.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return logr.Discard(), errors.Wrapf(err, "invalid log level %q", level)
	}

	opts := &slog.HandlerOptions{Level: lvl}

	var handler slog.Handler

	switch strings.ToLower(format) {
	case FormatText, "":
		handler = slog.NewTextHandler(w, opts)
	case FormatJSON:
		handler = slog.NewJSONHandler(w, opts)
	default:
		return logr.Discard(), errors.Errorf("invalid log format %q, expected %s or %s", format, FormatText, FormatJSON)
	}

	return logr.FromSlogHandler(handler), nil
}

// WithLogger returns ctx carrying logger.
func WithLogger(ctx context.Context, logger logr.Logger) context.Context {
	return logr.NewContext(ctx, logger)
}
