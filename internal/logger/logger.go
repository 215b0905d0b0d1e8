// Package logger builds the zerolog logger used by every command and carries
// it through a context.
package logger

import (
	"context"
	"io"
	"os"

	"github.com/rs/zerolog"
)

// TimeFormat prefixes every console line.
const TimeFormat = "2006-01-02 15:04:05"

type contextKey struct{}

// New returns a console logger writing to w. Debug lines are shown only when
// verbose is set.
func New(w io.Writer, verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	out := zerolog.ConsoleWriter{Out: w, TimeFormat: TimeFormat, NoColor: !isTerminal(w)}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fi, err := f.Stat()
	return err == nil && fi.Mode()&os.ModeCharDevice != 0
}

// WithContext stores log in ctx.
func WithContext(ctx context.Context, log zerolog.Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, log)
}

// FromContext returns the logger stored in ctx, or a disabled logger.
func FromContext(ctx context.Context) zerolog.Logger {
	if ctx != nil {
		if log, ok := ctx.Value(contextKey{}).(zerolog.Logger); ok {
			return log
		}
	}
	return zerolog.Nop()
}
