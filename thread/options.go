package thread

import (
	"log/slog"
	"time"
)

// Options contains configuration for a Reducer.
type Options struct {
	// Logger receives protocol drift diagnostics. Defaults to slog.Default().
	Logger *slog.Logger

	// Clock supplies timestamps for events that carry none. Defaults to time.Now.
	Clock func() time.Time

	// Strict makes events with an unrecognized outer type fail the reduction
	// instead of being logged and ignored. Enable it in development and tests.
	Strict bool
}

// Option is a functional option for configuring a Reducer.
type Option func(*Options)

// WithLogger sets the logger for drift diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) {
		o.Logger = l
	}
}

// WithClock sets the time source.
func WithClock(clock func() time.Time) Option {
	return func(o *Options) {
		o.Clock = clock
	}
}

// WithStrict enables strict handling of unrecognized event types.
func WithStrict(strict bool) Option {
	return func(o *Options) {
		o.Strict = strict
	}
}

// ApplyOptions applies the given options to an Options struct.
func ApplyOptions(opts ...Option) *Options {
	o := &Options{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}
