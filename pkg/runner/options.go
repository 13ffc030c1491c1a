package runner

import (
	"log/slog"
)

// Option defines a functional option for configuring the Runner.
type Option func(*Runner)

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.Logger = logger
	}
}

// WithInputHandler configures a custom IOHandler.
func WithInputHandler(handler IOHandler) Option {
	return func(r *Runner) {
		r.Handler = handler
	}
}

// WithMaxInputSize overrides DefaultMaxInputSize.
func WithMaxInputSize(n int) Option {
	return func(r *Runner) {
		r.MaxInputSize = n
	}
}

// WithImplicitPrefix treats lines without a command prefix as commands, so
// that a terminal user can type "十连" instead of ".十连".
func WithImplicitPrefix(prefix string) Option {
	return func(r *Runner) {
		r.ImplicitPrefix = prefix
	}
}
