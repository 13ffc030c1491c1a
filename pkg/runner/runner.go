package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/zojize/exusiai-bot/internal/logging"
	"github.com/zojize/exusiai-bot/pkg/chat"
)

// Runner reads messages from a Handler, dispatches them and writes replies.
type Runner struct {
	Dispatcher *chat.Dispatcher

	// Handler is the strategy for IO. Defaults to a TextHandler on stdio.
	Handler IOHandler

	// Logger is used for internal debug logging.
	// If nil, a no-op logger is used.
	Logger *slog.Logger

	MaxInputSize   int
	ImplicitPrefix string
}

// NewRunner creates a Runner for d.
func NewRunner(d *chat.Dispatcher, opts ...Option) *Runner {
	r := &Runner{
		Dispatcher:   d,
		MaxInputSize: DefaultMaxInputSize,
		Logger:       logging.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.Handler == nil {
		r.Handler = NewTextHandler(nil, nil)
	}
	return r
}

// Run processes messages until the input ends, the user types "exit" or
// "quit", or ctx is done. Reaching the end of input is not an error.
func (r *Runner) Run(ctx context.Context) error {
	for {
		msg, err := r.Handler.Input(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			if ctx.Err() != nil {
				r.Logger.Debug("Runner input: Context cancelled", "err", ctx.Err())
				return nil
			}
			return fmt.Errorf("input error: %w", err)
		}

		if err := r.handle(ctx, msg); err != nil {
			if errors.Is(err, errQuit) {
				return nil
			}
			return err
		}
	}
}

var errQuit = errors.New("quit")

// handle processes one message. Only output failures are returned; command
// failures are reported to the user and the loop goes on.
func (r *Runner) handle(ctx context.Context, msg chat.Message) error {
	text, err := SanitizeInput(msg.Text, r.MaxInputSize)
	if err != nil {
		return r.Handler.SystemOutput(ctx, fmt.Sprintf("Error: %v. Please try again.", err))
	}
	text = strings.TrimSpace(text)

	switch text {
	case "":
		return nil
	case "exit", "quit":
		return errQuit
	}

	if r.ImplicitPrefix != "" {
		if _, ok := chat.Parse(chat.DefaultPrefixes, text); !ok {
			text = r.ImplicitPrefix + text
		}
	}
	msg.Text = text

	reply, err := r.Dispatcher.Dispatch(ctx, msg)
	switch {
	case errors.Is(err, chat.ErrNotCommand):
		return nil
	case errors.Is(err, chat.ErrUnknownCommand):
		return r.Handler.SystemOutput(ctx, err.Error())
	case err != nil:
		r.Logger.Error("Command failed", "user", msg.User, "text", text, "error", err)
		return r.Handler.SystemOutput(ctx, fmt.Sprintf("Error: %v", err))
	}

	if err := r.Handler.Output(ctx, reply); err != nil {
		return fmt.Errorf("output error: %w", err)
	}
	return nil
}
