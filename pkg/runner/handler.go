package runner

import (
	"context"

	"github.com/zojize/exusiai-bot/pkg/chat"
)

// IOHandler defines the strategy for interacting with the user.
// This allows switching between Text (CLI/TUI) and JSON (Structured) modes.
type IOHandler interface {
	// Input blocks until a message arrives or ctx is done.
	// io.EOF means the stream ended.
	Input(ctx context.Context) (chat.Message, error)

	// Output presents a command's reply.
	Output(ctx context.Context, reply chat.Reply) error

	// SystemOutput presents a meta-message (errors, notices) that is not a
	// command reply.
	SystemOutput(ctx context.Context, msg string) error
}

// ContentRenderer is a function that transforms the content before outputting it.
// This allows for TUI rendering (markdown to ANSI) without coupling the core package.
type ContentRenderer func(string) (string, error)
