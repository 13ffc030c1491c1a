package runner

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/zojize/exusiai-bot/pkg/chat"
)

// DefaultUser is the sender of messages read by the TextHandler.
const DefaultUser = "doctor"

// TextHandler implements the standard text-based interface.
type TextHandler struct {
	Writer   io.Writer
	Renderer ContentRenderer
	User     string
	Prompt   string

	pump *linePump
}

// TextHandlerOption defines configuration for TextHandler.
type TextHandlerOption func(*TextHandler)

// WithTextHandlerRenderer configures the content renderer for markdown replies.
func WithTextHandlerRenderer(renderer ContentRenderer) TextHandlerOption {
	return func(h *TextHandler) {
		h.Renderer = renderer
	}
}

// WithTextHandlerUser sets the sender of every message.
func WithTextHandlerUser(user string) TextHandlerOption {
	return func(h *TextHandler) {
		h.User = user
	}
}

// WithTextHandlerPrompt sets the prompt printed before each read. An empty
// prompt disables it, which suits piped input.
func WithTextHandlerPrompt(prompt string) TextHandlerOption {
	return func(h *TextHandler) {
		h.Prompt = prompt
	}
}

// NewTextHandler creates a handler for standard text IO.
func NewTextHandler(r io.Reader, w io.Writer, opts ...TextHandlerOption) *TextHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	h := &TextHandler{
		Writer: w,
		User:   DefaultUser,
		Prompt: "> ",
		pump:   newLinePump(r),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *TextHandler) Input(ctx context.Context) (chat.Message, error) {
	if ctx.Err() != nil {
		return chat.Message{}, ctx.Err()
	}
	if h.Prompt != "" {
		fmt.Fprint(h.Writer, h.Prompt)
	}

	text, err := h.pump.next(ctx)
	if err != nil {
		return chat.Message{}, err
	}
	return chat.Message{User: h.User, Text: strings.TrimSpace(text)}, nil
}

func (h *TextHandler) Output(ctx context.Context, reply chat.Reply) error {
	out := reply.Text
	if reply.Markdown && h.Renderer != nil {
		if rendered, err := h.Renderer(out); err == nil {
			out = rendered
		}
	}
	_, err := fmt.Fprintln(h.Writer, strings.TrimSpace(out))
	return err
}

func (h *TextHandler) SystemOutput(ctx context.Context, msg string) error {
	_, err := fmt.Fprintf(h.Writer, "[System] %s\n", msg)
	return err
}
