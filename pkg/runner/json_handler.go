package runner

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/zojize/exusiai-bot/pkg/chat"
)

// JSONHandler implements the IOHandler interface for structured JSON-Lines communication.
type JSONHandler struct {
	User string

	mu      sync.Mutex
	encoder *json.Encoder
	pump    *linePump
}

// systemLine is written for meta-messages.
type systemLine struct {
	System string `json:"system"`
}

// NewJSONHandler creates a handler for JSON IO. user is the sender assumed
// for lines that do not name one.
func NewJSONHandler(r io.Reader, w io.Writer, user string) *JSONHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	if user == "" {
		user = DefaultUser
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return &JSONHandler{
		User:    user,
		encoder: enc,
		pump:    newLinePump(r),
	}
}

// Input accepts a message object, a JSON string or a raw line of text.
// Blank lines are skipped.
func (h *JSONHandler) Input(ctx context.Context) (chat.Message, error) {
	for {
		line, err := h.pump.next(ctx)
		if err != nil {
			return chat.Message{}, err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		msg := chat.Message{User: h.User}
		var obj chat.Message
		var str string
		switch {
		case json.Unmarshal([]byte(line), &obj) == nil:
			msg.Text = obj.Text
			if obj.User != "" {
				msg.User = obj.User
			}
		case json.Unmarshal([]byte(line), &str) == nil:
			msg.Text = str
		default:
			msg.Text = line
		}
		return msg, nil
	}
}

func (h *JSONHandler) Output(ctx context.Context, reply chat.Reply) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.encoder.Encode(reply)
}

func (h *JSONHandler) SystemOutput(ctx context.Context, msg string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.encoder.Encode(systemLine{System: msg})
}
