package runner

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zojize/exusiai-bot/pkg/chat"
)

func echoDispatcher() *chat.Dispatcher {
	d := chat.NewDispatcher()
	d.Add("echo", "", func(ctx context.Context, msg chat.Message, argv []string) (chat.Reply, error) {
		return chat.Reply{Text: msg.User + ": " + strings.Join(argv[1:], " ")}, nil
	})
	d.Add("md", "", func(ctx context.Context, msg chat.Message, argv []string) (chat.Reply, error) {
		return chat.Reply{Text: "**bold**", Markdown: true}, nil
	})
	d.Add("fail", "", func(ctx context.Context, msg chat.Message, argv []string) (chat.Reply, error) {
		return chat.Reply{}, io.ErrUnexpectedEOF
	})
	return d
}

func TestRunner_Text(t *testing.T) {
	in := strings.NewReader(".echo hi there\nnot a command\n.nope\n.fail\n.md\nexit\n.echo never\n")
	var out bytes.Buffer

	h := NewTextHandler(in, &out,
		WithTextHandlerPrompt(""),
		WithTextHandlerUser("amiya"),
		WithTextHandlerRenderer(func(s string) (string, error) { return strings.ReplaceAll(s, "**", ""), nil }),
	)
	r := NewRunner(echoDispatcher(), WithInputHandler(h))
	require.NoError(t, r.Run(context.Background()))

	assert.Equal(t, strings.Join([]string{
		"amiya: hi there",
		"[System] unknown command: nope",
		"[System] Error: unexpected EOF",
		"bold",
	}, "\n")+"\n", out.String())
}

func TestRunner_ImplicitPrefix(t *testing.T) {
	in := strings.NewReader("echo a\n.echo b\n")
	var out bytes.Buffer

	r := NewRunner(echoDispatcher(),
		WithInputHandler(NewTextHandler(in, &out, WithTextHandlerPrompt(""))),
		WithImplicitPrefix("."),
	)
	require.NoError(t, r.Run(context.Background()))
	assert.Equal(t, "doctor: a\ndoctor: b\n", out.String())
}

func TestRunner_JSON(t *testing.T) {
	in := strings.NewReader(strings.Join([]string{
		`{"user": "kal'tsit", "text": ".echo one"}`,
		`".echo two"`,
		`.echo three`,
		``,
		`.nope`,
	}, "\n"))
	var out bytes.Buffer

	r := NewRunner(echoDispatcher(), WithInputHandler(NewJSONHandler(in, &out, "")))
	require.NoError(t, r.Run(context.Background()))

	var lines []map[string]any
	dec := json.NewDecoder(&out)
	for dec.More() {
		var v map[string]any
		require.NoError(t, dec.Decode(&v))
		lines = append(lines, v)
	}
	require.Len(t, lines, 4)
	assert.Equal(t, "kal'tsit: one", lines[0]["text"])
	assert.Equal(t, "doctor: two", lines[1]["text"])
	assert.Equal(t, "doctor: three", lines[2]["text"])
	assert.Equal(t, "unknown command: nope", lines[3]["system"])
}

func TestRunner_Sanitize(t *testing.T) {
	in := strings.NewReader(".echo a\x1b[31mb\n.echo " + strings.Repeat("x", 64) + "\n")
	var out bytes.Buffer

	r := NewRunner(echoDispatcher(),
		WithInputHandler(NewTextHandler(in, &out, WithTextHandlerPrompt(""))),
		WithMaxInputSize(32),
	)
	require.NoError(t, r.Run(context.Background()))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "doctor: a[31mb", lines[0])
	assert.Contains(t, lines[1], ErrInputTooLarge.Error())
}

func TestRunner_ContextCancel(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()

	var out bytes.Buffer
	r := NewRunner(echoDispatcher(), WithInputHandler(NewTextHandler(pr, &out, WithTextHandlerPrompt(""))))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("runner did not stop on cancellation")
	}
}

func TestSanitizeInput(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		limit   int
		want    string
		wantErr error
	}{
		{"plain", "十连", 0, "十连", nil},
		{"keeps tab and newline", "a\tb\nc", 0, "a\tb\nc", nil},
		{"strips escape and bell", "a\x1b\x07b\r", 0, "ab", nil},
		{"too large", "abcd", 3, "", ErrInputTooLarge},
		{"invalid utf8", "a\xffb", 0, "", ErrInvalidUTF8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SanitizeInput(tt.input, tt.limit)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
