package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/zojize/exusiai-bot/internal/logging"
)

var (
	// ErrNotCommand is returned for messages that do not start with a prefix.
	ErrNotCommand = errors.New("not a command")
	// ErrUnknownCommand is returned when no handler matches the command name.
	ErrUnknownCommand = errors.New("unknown command")
)

// DefaultPrefixes start a command. The full-width stop is what Chinese input
// methods produce for ".".
var DefaultPrefixes = []string{".", "。"}

// Message is one incoming chat line.
type Message struct {
	User string `json:"user"`
	Text string `json:"text"`
}

// Reply is the bot's answer to a command.
type Reply struct {
	Text string `json:"text"`
	// Markdown marks text that hosts may render.
	Markdown bool `json:"markdown,omitempty"`
}

// HandlerFunc handles one command. argv[0] is the command name as typed.
// Errors are reserved for failures the user cannot fix; usage problems are
// answered with a Reply.
type HandlerFunc func(ctx context.Context, msg Message, argv []string) (Reply, error)

// Middleware wraps a handler.
type Middleware func(HandlerFunc) HandlerFunc

type command struct {
	name    string
	help    string
	handler HandlerFunc
}

// Dispatcher routes dot-commands to handlers.
type Dispatcher struct {
	prefixes   []string
	commands   []*command
	byName     map[string]*command
	middleware []Middleware
	logger     *slog.Logger
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithPrefixes replaces DefaultPrefixes.
func WithPrefixes(prefixes ...string) Option {
	return func(d *Dispatcher) {
		d.prefixes = prefixes
	}
}

// WithMiddleware wraps every handler. The first middleware is the outermost.
func WithMiddleware(mw ...Middleware) Option {
	return func(d *Dispatcher) {
		d.middleware = append(d.middleware, mw...)
	}
}

// WithLogger sets the logger used for dispatch diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Dispatcher) {
		d.logger = logger
	}
}

// NewDispatcher creates an empty dispatcher.
func NewDispatcher(opts ...Option) *Dispatcher {
	d := &Dispatcher{
		prefixes: DefaultPrefixes,
		byName:   make(map[string]*command),
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Add registers h under name and aliases. A later registration of the same
// name replaces the earlier one.
func (d *Dispatcher) Add(name, help string, h HandlerFunc, aliases ...string) {
	cmd := &command{name: name, help: help, handler: h}
	d.commands = slices.DeleteFunc(d.commands, func(c *command) bool { return c.name == name })
	d.commands = append(d.commands, cmd)
	for _, n := range append([]string{name}, aliases...) {
		d.byName[strings.ToLower(n)] = cmd
	}
}

// Help lists commands in registration order, one per line.
func (d *Dispatcher) Help() string {
	var sb strings.Builder
	for _, c := range d.commands {
		var aliases []string
		for n, other := range d.byName {
			if other == c && n != strings.ToLower(c.name) {
				aliases = append(aliases, n)
			}
		}
		slices.Sort(aliases)
		fmt.Fprintf(&sb, "%s%s", d.prefixes[0], c.name)
		if len(aliases) > 0 {
			fmt.Fprintf(&sb, " (%s)", strings.Join(aliases, ", "))
		}
		if c.help != "" {
			fmt.Fprintf(&sb, ": %s", c.help)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// Parse splits text into an argv when it starts with one of prefixes.
func Parse(prefixes []string, text string) ([]string, bool) {
	text = strings.TrimSpace(text)
	for _, p := range prefixes {
		rest, ok := strings.CutPrefix(text, p)
		if !ok {
			continue
		}
		argv := strings.Fields(rest)
		if len(argv) == 0 {
			return nil, false
		}
		return argv, true
	}
	return nil, false
}

// Dispatch runs the handler for msg.
func (d *Dispatcher) Dispatch(ctx context.Context, msg Message) (Reply, error) {
	argv, ok := Parse(d.prefixes, msg.Text)
	if !ok {
		return Reply{}, ErrNotCommand
	}

	cmd, argv, ok := d.lookup(argv)
	if !ok {
		return Reply{}, fmt.Errorf("%w: %s", ErrUnknownCommand, argv[0])
	}

	h := cmd.handler
	for i := len(d.middleware) - 1; i >= 0; i-- {
		h = d.middleware[i](h)
	}

	d.logger.DebugContext(ctx, "dispatch", "user", msg.User, "command", cmd.name, "argc", len(argv))
	return h(ctx, msg, argv)
}

// lookup matches argv[0] exactly, then by its longest registered prefix so
// that ".十连" and ".单抽5" style messages without spaces still resolve. The
// unmatched suffix becomes argv[1].
func (d *Dispatcher) lookup(argv []string) (*command, []string, bool) {
	name := strings.ToLower(argv[0])
	if cmd, ok := d.byName[name]; ok {
		return cmd, argv, true
	}

	var best string
	for n := range d.byName {
		if strings.HasPrefix(name, n) && utf8.RuneCountInString(n) > utf8.RuneCountInString(best) {
			best = n
		}
	}
	if best == "" {
		return nil, nil, false
	}
	out := append([]string{argv[0][:len(best)], argv[0][len(best):]}, argv[1:]...)
	return d.byName[best], out, true
}
