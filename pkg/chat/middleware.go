package chat

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"
)

// Chain composes middleware so that the first one is the outermost.
func Chain(mw ...Middleware) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		for i := len(mw) - 1; i >= 0; i-- {
			next = mw[i](next)
		}
		return next
	}
}

// Recover turns a panicking handler into an error.
func Recover(logger *slog.Logger) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, msg Message, argv []string) (reply Reply, err error) {
			defer func() {
				if r := recover(); r != nil {
					logger.ErrorContext(ctx, "Command panicked", "command", argv[0], "user", msg.User, "panic", r)
					err = fmt.Errorf("command %s panicked: %v", argv[0], r)
				}
			}()
			return next(ctx, msg, argv)
		}
	}
}

// Cooldown answers commands sent by the same user less than d after their
// previous accepted command with a wait notice instead of running them.
// now is injectable for tests; nil means time.Now.
func Cooldown(d time.Duration, now func() time.Time) Middleware {
	if now == nil {
		now = time.Now
	}
	var mu sync.Mutex
	last := make(map[string]time.Time)

	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, msg Message, argv []string) (Reply, error) {
			t := now()
			mu.Lock()
			if prev, ok := last[msg.User]; ok {
				if wait := d - t.Sub(prev); wait > 0 {
					mu.Unlock()
					return Reply{Text: fmt.Sprintf("@%s 请 %d 秒后再试", msg.User, int(math.Ceil(wait.Seconds())))}, nil
				}
			}
			last[msg.User] = t
			mu.Unlock()
			return next(ctx, msg, argv)
		}
	}
}
