package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync/atomic"
	"time"

	backend "github.com/redis/go-redis/v9"
	"github.com/zojize/exusiai-bot/pkg/ports"
)

// ErrLockAcquire is returned when Redis refuses the lock command.
var ErrLockAcquire = errors.New("failed to acquire distributed lock")

// pollInterval is the delay between acquisition attempts.
const pollInterval = 50 * time.Millisecond

// unlockScript deletes the key only if it still holds our token.
var unlockScript = backend.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
else
	return 0
end
`)

var tokenSeq atomic.Uint64

// Locker implements ports.Locker using Redis SET NX PX.
type Locker struct {
	client *backend.Client
	prefix string
}

// NewLocker creates a Redis locker. Keys are stored as prefix+"lock:"+key.
func NewLocker(client *backend.Client, prefix string) *Locker {
	return &Locker{
		client: client,
		prefix: prefix,
	}
}

// Lock polls until the lock is acquired or ctx is done. The lock expires
// after ttl even if never released.
func (l *Locker) Lock(ctx context.Context, key string, ttl time.Duration) (ports.UnlockFunc, error) {
	lockKey := l.prefix + "lock:" + key
	token := strconv.FormatInt(time.Now().UnixNano(), 36) + "-" + strconv.FormatUint(tokenSeq.Add(1), 36)

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		ok, err := l.client.SetNX(ctx, lockKey, token, ttl).Result()
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, fmt.Errorf("%w: %v", ErrLockAcquire, err)
		}
		if ok {
			return func(ctx context.Context) error {
				return unlockScript.Run(ctx, l.client, []string{lockKey}, token).Err()
			}, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}
