package ports

import (
	"context"
	"time"
)

// UnlockFunc releases a lock obtained from a Locker.
type UnlockFunc func(ctx context.Context) error

// Locker serializes pulls for one user across goroutines or replicas, so the
// pity counter read-modify-write cannot interleave.
type Locker interface {
	// Lock blocks until the lock for key is held or ctx is done.
	// The returned UnlockFunc must be called to release it.
	Lock(ctx context.Context, key string, ttl time.Duration) (UnlockFunc, error)
}
