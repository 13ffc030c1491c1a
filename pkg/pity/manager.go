package pity

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/zojize/exusiai-bot/internal/logging"
	"github.com/zojize/exusiai-bot/pkg/ports"
)

// DefaultLockTTL bounds how long a distributed lock survives a crashed holder.
const DefaultLockTTL = 30 * time.Second

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager orchestrates counter access, ensuring safe concurrent updates.
// It uses reference counting to garbage collect unused locks.
type Manager struct {
	store ports.PityStore

	mu    sync.Mutex
	locks map[string]*lockEntry

	locker  ports.Locker
	lockTTL time.Duration
	logger  *slog.Logger
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking.
func WithLocker(locker ports.Locker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLockTTL overrides DefaultLockTTL.
func WithLockTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		m.lockTTL = ttl
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// NewManager creates a Manager over store.
func NewManager(store ports.PityStore, opts ...Option) *Manager {
	m := &Manager{
		store:   store,
		locks:   make(map[string]*lockEntry),
		lockTTL: DefaultLockTTL,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller must lock entry.mu, and call release(key) after unlocking.
func (m *Manager) acquire(key string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[key]
	if !exists {
		entry = &lockEntry{}
		m.locks[key] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry at zero.
func (m *Manager) release(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[key]
	if !exists {
		return
	}
	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, key)
	}
}

// Get reads the counter for key.
func (m *Manager) Get(ctx context.Context, key string) (int, error) {
	var n int
	err := m.WithLock(ctx, key, func(ctx context.Context) error {
		var err error
		n, err = m.store.Get(ctx, key)
		return err
	})
	return n, err
}

// Update applies fn to the stored counter and saves the result. Nothing is
// saved when fn fails.
func (m *Manager) Update(ctx context.Context, key string, fn func(n int) (int, error)) error {
	return m.WithLock(ctx, key, func(ctx context.Context) error {
		n, err := m.store.Get(ctx, key)
		if err != nil {
			return fmt.Errorf("failed to load pity: %w", err)
		}
		next, err := fn(n)
		if err != nil {
			return err
		}
		if err := m.store.Set(ctx, key, next); err != nil {
			return fmt.Errorf("failed to save pity: %w", err)
		}
		return nil
	})
}

// Reset clears the counter for key.
func (m *Manager) Reset(ctx context.Context, key string) error {
	return m.WithLock(ctx, key, func(ctx context.Context) error {
		return m.store.Delete(ctx, key)
	})
}

// List delegates to the store.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	return m.store.List(ctx)
}

// Store returns the underlying store.
func (m *Manager) Store() ports.PityStore {
	return m.store
}

// WithLock executes fn while holding the lock for key.
func (m *Manager) WithLock(ctx context.Context, key string, fn func(context.Context) error) error {
	entry := m.acquire(key)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(key)
	}()

	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, key, m.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			if err := unlock(ctx); err != nil {
				m.logger.Warn("Failed to release distributed lock (will expire via TTL)",
					"key", key,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}
