package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	backend "github.com/redis/go-redis/v9"
)

// DefaultPrefix namespaces every key written by the store.
const DefaultPrefix = "exusiai:pity:"

// farFuture scores index entries of counters without expiration.
const farFuture = 4102444800 // 2100-01-01

// Store implements ports.PityStore using Redis.
// Counters are plain integer strings; a sorted set indexes the live keys.
type Store struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

type Option func(*Store)

// WithTTL sets the expiration for counters. A banner rotation usually
// outlives it, so stale pity is dropped on its own.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// New creates a Redis store connected to address.
func New(address, password string, db int, opts ...Option) *Store {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a store on an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		prefix: DefaultPrefix,
	}
	for _, opt := range opts {
		opt(store)
	}
	return store
}

// Client returns the underlying client, e.g. to share it with a Locker.
func (s *Store) Client() *backend.Client {
	return s.client
}

// Prefix returns the key prefix.
func (s *Store) Prefix() string {
	return s.prefix
}

func (s *Store) key(k string) string {
	return s.prefix + k
}

func (s *Store) indexKey() string {
	return s.prefix + "index"
}

// Get returns the counter, or 0 when the key is missing or expired.
func (s *Store) Get(ctx context.Context, key string) (int, error) {
	n, err := s.client.Get(ctx, s.key(key)).Int()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to get pity from redis: %w", err)
	}
	return n, nil
}

// Set stores the counter and refreshes its index entry.
func (s *Store) Set(ctx context.Context, key string, n int) error {
	score := float64(time.Now().Add(s.ttl).Unix())
	if s.ttl == 0 {
		score = farFuture
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, s.key(key), strconv.Itoa(n), s.ttl)
	pipe.ZAdd(ctx, s.indexKey(), backend.Z{Score: score, Member: key})

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save pity to redis: %w", err)
	}
	return nil
}

// Delete removes the counter.
func (s *Store) Delete(ctx context.Context, key string) error {
	pipe := s.client.Pipeline()
	pipe.Del(ctx, s.key(key))
	pipe.ZRem(ctx, s.indexKey(), key)

	_, err := pipe.Exec(ctx)
	return err
}

// List returns live keys. Expired entries are pruned from the index first.
func (s *Store) List(ctx context.Context) ([]string, error) {
	now := strconv.FormatInt(time.Now().Unix(), 10)
	if err := s.client.ZRemRangeByScore(ctx, s.indexKey(), "-inf", now).Err(); err != nil {
		return nil, fmt.Errorf("failed to prune expired pity: %w", err)
	}

	keys, err := s.client.ZRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list pity: %w", err)
	}
	return keys, nil
}

// Close closes the redis client.
func (s *Store) Close() error {
	return s.client.Close()
}
