package middleware

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"

	"github.com/zojize/exusiai-bot/pkg/ports"
)

// ErrEmptySecret is returned when a pseudonym secret is empty.
var ErrEmptySecret = errors.New("pseudonym secret must not be empty")

// PseudonymConfig holds the secrets used to hash user IDs.
type PseudonymConfig struct {
	// ActiveSecret hashes every key written from now on.
	ActiveSecret []byte

	// FallbackSecrets are tried when a counter is missing under the active
	// secret. A counter found this way is moved to the active secret.
	FallbackSecrets [][]byte
}

type pseudonymMiddleware struct {
	next   ports.PityStore
	config PseudonymConfig
}

// NewPseudonymMiddleware creates a middleware that replaces the user part of
// every pity key with an HMAC-SHA256 digest, so chat account IDs never reach
// the store. The banner part is kept readable. List returns hashed keys.
func NewPseudonymMiddleware(config PseudonymConfig) (Middleware, error) {
	if len(config.ActiveSecret) == 0 {
		return nil, ErrEmptySecret
	}
	for _, s := range config.FallbackSecrets {
		if len(s) == 0 {
			return nil, ErrEmptySecret
		}
	}
	return func(next ports.PityStore) ports.PityStore {
		return &pseudonymMiddleware{next: next, config: config}
	}, nil
}

// Pseudonymize hashes the user part of key with secret. Keys without a
// banner separator are hashed whole.
func Pseudonymize(secret []byte, key string) string {
	banner, user, ok := strings.Cut(key, ":")
	if !ok {
		return digest(secret, key)
	}
	return banner + ":" + digest(secret, user)
}

func digest(secret []byte, s string) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(s))
	// Truncated to 128 bits.
	return hex.EncodeToString(mac.Sum(nil)[:16])
}

func (m *pseudonymMiddleware) Get(ctx context.Context, key string) (int, error) {
	active := Pseudonymize(m.config.ActiveSecret, key)
	n, err := m.next.Get(ctx, active)
	if err != nil || n != 0 {
		return n, err
	}

	for _, secret := range m.config.FallbackSecrets {
		old := Pseudonymize(secret, key)
		n, err := m.next.Get(ctx, old)
		if err != nil {
			return 0, err
		}
		if n == 0 {
			continue
		}
		if err := m.next.Set(ctx, active, n); err != nil {
			return 0, err
		}
		if err := m.next.Delete(ctx, old); err != nil {
			return 0, err
		}
		return n, nil
	}
	return 0, nil
}

func (m *pseudonymMiddleware) Set(ctx context.Context, key string, n int) error {
	return m.next.Set(ctx, Pseudonymize(m.config.ActiveSecret, key), n)
}

func (m *pseudonymMiddleware) Delete(ctx context.Context, key string) error {
	if err := m.next.Delete(ctx, Pseudonymize(m.config.ActiveSecret, key)); err != nil {
		return err
	}
	for _, secret := range m.config.FallbackSecrets {
		if err := m.next.Delete(ctx, Pseudonymize(secret, key)); err != nil {
			return err
		}
	}
	return nil
}

func (m *pseudonymMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}
