package ports

import "context"

// PityStore persists pity counters: the number of pulls a user has made on a
// banner since last hitting the pity rarity.
type PityStore interface {
	// Get returns the counter for key. A missing key reads as 0.
	Get(ctx context.Context, key string) (int, error)

	// Set stores the counter for key.
	Set(ctx context.Context, key string, n int) error

	// Delete removes the counter for key.
	Delete(ctx context.Context, key string) error

	// List returns the keys with a stored counter.
	List(ctx context.Context) ([]string, error)
}

// PityKey builds the store key for a user's counter on a banner.
func PityKey(banner, user string) string {
	return banner + ":" + user
}
