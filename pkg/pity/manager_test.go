package pity_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zojize/exusiai-bot/pkg/adapters/memory"
	"github.com/zojize/exusiai-bot/pkg/adapters/redis"
	"github.com/zojize/exusiai-bot/pkg/pity"
)

// SlowStore simulates latency to provoke lost updates if locking is missing.
type SlowStore struct {
	*memory.Store
}

func (s SlowStore) Get(ctx context.Context, key string) (int, error) {
	time.Sleep(time.Millisecond)
	return s.Store.Get(ctx, key)
}

func TestManager_Update_Serialized(t *testing.T) {
	store := SlowStore{memory.NewStore()}
	manager := pity.NewManager(store)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := manager.Update(ctx, "standard:alice", func(n int) (int, error) { return n + 1, nil })
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	n, err := manager.Get(ctx, "standard:alice")
	require.NoError(t, err)
	assert.Equal(t, 20, n, "no increment may be lost")
}

func TestManager_Update_Error(t *testing.T) {
	store := memory.NewStore()
	manager := pity.NewManager(store)
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, "k", 3))

	boom := errors.New("boom")
	err := manager.Update(ctx, "k", func(n int) (int, error) { return 99, boom })
	assert.ErrorIs(t, err, boom)

	n, err := manager.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, 3, n, "failed updates are not saved")
}

func TestManager_Reset(t *testing.T) {
	manager := pity.NewManager(memory.NewStore())
	ctx := context.Background()

	require.NoError(t, manager.Update(ctx, "k", func(int) (int, error) { return 10, nil }))
	require.NoError(t, manager.Reset(ctx, "k"))

	keys, err := manager.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestManager_DistributedLock(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	defer client.Close()

	store := redis.NewFromClient(client)
	manager := pity.NewManager(store,
		pity.WithLocker(redis.NewLocker(client, "test:")),
		pity.WithLockTTL(5*time.Second),
	)
	ctx := context.Background()

	err = manager.Update(ctx, "standard:alice", func(n int) (int, error) {
		assert.True(t, mr.Exists("test:lock:standard:alice"), "distributed lock is held during the update")
		return n + 1, nil
	})
	require.NoError(t, err)
	assert.False(t, mr.Exists("test:lock:standard:alice"))

	n, err := store.Get(ctx, "standard:alice")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
