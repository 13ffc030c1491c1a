package pity

import (
	"context"
	"fmt"
	"testing"

	"github.com/zojize/exusiai-bot/pkg/adapters/memory"
)

func TestManager_LockLifecycle(t *testing.T) {
	mgr := NewManager(memory.NewStore())
	ctx := context.Background()
	count := 10000

	for i := 0; i < count; i++ {
		key := fmt.Sprintf("standard:user-%d", i)
		_ = mgr.Update(ctx, key, func(n int) (int, error) { return n + 1, nil })
		_ = mgr.Reset(ctx, key)
	}

	if lockCount := len(mgr.locks); lockCount != 0 {
		t.Errorf("Memory Leak Detected: %d locks remaining in memory after Reset", lockCount)
	}
}
