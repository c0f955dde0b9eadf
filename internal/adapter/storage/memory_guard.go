package storage

import (
	"context"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/rl1809/invenedu/internal/port"
)

const defaultGuardSize = 10000

// MemoryGuard is the single-instance fallback when no Redis is configured.
// The oldest keys are evicted once size is reached.
type MemoryGuard struct {
	mu   sync.Mutex
	keys *expirable.LRU[string, struct{}]
}

var _ port.RequestGuard = (*MemoryGuard)(nil)

func NewMemoryGuard(size int, ttl time.Duration) *MemoryGuard {
	if size <= 0 {
		size = defaultGuardSize
	}
	return &MemoryGuard{keys: expirable.NewLRU[string, struct{}](size, nil, ttl)}
}

func (g *MemoryGuard) Claim(_ context.Context, key string) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.keys.Get(key); ok {
		return false, nil
	}
	g.keys.Add(key, struct{}{})
	return true, nil
}

func (g *MemoryGuard) Release(_ context.Context, key string) error {
	g.keys.Remove(key)
	return nil
}
