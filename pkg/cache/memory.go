package cache

import (
	"context"
	"sync"
	"time"
)

type item[V any] struct {
	value     V
	expiresAt time.Time
}

func (i item[V]) expired(now time.Time) bool {
	return !i.expiresAt.IsZero() && !now.Before(i.expiresAt)
}

// Memory is a process-local cache. It is the fallback when no Redis URL
// is configured and the default in tests.
type Memory[V any] struct {
	mu         sync.Mutex
	items      map[string]item[V]
	defaultTTL time.Duration
	done       chan struct{}
	closed     bool
}

// MemoryOption configures Memory.
type MemoryOption func(*memoryConfig)

type memoryConfig struct {
	defaultTTL time.Duration
	sweepEvery time.Duration
}

// WithDefaultTTL sets the ttl used when Set is called with zero.
// Default: 1 hour.
func WithDefaultTTL(d time.Duration) MemoryOption {
	return func(c *memoryConfig) { c.defaultTTL = d }
}

// WithSweepInterval sets how often expired entries are purged.
// Zero disables the background sweep; expired entries are still
// hidden from Get.
func WithSweepInterval(d time.Duration) MemoryOption {
	return func(c *memoryConfig) { c.sweepEvery = d }
}

// NewMemory creates an in-memory cache.
func NewMemory[V any](opts ...MemoryOption) *Memory[V] {
	cfg := memoryConfig{defaultTTL: time.Hour, sweepEvery: time.Minute}
	for _, opt := range opts {
		opt(&cfg)
	}

	m := &Memory[V]{
		items:      make(map[string]item[V]),
		defaultTTL: cfg.defaultTTL,
		done:       make(chan struct{}),
	}
	if cfg.sweepEvery > 0 {
		go m.sweep(cfg.sweepEvery)
	}
	return m
}

func (m *Memory[V]) Get(_ context.Context, key string) (V, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	it, ok := m.items[key]
	if !ok || it.expired(time.Now()) {
		delete(m.items, key)
		var zero V
		return zero, ErrNotFound
	}
	return it.value, nil
}

func (m *Memory[V]) Set(_ context.Context, key string, value V, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}
	if ttl == 0 {
		ttl = m.defaultTTL
	}

	it := item[V]{value: value}
	if ttl > 0 {
		it.expiresAt = time.Now().Add(ttl)
	}
	m.items[key] = it
	return nil
}

func (m *Memory[V]) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}
	delete(m.items, key)
	return nil
}

func (m *Memory[V]) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}
	clear(m.items)
	return nil
}

// Close stops the sweeper. It is safe to call more than once.
func (m *Memory[V]) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.closed {
		m.closed = true
		close(m.done)
	}
	return nil
}

func (m *Memory[V]) sweep(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-m.done:
			return
		case now := <-ticker.C:
			m.mu.Lock()
			for k, it := range m.items {
				if it.expired(now) {
					delete(m.items, k)
				}
			}
			m.mu.Unlock()
		}
	}
}

var _ Cache[any] = (*Memory[any])(nil)
