package rate

import (
	"context"
	"time"
)

// Store applies one check-and-increment step for key within a fixed window and
// reports whether the key is limited.
type Store interface {
	Hit(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// Config holds the budget of a single limiter.
type Config struct {
	Prefix string
	Limit  int
	Window time.Duration
}

// Limiter enforces one fixed-window budget on top of a [Store].
type Limiter struct {
	store  Store
	config Config
}

// New creates a [Limiter] over the given store.
func New(store Store, cfg Config) *Limiter {
	return &Limiter{
		store:  store,
		config: cfg,
	}
}

// Limited reports whether this hit for key exceeds the budget. The hit is
// recorded when it is allowed.
func (l *Limiter) Limited(ctx context.Context, key string) (bool, error) {
	if l == nil || l.store == nil || l.config.Limit <= 0 {
		return false, nil
	}
	return l.store.Hit(ctx, l.key(key), l.config.Limit, l.config.Window)
}

func (l *Limiter) key(key string) string {
	if l.config.Prefix == "" {
		return key
	}
	return l.config.Prefix + ":" + key
}
