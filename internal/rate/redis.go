package rate

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// hitScript mirrors MemoryStore.Hit: a limited key is not incremented, and the
// TTL is set only on the first hit so the window stays fixed.
var hitScript = redis.NewScript(`
local current = tonumber(redis.call('GET', KEYS[1]) or '0')
if current >= tonumber(ARGV[1]) then
	return 1
end
current = redis.call('INCR', KEYS[1])
if current == 1 then
	redis.call('PEXPIRE', KEYS[1], ARGV[2])
end
return 0
`)

// RedisStore keeps counters in Redis so that every replica shares one budget
// per key.
type RedisStore struct {
	redis redis.UniversalClient
}

// NewRedisStore creates a store backed by the given client.
func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{redis: client}
}

// Hit implements [Store].
func (s *RedisStore) Hit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	ms := window.Milliseconds()
	if ms <= 0 {
		ms = 1
	}
	res, err := hitScript.Run(ctx, s.redis, []string{key}, limit, ms).Int()
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return res == 1, nil
}
