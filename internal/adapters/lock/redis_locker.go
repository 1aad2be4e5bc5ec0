package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	portsrepo "github.com/SscSPs/credit_ledger/internal/core/ports/repositories"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// releaseScript deletes the key only while it still holds our token, so an
// expired lock taken over by another instance is left alone.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLocker takes job locks with SET NX PX so that only one instance in a
// deployment runs a scheduled job.
type RedisLocker struct {
	client   redis.Cmdable
	prefix   string
	newToken func() string
}

// NewRedisLocker creates a JobLocker backed by client. Keys are namespaced with "credit-ledger:".
func NewRedisLocker(client redis.Cmdable) *RedisLocker {
	return &RedisLocker{
		client:   client,
		prefix:   "credit-ledger:",
		newToken: uuid.NewString,
	}
}

var _ portsrepo.JobLocker = (*RedisLocker)(nil)

func (l *RedisLocker) TryLock(ctx context.Context, key string, ttl time.Duration) (portsrepo.ReleaseFunc, bool, error) {
	fullKey := l.prefix + key
	token := l.newToken()

	acquired, err := l.client.SetNX(ctx, fullKey, token, ttl).Result()
	if err != nil {
		return nil, false, fmt.Errorf("failed to acquire lock %s: %w", fullKey, err)
	}
	if !acquired {
		return nil, false, nil
	}

	release := func(ctx context.Context) error {
		if err := releaseScript.Run(ctx, l.client, []string{fullKey}, token).Err(); err != nil && !errors.Is(err, redis.Nil) {
			return fmt.Errorf("failed to release lock %s: %w", fullKey, err)
		}
		return nil
	}
	return release, true, nil
}
