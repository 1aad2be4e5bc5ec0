package lock

import (
	"context"
	"sync"
	"time"

	portsrepo "github.com/SscSPs/credit_ledger/internal/core/ports/repositories"
)

// LocalLocker is the single-instance JobLocker used when no Redis is configured.
// Locks expire after their ttl like the Redis ones.
type LocalLocker struct {
	mu    sync.Mutex
	held  map[string]time.Time
	clock func() time.Time
}

func NewLocalLocker() *LocalLocker {
	return &LocalLocker{
		held:  make(map[string]time.Time),
		clock: time.Now,
	}
}

var _ portsrepo.JobLocker = (*LocalLocker)(nil)

func (l *LocalLocker) TryLock(_ context.Context, key string, ttl time.Duration) (portsrepo.ReleaseFunc, bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock()
	if expiry, ok := l.held[key]; ok && now.Before(expiry) {
		return nil, false, nil
	}
	expiry := now.Add(ttl)
	l.held[key] = expiry

	release := func(context.Context) error {
		l.mu.Lock()
		defer l.mu.Unlock()
		// A lock that expired and was re-taken belongs to someone else now.
		if l.held[key].Equal(expiry) {
			delete(l.held, key)
		}
		return nil
	}
	return release, true, nil
}
