package repositories

import (
	"context"
	"time"
)

// ReleaseFunc releases a lock obtained from a JobLocker.
type ReleaseFunc func(ctx context.Context) error

// JobLocker guards a scheduled job so only one instance runs it at a time.
type JobLocker interface {
	// TryLock attempts to take key for ttl. acquired is false when someone else holds it.
	TryLock(ctx context.Context, key string, ttl time.Duration) (release ReleaseFunc, acquired bool, err error)
}
