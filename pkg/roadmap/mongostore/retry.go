package mongostore

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
)

// Lookup retry policy.
const (
	lookupAttempts = 3
	DefaultBackoff = 500 * time.Millisecond
)

// transient reports whether a failed lookup may succeed if repeated.
func transient(err error) bool {
	return mongo.IsNetworkError(err) || mongo.IsTimeout(err)
}

// withRetry runs lookup up to lookupAttempts times while it fails
// transiently. The wait starts at backoff and doubles after each attempt.
func withRetry(ctx context.Context, backoff time.Duration, lookup func() error) error {
	var err error
	for i := 0; i < lookupAttempts; i++ {
		if err = lookup(); err == nil || !transient(err) {
			return err
		}
		if i == lookupAttempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
			backoff *= 2
		}
	}
	return err
}
