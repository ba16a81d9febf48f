package shared

import (
	"context"
	"time"
)

// IdempotencyStore remembers client-supplied idempotency keys so a retried
// request replays the first outcome instead of repeating its side effect.
//
// A key moves from absent to reserved (Reserve) and then either to completed
// with a result (Complete) or back to absent (Release).
type IdempotencyStore interface {
	// Reserve claims key for ttl. It returns false when the key is already reserved or completed.
	Reserve(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// Complete stores the result for a reserved key
	Complete(ctx context.Context, key, result string, ttl time.Duration) error

	// Result returns the stored result. done is false while the key is only reserved
	// and found is false when the key is unknown.
	Result(ctx context.Context, key string) (result string, done bool, found bool, err error)

	// Release forgets the key so the request can be retried
	Release(ctx context.Context, key string) error
}
