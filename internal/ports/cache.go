package ports

import (
	"context"
	"time"
)

// Cache returns ("", nil) on a miss. SetNX only writes when the key is
// absent and reports whether it did.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	SetNX(ctx context.Context, key string, value string, ttl time.Duration) (bool, error)
	Delete(ctx context.Context, keys ...string) error
}
