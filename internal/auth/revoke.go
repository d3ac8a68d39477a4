package auth

import (
	"context"
	"time"
)

const revokedPrefix = "auth:revoked:"

// RevocationStore is the subset of the Redis cache used to remember revoked
// token ids.
type RevocationStore interface {
	Exists(ctx context.Context, key string) (bool, error)
	SetIfNotExists(ctx context.Context, key, value string, ttl time.Duration) (bool, error)
}

// Revoker blacklists token ids until the token would have expired anyway.
type Revoker struct {
	store RevocationStore
	now   func() time.Time
}

func NewRevoker(store RevocationStore) *Revoker {
	return &Revoker{store: store, now: time.Now}
}

func (r *Revoker) Revoke(ctx context.Context, c *Claims) error {
	ttl := c.ExpiresAt.Sub(r.now())
	if ttl <= 0 {
		return nil
	}
	_, err := r.store.SetIfNotExists(ctx, revokedPrefix+c.JTI, "1", ttl)
	return err
}

func (r *Revoker) IsRevoked(ctx context.Context, c *Claims) (bool, error) {
	return r.store.Exists(ctx, revokedPrefix+c.JTI)
}
