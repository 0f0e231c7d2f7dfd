package ports

import (
	"context"
	"time"

	"github.com/viralforge/profiles-service/internal/domain"
)

// AuthClaims is the verified payload of an inbound bearer token. It lives
// for one request and is never persisted.
type AuthClaims struct {
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
	Extra     map[string]any
}

type TokenVerifier interface {
	Verify(raw string) (AuthClaims, error)
}

type IdentityResolver interface {
	ResolveIdentity(ctx context.Context, subject string) (domain.UserIdentity, error)
}
