package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/viralforge/profiles-service/internal/domain"
	"github.com/viralforge/profiles-service/internal/ports"
)

// Authenticate verifies a raw Authorization header. An absent header is
// ErrMissingToken; anything that is not a verifiable "Bearer <token>" with
// a subject is ErrInvalidToken.
func (s *Service) Authenticate(ctx context.Context, rawHeader string) (ports.AuthClaims, error) {
	if strings.TrimSpace(rawHeader) == "" {
		s.logger().WarnContext(ctx, "authorization token missing", "operation", "authenticate", "outcome", "failure")
		return ports.AuthClaims{}, domain.ErrMissingToken
	}
	token, ok := bearerToken(rawHeader)
	if !ok {
		s.logger().WarnContext(ctx, "malformed authorization header", "operation", "authenticate", "outcome", "failure")
		return ports.AuthClaims{}, domain.ErrInvalidToken
	}
	claims, err := s.tokens.Verify(token)
	if err != nil {
		s.logger().WarnContext(ctx, "token verification failed",
			"operation", "authenticate",
			"outcome", "failure",
			"error", err,
		)
		if errors.Is(err, domain.ErrInvalidToken) {
			return ports.AuthClaims{}, err
		}
		return ports.AuthClaims{}, fmt.Errorf("%w: %v", domain.ErrInvalidToken, err)
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return ports.AuthClaims{}, fmt.Errorf("%w: subject claim missing", domain.ErrInvalidToken)
	}
	return claims, nil
}

func bearerToken(header string) (string, bool) {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, prefix))
	if token == "" {
		return "", false
	}
	return token, true
}

// resolveEmail maps a token subject to its authoritative email. Every call
// is a fresh lookup.
func (s *Service) resolveEmail(ctx context.Context, subject string) (string, error) {
	identity, err := s.identities.ResolveIdentity(ctx, subject)
	if err != nil {
		s.logger().ErrorContext(ctx, "identity resolution failed",
			"operation", "resolve_identity",
			"outcome", "failure",
			"subject", subject,
			"error", err,
		)
		if errors.Is(err, domain.ErrIdentityTimeout) || errors.Is(err, domain.ErrIdentityUnavailable) {
			return "", err
		}
		return "", fmt.Errorf("%w: %v", domain.ErrIdentityUnavailable, err)
	}
	email := domain.NormalizeEmail(identity.Email)
	if email == "" {
		return "", fmt.Errorf("%w: users service returned no email", domain.ErrIdentityUnavailable)
	}
	s.logger().InfoContext(ctx, "identity resolved",
		"operation", "resolve_identity",
		"outcome", "success",
		"subject", subject,
		"email", email,
	)
	return email, nil
}
