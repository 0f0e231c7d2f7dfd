package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/viralforge/profiles-service/internal/domain"
	"github.com/viralforge/profiles-service/internal/ports"
)

// HMACVerifier checks HS256 tokens issued by the Users service against the
// shared secret. It only verifies; issuing tokens is not this service's job.
type HMACVerifier struct {
	secret []byte
	leeway time.Duration
}

func NewHMACVerifier(secret string, leeway time.Duration) (*HMACVerifier, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is required")
	}
	return &HMACVerifier{secret: []byte(secret), leeway: leeway}, nil
}

func (v *HMACVerifier) Verify(raw string) (ports.AuthClaims, error) {
	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (any, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected signing method: %s", token.Method.Alg())
		}
		return v.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(v.leeway),
	)
	if err != nil {
		return ports.AuthClaims{}, fmt.Errorf("%w: %v", domain.ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return ports.AuthClaims{}, domain.ErrInvalidToken
	}

	subject, err := claims.GetSubject()
	if err != nil || subject == "" {
		return ports.AuthClaims{}, fmt.Errorf("%w: subject claim missing", domain.ErrInvalidToken)
	}

	out := ports.AuthClaims{Subject: subject, Extra: map[string]any{}}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		out.ExpiresAt = exp.Time.UTC()
	}
	if iat, err := claims.GetIssuedAt(); err == nil && iat != nil {
		out.IssuedAt = iat.Time.UTC()
	}
	for key, value := range claims {
		switch key {
		case "sub", "exp", "iat":
			continue
		}
		out.Extra[key] = value
	}
	return out, nil
}
