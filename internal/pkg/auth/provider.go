package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/patisserie-shop/storefront/internal/domain/model"
)

var ErrInvalidToken = errors.New("invalid auth token")

// Identity describes the viewer as asserted by the bearer token's claims.
type Identity struct {
	UserID   int64
	Username string
	Role     model.Role
}

// Provider exposes the session credential and the identity derived from it.
// It gates which fetches are attempted at all: non-admin viewers never hit
// admin-only reads just to collect a predictable 403.
type Provider interface {
	Token() string
	Identity() (Identity, error)
}

// tokenClaims mirrors the claim set issued by the auth service.
type tokenClaims struct {
	UserID int64    `json:"userId"`
	Roles  []string `json:"roles"`
	jwt.RegisteredClaims
}

// TokenProvider derives the identity from a configured bearer token. The
// order API remains the verifying party; the claims are decoded without
// signature verification here, the same way a browser client reads its own
// token payload, and only steer which requests are made.
type TokenProvider struct {
	token string
}

// NewTokenProvider wraps the session's bearer token.
func NewTokenProvider(token string) *TokenProvider {
	return &TokenProvider{token: token}
}

// Token returns the raw bearer token, empty when anonymous.
func (p *TokenProvider) Token() string {
	return p.token
}

// Identity decodes the token claims. An absent or expired token yields
// ErrInvalidToken so callers can surface "session expired".
func (p *TokenProvider) Identity() (Identity, error) {
	if p.token == "" {
		return Identity{}, ErrInvalidToken
	}

	claims := &tokenClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(p.token, claims); err != nil {
		return Identity{}, ErrInvalidToken
	}

	if claims.ExpiresAt != nil && claims.ExpiresAt.Before(time.Now()) {
		return Identity{}, ErrInvalidToken
	}

	identity := Identity{
		UserID:   claims.UserID,
		Username: claims.Subject,
		Role:     model.RoleClient,
	}
	for _, role := range claims.Roles {
		if role == "ADMIN" || role == "ROLE_ADMIN" {
			identity.Role = model.RoleAdmin
			break
		}
	}
	return identity, nil
}
