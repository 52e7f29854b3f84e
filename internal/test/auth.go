package test

import (
	pkgAuth "github.com/patisserie-shop/storefront/internal/pkg/auth"
)

// ProviderStub implements the auth provider contract with fixed values.
type ProviderStub struct {
	TokenVal    string
	IdentityVal pkgAuth.Identity
	IdentityErr error
}

// Token returns the configured bearer token.
func (s ProviderStub) Token() string { return s.TokenVal }

// Identity returns the configured identity or error.
func (s ProviderStub) Identity() (pkgAuth.Identity, error) {
	if s.IdentityErr != nil {
		return pkgAuth.Identity{}, s.IdentityErr
	}
	return s.IdentityVal, nil
}

var _ pkgAuth.Provider = ProviderStub{}
