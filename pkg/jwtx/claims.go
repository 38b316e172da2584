package jwtx

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims are the identity-provider token claims this service cares about.
// The provider owns authentication entirely; we only read the subject plus
// a couple of profile hints used when a new member registers.
type Claims struct {
	jwt.RegisteredClaims

	// Email as asserted by the identity provider.
	Email string `json:"email,omitempty"`

	// Name is the display name asserted by the identity provider.
	Name string `json:"name,omitempty"`
}

// ValidateIssuer checks if the issuer matches expected value.
func (c *Claims) ValidateIssuer(expected string) error {
	if expected == "" {
		return nil // nothing to enforce
	}

	if c.Issuer != expected {
		return ErrIssuer
	}

	return nil
}

// ValidateExpiry ensures the token hasn't expired (exp) and isn't before nbf.
func (c *Claims) ValidateExpiry() error {
	now := time.Now().UTC()

	if c.ExpiresAt != nil && now.After(c.ExpiresAt.Time) {
		return ErrExpired
	}
	if c.NotBefore != nil && now.Before(c.NotBefore.Time) {
		return ErrNotYetValid
	}

	return nil
}
