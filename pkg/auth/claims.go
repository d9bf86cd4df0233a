// Package auth provides JWT-based authentication for critterdex. Tokens are
// issued at login and validated on every authenticated request; the subject
// claim carries the user's uuid.
package auth

import (
	"context"

	"github.com/golang-jwt/jwt/v5"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	// ClaimsKey is the context key for storing JWT claims.
	ClaimsKey contextKey = "claims"
)

// Claims is the JWT claims structure for issued access tokens. It embeds
// RegisteredClaims for the standard fields (sub, iss, exp) and adds the
// user's display name for convenience.
type Claims struct {
	jwt.RegisteredClaims
	Name string `json:"name,omitempty"`
}

// GetClaims retrieves JWT claims from the request context.
// Returns nil and false if claims are not present.
func GetClaims(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(ClaimsKey).(*Claims)
	return claims, ok
}
