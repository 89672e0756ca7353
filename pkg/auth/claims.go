// Package auth verifies identity-provider bearer tokens for draft-engine.
// Tokens are RS256 JWTs validated against the provider's JWKS endpoints.
package auth

import (
	"context"

	"github.com/golang-jwt/jwt/v5"

	"github.com/draftforge/draft-engine/pkg/models"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	// ClaimsKey is the context key for storing verified token claims.
	ClaimsKey contextKey = "claims"
	// UserKey is the context key for storing the resolved local user.
	UserKey contextKey = "user"
)

// Claims represents the identity-provider token claims.
// It embeds RegisteredClaims for standard JWT fields (sub, iss, exp, etc.).
// Subject carries the provider's stable user identifier.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email,omitempty"`
}

// GetClaims retrieves verified token claims from the request context.
// Returns nil and false if claims are not present.
func GetClaims(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(ClaimsKey).(*Claims)
	return claims, ok
}

// GetUser retrieves the resolved local user from the request context.
// Returns nil and false if no user is present.
func GetUser(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(UserKey).(*models.User)
	return user, ok
}
