package auth

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// GetUserID extracts the user id from JWT claims in the context.
// Returns uuid.Nil if not authenticated or the subject is not a uuid.
func GetUserID(ctx context.Context) uuid.UUID {
	claims, ok := GetClaims(ctx)
	if !ok || claims == nil {
		return uuid.Nil
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil
	}
	return userID
}

// RequireUserID extracts the user id from context and returns an error if it
// is missing or invalid. Use this when the operation needs an authenticated
// user.
func RequireUserID(ctx context.Context) (uuid.UUID, error) {
	userID := GetUserID(ctx)
	if userID == uuid.Nil {
		return uuid.Nil, fmt.Errorf("user ID not found in context")
	}
	return userID, nil
}
