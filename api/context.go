package api

import (
	"context"
	"errors"
)

type keyType string

const userIDKey keyType = "userID"

// ctxWithUserID adds the authenticated user's ID to the context
func ctxWithUserID(ctx context.Context, userID int) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// ctxGetUserID retrieves the authenticated user's ID from the context
func ctxGetUserID(ctx context.Context) (int, error) {
	ctxValue := ctx.Value(userIDKey)
	if ctxValue == nil {
		return 0, errors.New("user ID not found in context")
	}
	userID, ok := ctxValue.(int)
	if !ok {
		return 0, errors.New("user ID in context is not an int")
	}
	return userID, nil
}
