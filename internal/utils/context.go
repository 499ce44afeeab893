package utils

import "context"

type contextKey string

const usernameKey contextKey = "username"

// SetUserContext sets the authenticated username into context (called by middleware)
func SetUserContext(ctx context.Context, username string) context.Context {
	return context.WithValue(ctx, usernameKey, username)
}

// GetUsernameFromContext retrieves the authenticated username safely
func GetUsernameFromContext(ctx context.Context) (string, bool) {
	username, ok := ctx.Value(usernameKey).(string)
	return username, ok
}
