// Package auth, as part of the authentication module.
// This file, `context.go`, carries the authenticated username through the
// request's `context.Context`. The session middleware stores it once per
// request; handlers and the guard read it back.
package auth

import (
	"context"
)

// contextKey is a custom type for context keys. Using an unexported custom type
// prevents collisions with context keys defined in other packages.
type contextKey string

// usernameContextKey is the key under which the session username is stored.
const usernameContextKey contextKey = "auth_username"

// NewContextWithUsername returns a child context carrying the authenticated username.
func NewContextWithUsername(ctx context.Context, username string) context.Context {
	return context.WithValue(ctx, usernameContextKey, username)
}

// UsernameFromContext extracts the authenticated username from the context.
// The second return value reports whether a username was present.
func UsernameFromContext(ctx context.Context) (string, bool) {
	username, ok := ctx.Value(usernameContextKey).(string)
	return username, ok && username != ""
}
