// Package auth, as part of the authentication module.
// This file, `guard.go`, is the authorization guard. Protected operations call
// these functions explicitly at their start and act on the returned error;
// there is no decorator or hidden control-flow jump. The guard only decides;
// it never mutates anything.
package auth

import (
	"context"

	"github.com/user/feedbackboard-go/apperror"
)

// CurrentUser returns the authenticated username bound to the request context,
// or an AuthError when the request carries no established session.
func CurrentUser(ctx context.Context) (string, error) {
	username, ok := UsernameFromContext(ctx)
	if !ok {
		return "", apperror.NewAuthError("authentication required", nil)
	}
	return username, nil
}

// RequireOwnership rejects an operation unless the acting user is the owner of
// the resource. The comparison is strict string equality on usernames; there
// are no roles and no admin override.
func RequireOwnership(actor, owner string) error {
	if actor == "" {
		return apperror.NewAuthError("authentication required", nil)
	}
	if actor != owner {
		return apperror.NewUnauthorizedError("you don't have permission to access this resource", nil)
	}
	return nil
}

// RequireOwner combines CurrentUser and RequireOwnership for handlers that
// already hold a context: it resolves the acting user and checks ownership in
// one call.
func RequireOwner(ctx context.Context, owner string) (string, error) {
	actor, err := CurrentUser(ctx)
	if err != nil {
		return "", err
	}
	if err := RequireOwnership(actor, owner); err != nil {
		return "", err
	}
	return actor, nil
}
