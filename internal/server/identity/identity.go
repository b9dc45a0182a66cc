// Package identity carries the authenticated username through a request's
// context.Context. The core never creates or expires sessions itself: an
// external login handler resolves a session to a username and attaches it
// here, and the authorization guard reads it back.
package identity

import "context"

type ctxKey string

const usernameKey ctxKey = "username"

// WithUsername returns a child context carrying the authenticated username.
func WithUsername(ctx context.Context, username string) context.Context {
	return context.WithValue(ctx, usernameKey, username)
}

// Username returns the authenticated username for this request, if any.
func Username(ctx context.Context) (string, bool) {
	username, ok := ctx.Value(usernameKey).(string)
	if !ok || username == "" {
		return "", false
	}
	return username, true
}
