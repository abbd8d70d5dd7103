package auth

import "context"

// Identity is the authenticated caller of a request.
type Identity struct {
	UserID  uint
	TokenID string
}

type identityKey struct{}

// WithIdentity stores id in ctx. Called by the Auth middleware.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// FromCtx returns the identity stored by WithIdentity.
func FromCtx(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}
