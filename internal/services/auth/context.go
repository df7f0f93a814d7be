package auth

import "context"

type identityKey struct{}

// Identity is the caller as resolved by the auth middleware. Handlers take
// the user id from here, never from request payloads.
type Identity struct {
	UserID    int64
	SessionID string
	Role      string
}

func WithIdentity(ctx context.Context, identity Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, identity)
}

func IdentityFromContext(ctx context.Context) (Identity, bool) {
	identity, ok := ctx.Value(identityKey{}).(Identity)
	return identity, ok
}
