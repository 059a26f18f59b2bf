// Package authctx carries the authenticated operator through request
// contexts.
package authctx

import (
	"context"

	"github.com/dcorpo/intel/internal/auth"
)

type identityKey struct{}

// WithIdentity attaches the operator identity to ctx.
func WithIdentity(ctx context.Context, identity auth.Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, identity)
}

// IdentityFrom returns the operator identity attached to ctx.
func IdentityFrom(ctx context.Context) (auth.Identity, bool) {
	if ctx == nil {
		return auth.Identity{}, false
	}
	identity, ok := ctx.Value(identityKey{}).(auth.Identity)
	return identity, ok
}
