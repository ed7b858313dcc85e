// Package identity resolves the acting user for a call. The HTTP middleware
// stashes the authenticated user in the request context; background
// components hold a Provider bound to a fixed identity.
package identity

import "context"

type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// Provider reports the current identity, if any. Read paths treat a missing
// identity as an empty result; write paths treat it as a hard failure.
type Provider interface {
	Current(ctx context.Context) (*Identity, bool)
}

type contextKey struct{}

func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

func FromContext(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(contextKey{}).(*Identity)
	if !ok || id == nil || id.ID == "" {
		return nil, false
	}
	return id, true
}

// ContextProvider resolves identity from the call's context, as populated by
// the auth middleware.
type ContextProvider struct{}

func (ContextProvider) Current(ctx context.Context) (*Identity, bool) {
	return FromContext(ctx)
}

// StaticProvider always returns the same identity. Used by per-user
// background components such as the realtime manager.
type StaticProvider struct {
	Identity *Identity
}

func (p StaticProvider) Current(ctx context.Context) (*Identity, bool) {
	if p.Identity == nil || p.Identity.ID == "" {
		return nil, false
	}
	return p.Identity, true
}
