package services

import (
	"context"

	"github.com/google/uuid"

	"merchandising-service/internal/models"
)

// Identity is the authenticated caller as established by the auth middleware.
type Identity struct {
	UserID uuid.UUID
	Role   models.UserRole
}

type identityCtxKey struct{}

// WithIdentity attaches the authenticated identity to a request context.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityCtxKey{}, id)
}

// IdentityFromContext extracts the authenticated identity, if any.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityCtxKey{}).(Identity)
	return id, ok
}

// IdentityGate resolves the acting user and checks role. Every mutating
// engine operation calls it as its first precondition.
type IdentityGate interface {
	ResolveActingUser(ctx context.Context, required models.UserRole) (uuid.UUID, *Error)
}

type userGate struct {
	users UserStore
}

// NewIdentityGate returns a gate that trusts the request identity claims and
// confirms the account against the user store.
func NewIdentityGate(users UserStore) IdentityGate {
	return &userGate{users: users}
}

func (g *userGate) ResolveActingUser(ctx context.Context, required models.UserRole) (uuid.UUID, *Error) {
	id, ok := IdentityFromContext(ctx)
	if !ok {
		return uuid.Nil, NewError(CodeUnauthorized, "authentication required")
	}
	if id.Role != required {
		return uuid.Nil, NewError(CodeForbidden, "insufficient role")
	}
	user, err := g.users.GetUserByID(ctx, id.UserID)
	if err != nil {
		return uuid.Nil, Internal(err)
	}
	if user == nil || user.Status != models.UserStatusActive || user.Role != required {
		return uuid.Nil, NewError(CodeForbidden, "insufficient role")
	}
	return user.ID, nil
}
