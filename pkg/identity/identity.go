// Package identity carries the authenticated caller through a request context.
package identity

import (
	"context"

	"hotelbooking/pkg/model"
)

type Identity struct {
	UserID string
	Email  string
	Role   model.Role
}

func FromUser(u *model.User) *Identity {
	return &Identity{UserID: u.ID, Email: u.Email, Role: u.Role}
}

// HasAuthority reports whether the identity holds one of roles.
func (i *Identity) HasAuthority(roles ...model.Role) bool {
	if i == nil {
		return false
	}
	for _, r := range roles {
		if i.Role == r {
			return true
		}
	}
	return false
}

type ctxKey struct{}

func NewContext(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromContext returns the identity attached by the authentication middleware, if any.
func FromContext(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(ctxKey{}).(*Identity)
	return id, ok && id != nil
}
