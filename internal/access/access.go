// AngelaMos | 2026
// access.go

// Package access holds the caller identity resolved from a session and the
// per-operation policy tables that decide what each role may do.
package access

import (
	"context"
)

type Role string

const (
	RoleSeller Role = "seller"
	RoleBuyer  Role = "buyer"
	RoleAdmin  Role = "admin"
)

var Roles = []Role{RoleSeller, RoleBuyer, RoleAdmin}

func (r Role) Valid() bool {
	switch r {
	case RoleSeller, RoleBuyer, RoleAdmin:
		return true
	}
	return false
}

func (r Role) String() string {
	return string(r)
}

// Identity is the claim embedded in a session token.
type Identity struct {
	UserID string
	Role   Role
	// TokenID and ExpiresAt let logout revoke the exact session.
	TokenID   string
	ExpiresAt int64
}

func (i *Identity) IsAdmin() bool {
	return i != nil && i.Role == RoleAdmin
}

// Owns reports whether the identity is the given user.
func (i *Identity) Owns(userID string) bool {
	return i != nil && i.UserID != "" && i.UserID == userID
}

type identityKey struct{}

func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// FromContext returns the caller identity or nil when the request carries
// no valid session.
func FromContext(ctx context.Context) *Identity {
	id, _ := ctx.Value(identityKey{}).(*Identity)
	return id
}
