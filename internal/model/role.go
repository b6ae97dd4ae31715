package model

import "time"

// Gated role names. Any role may exist as data, but only these two are
// treated specially by access control.
const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
)

// Role represents a row in the `roles` table. Role names act as
// permission tiers for users referencing them.
type Role struct {
	ID        int64     // roles.id
	Name      string    // roles.name, unique
	CreatedAt time.Time // roles.created_at
	UpdatedAt time.Time // roles.updated_at
}
