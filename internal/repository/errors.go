// Package repository implements SQL persistence for users and roles.
// Sentinel errors let services and handlers distinguish the failure
// classes the mutation protocol cares about: uniqueness conflicts found
// by pre-checks and the referential rejection of a role delete.
// Everything else surfaces as a raw store error.
package repository

import "errors"

// ErrLoginExists is returned by the login uniqueness pre-check.
var ErrLoginExists = errors.New("login already exists")

// ErrEmailExists is returned by the email uniqueness pre-check.
var ErrEmailExists = errors.New("email already exists")

// ErrRoleNameExists is returned by the role-name uniqueness pre-check.
var ErrRoleNameExists = errors.New("role name already exists")

// ErrRoleInUse is returned when the store rejects a role delete because
// users still reference it. The role row and its users are left
// unchanged.
var ErrRoleInUse = errors.New("role is in use")
