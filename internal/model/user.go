package model

import "time"

// User mirrors the `users` table. PasswordHash holds the SHA-256 hex
// digest of the password; the cleartext form is never stored or compared.
// RoleName is populated by list/detail queries that join roles and is not
// itself a column of `users`.
type User struct {
	ID              int64     // users.id
	Login           string    // users.login, unique
	PasswordHash    string    // users.password_hash (sha256 hex)
	FirstName       string    // users.first_name
	LastName        string    // users.last_name
	Email           string    // users.email, unique
	PhoneNumber     *string   // users.phone_number (nullable)
	Address         *string   // users.address (nullable)
	Gender          *string   // users.gender (nullable)
	RecoveryKeyword *string   // users.recovery_keyword (nullable, unused by the app)
	IsActive        bool      // users.is_active
	CreatedAt       time.Time // users.created_at
	UpdatedAt       time.Time // users.updated_at
	RoleID          int64     // users.role_id (references roles.id)
	RoleName        string    // joined roles.name
}
