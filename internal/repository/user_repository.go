package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/admincontrol/user-admin/internal/model"
)

type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userColumns = `u.id, u.login, u.password_hash, u.first_name, u.last_name,
 u.email, u.phone_number, u.address, u.gender, u.recovery_keyword,
 u.is_active, u.created_at, u.updated_at, u.role_id, r.name`

const selectUser = `SELECT ` + userColumns + `
 FROM users u JOIN roles r ON r.id = u.role_id`

func scanUser(row interface{ Scan(...any) error }) (model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Login, &u.PasswordHash, &u.FirstName, &u.LastName,
		&u.Email, &u.PhoneNumber, &u.Address, &u.Gender, &u.RecoveryKeyword,
		&u.IsActive, &u.CreatedAt, &u.UpdatedAt, &u.RoleID, &u.RoleName)
	return u, err
}

// List returns every user joined with its role's display name, in store
// order. Consumers re-fetch the full list after any mutation.
func (r *UserRepo) List(ctx context.Context) ([]model.User, error) {
	rows, err := r.DB.QueryContext(ctx, selectUser)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]model.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// GetByID fetches one user with its role name. Returns sql.ErrNoRows
// when the id does not resolve.
func (r *UserRepo) GetByID(ctx context.Context, id int64) (model.User, error) {
	return scanUser(r.DB.QueryRowContext(ctx, selectUser+" WHERE u.id = ? LIMIT 1", id))
}

// FindByCredentials looks up a user whose stored login and stored digest
// both match exactly. Returns sql.ErrNoRows when no row matches; the
// caller must not distinguish a wrong login from a wrong password.
func (r *UserRepo) FindByCredentials(ctx context.Context, login, digest string) (model.User, error) {
	return scanUser(r.DB.QueryRowContext(ctx,
		selectUser+" WHERE u.login = ? AND u.password_hash = ? LIMIT 1", login, digest))
}

// LoginExists reports whether any user already holds the login.
func (r *UserRepo) LoginExists(ctx context.Context, login string) (bool, error) {
	var n int
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM users WHERE login = ?", login).Scan(&n)
	return n > 0, err
}

// EmailExists reports whether any user other than excludeID already
// holds the email. Pass excludeID 0 on create to consider every row.
func (r *UserRepo) EmailExists(ctx context.Context, email string, excludeID int64) (bool, error) {
	var n int
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM users WHERE email = ? AND id <> ?", email, excludeID).Scan(&n)
	return n > 0, err
}

// Create inserts a user with both timestamps set to now and returns the
// persisted record joined with its role name. The digest must already be
// computed; this layer never sees cleartext passwords.
func (r *UserRepo) Create(ctx context.Context, u model.User) (model.User, error) {
	now := time.Now().UTC()
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO users (login, password_hash, first_name, last_name, email,
		 phone_number, address, gender, is_active, created_at, updated_at, role_id)
		 VALUES (?,?,?,?,?,?,?,?,?,?,?,?)`,
		u.Login, u.PasswordHash, u.FirstName, u.LastName, u.Email,
		u.PhoneNumber, u.Address, u.Gender, u.IsActive, now, now, u.RoleID)
	if err != nil {
		return model.User{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.User{}, err
	}
	return r.GetByID(ctx, id)
}

// Update rewrites the editable fields of one user and bumps updated_at.
// Login and password hash are not touched. Returns sql.ErrNoRows when
// the id does not resolve.
func (r *UserRepo) Update(ctx context.Context, u model.User) (model.User, error) {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE users SET first_name = ?, last_name = ?, email = ?,
		 phone_number = ?, address = ?, gender = ?, is_active = ?,
		 role_id = ?, updated_at = ? WHERE id = ?`,
		u.FirstName, u.LastName, u.Email,
		u.PhoneNumber, u.Address, u.Gender, u.IsActive,
		u.RoleID, time.Now().UTC(), u.ID)
	if err != nil {
		return model.User{}, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		// Either missing or a no-op write; disambiguate with a read.
		if _, getErr := r.GetByID(ctx, u.ID); getErr != nil {
			return model.User{}, getErr
		}
	}
	return r.GetByID(ctx, u.ID)
}

// Delete removes a user unconditionally. Deleting an absent id is not an
// error.
func (r *UserRepo) Delete(ctx context.Context, id int64) error {
	_, err := r.DB.ExecContext(ctx, "DELETE FROM users WHERE id = ?", id)
	return err
}
