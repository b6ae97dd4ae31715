package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/admincontrol/user-admin/internal/model"
)

type RoleRepo struct{ DB *sql.DB }

func NewRoleRepo(db *sql.DB) *RoleRepo { return &RoleRepo{DB: db} }

// List returns all roles in store order.
func (r *RoleRepo) List(ctx context.Context) ([]model.Role, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id, name, created_at, updated_at FROM roles")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	roles := make([]model.Role, 0)
	for rows.Next() {
		var role model.Role
		if err := rows.Scan(&role.ID, &role.Name, &role.CreatedAt, &role.UpdatedAt); err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	return roles, rows.Err()
}

// GetByID fetches one role. Returns sql.ErrNoRows when absent.
func (r *RoleRepo) GetByID(ctx context.Context, id int64) (model.Role, error) {
	var role model.Role
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, name, created_at, updated_at FROM roles WHERE id = ? LIMIT 1",
		id).Scan(&role.ID, &role.Name, &role.CreatedAt, &role.UpdatedAt)
	return role, err
}

// NameExists reports whether any role other than excludeID already holds
// the name. Pass excludeID 0 on create.
func (r *RoleRepo) NameExists(ctx context.Context, name string, excludeID int64) (bool, error) {
	var n int
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM roles WHERE name = ? AND id <> ?", name, excludeID).Scan(&n)
	return n > 0, err
}

// Create inserts a role with both timestamps set to now.
func (r *RoleRepo) Create(ctx context.Context, name string) (model.Role, error) {
	now := time.Now().UTC()
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO roles (name, created_at, updated_at) VALUES (?,?,?)", name, now, now)
	if err != nil {
		return model.Role{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Role{}, err
	}
	return r.GetByID(ctx, id)
}

// Update renames a role and bumps updated_at. Returns sql.ErrNoRows when
// the id does not resolve.
func (r *RoleRepo) Update(ctx context.Context, id int64, name string) (model.Role, error) {
	if _, err := r.GetByID(ctx, id); err != nil {
		return model.Role{}, err
	}
	_, err := r.DB.ExecContext(ctx,
		"UPDATE roles SET name = ?, updated_at = ? WHERE id = ?",
		name, time.Now().UTC(), id)
	if err != nil {
		return model.Role{}, err
	}
	return r.GetByID(ctx, id)
}

// Delete attempts to remove a role. The store's foreign key constraint
// rejects the delete while users still reference the role; that
// rejection is mapped to ErrRoleInUse and leaves every row unchanged.
// Returns sql.ErrNoRows when the role does not exist.
func (r *RoleRepo) Delete(ctx context.Context, id int64) error {
	if _, err := r.GetByID(ctx, id); err != nil {
		return err
	}
	if _, err := r.DB.ExecContext(ctx, "DELETE FROM roles WHERE id = ?", id); err != nil {
		if isForeignKeyViolation(err) {
			return ErrRoleInUse
		}
		return err
	}
	return nil
}

// isForeignKeyViolation matches the MySQL row-is-referenced error (1451)
// and the generic constraint wording other engines use.
func isForeignKeyViolation(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "1451") || strings.Contains(msg, "foreign key")
}
