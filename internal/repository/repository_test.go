package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/admincontrol/user-admin/internal/model"
	"github.com/admincontrol/user-admin/internal/utils"
)

// newTestDB opens an in-memory sqlite database with the same shape as
// the MySQL schema. Foreign keys are enabled so role deletes are
// rejected while users reference them, as in production.
func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:?_foreign_keys=on")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	// Every pooled connection to :memory: is a distinct database.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	schema := []string{
		`CREATE TABLE roles (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			name       VARCHAR(50) NOT NULL UNIQUE,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,
		`CREATE TABLE users (
			id               INTEGER PRIMARY KEY AUTOINCREMENT,
			login            VARCHAR(50) NOT NULL UNIQUE,
			password_hash    CHAR(64) NOT NULL,
			first_name       VARCHAR(100) NOT NULL DEFAULT '',
			last_name        VARCHAR(100) NOT NULL DEFAULT '',
			email            VARCHAR(255) NOT NULL UNIQUE,
			phone_number     VARCHAR(20),
			address          TEXT,
			gender           VARCHAR(10),
			recovery_keyword VARCHAR(255),
			is_active        BOOLEAN NOT NULL DEFAULT 1,
			created_at       DATETIME NOT NULL,
			updated_at       DATETIME NOT NULL,
			role_id          INTEGER NOT NULL REFERENCES roles(id)
		)`,
	}
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("schema: %v", err)
		}
	}
	return db
}

func seedRole(t *testing.T, db *sql.DB, name string) model.Role {
	t.Helper()
	role, err := NewRoleRepo(db).Create(context.Background(), name)
	if err != nil {
		t.Fatalf("seed role: %v", err)
	}
	return role
}

func seedUser(t *testing.T, db *sql.DB, login, email string, roleID int64) model.User {
	t.Helper()
	u, err := NewUserRepo(db).Create(context.Background(), model.User{
		Login:        login,
		PasswordHash: utils.PasswordDigest("Secret123"),
		FirstName:    "Al",
		LastName:     "Ice",
		Email:        email,
		IsActive:     true,
		RoleID:       roleID,
	})
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

func TestUserRepo_CreateAndList(t *testing.T) {
	db := newTestDB(t)
	role := seedRole(t, db, "admin")
	u := seedUser(t, db, "alice01", "a@b.com", role.ID)

	if u.ID == 0 {
		t.Fatal("expected generated id")
	}
	if u.RoleName != "admin" {
		t.Fatalf("expected joined role name, got %q", u.RoleName)
	}
	if u.CreatedAt.IsZero() || u.UpdatedAt.IsZero() {
		t.Fatal("timestamps must be set by the repository")
	}

	users, err := NewUserRepo(db).List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(users) != 1 || users[0].Login != "alice01" {
		t.Fatalf("unexpected list: %+v", users)
	}
}

func TestUserRepo_FindByCredentials(t *testing.T) {
	db := newTestDB(t)
	role := seedRole(t, db, "manager")
	seedUser(t, db, "alice01", "a@b.com", role.ID)
	repo := NewUserRepo(db)
	ctx := context.Background()

	u, err := repo.FindByCredentials(ctx, "alice01", utils.PasswordDigest("Secret123"))
	if err != nil {
		t.Fatalf("expected match, got %v", err)
	}
	if u.Login != "alice01" || u.RoleName != "manager" {
		t.Fatalf("unexpected user: %+v", u)
	}

	// Wrong password and unknown login are the same outcome.
	_, errWrongPass := repo.FindByCredentials(ctx, "alice01", utils.PasswordDigest("wrong"))
	_, errNoUser := repo.FindByCredentials(ctx, "nobody", utils.PasswordDigest("Secret123"))
	if !errors.Is(errWrongPass, sql.ErrNoRows) || !errors.Is(errNoUser, sql.ErrNoRows) {
		t.Fatalf("both misses must be sql.ErrNoRows: %v / %v", errWrongPass, errNoUser)
	}
}

func TestUserRepo_UniquenessChecks(t *testing.T) {
	db := newTestDB(t)
	role := seedRole(t, db, "admin")
	a := seedUser(t, db, "alice01", "a@b.com", role.ID)
	seedUser(t, db, "bob02", "b@b.com", role.ID)
	repo := NewUserRepo(db)
	ctx := context.Background()

	if ok, _ := repo.LoginExists(ctx, "alice01"); !ok {
		t.Fatal("expected login to exist")
	}
	if ok, _ := repo.LoginExists(ctx, "carol03"); ok {
		t.Fatal("unexpected login hit")
	}

	// Email held by a different user conflicts; own email does not.
	if ok, _ := repo.EmailExists(ctx, "b@b.com", a.ID); !ok {
		t.Fatal("expected conflict with other user's email")
	}
	if ok, _ := repo.EmailExists(ctx, "a@b.com", a.ID); ok {
		t.Fatal("own email must not conflict on update")
	}
	if ok, _ := repo.EmailExists(ctx, "a@b.com", 0); !ok {
		t.Fatal("create-mode check must consider every row")
	}
}

func TestUserRepo_Update(t *testing.T) {
	db := newTestDB(t)
	admin := seedRole(t, db, "admin")
	manager := seedRole(t, db, "manager")
	u := seedUser(t, db, "alice01", "a@b.com", admin.ID)
	repo := NewUserRepo(db)

	phone := "+380441234567"
	u.FirstName = "Alice"
	u.Email = "alice@b.com"
	u.PhoneNumber = &phone
	u.RoleID = manager.ID
	u.IsActive = false

	got, err := repo.Update(context.Background(), u)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.FirstName != "Alice" || got.Email != "alice@b.com" || got.RoleName != "manager" {
		t.Fatalf("unexpected record after update: %+v", got)
	}
	if got.PhoneNumber == nil || *got.PhoneNumber != phone {
		t.Fatalf("phone not persisted: %+v", got.PhoneNumber)
	}
	if got.IsActive {
		t.Fatal("active flag not persisted")
	}
	if got.Login != "alice01" {
		t.Fatal("update must not touch the login")
	}
	if !got.UpdatedAt.After(got.CreatedAt) && !got.UpdatedAt.Equal(got.CreatedAt) {
		t.Fatalf("updated_at not bumped: %v / %v", got.UpdatedAt, got.CreatedAt)
	}
}

func TestUserRepo_UpdateMissing(t *testing.T) {
	db := newTestDB(t)
	seedRole(t, db, "admin")
	_, err := NewUserRepo(db).Update(context.Background(), model.User{ID: 999, RoleID: 1})
	if !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("expected sql.ErrNoRows, got %v", err)
	}
}

func TestUserRepo_Delete(t *testing.T) {
	db := newTestDB(t)
	role := seedRole(t, db, "admin")
	u := seedUser(t, db, "alice01", "a@b.com", role.ID)
	repo := NewUserRepo(db)
	ctx := context.Background()

	if err := repo.Delete(ctx, u.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.GetByID(ctx, u.ID); !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("expected row gone, got %v", err)
	}
	// Delete has no precondition; absent ids are fine.
	if err := repo.Delete(ctx, u.ID); err != nil {
		t.Fatalf("repeat delete: %v", err)
	}
}

func TestRoleRepo_CreateUpdateList(t *testing.T) {
	db := newTestDB(t)
	repo := NewRoleRepo(db)
	ctx := context.Background()

	role, err := repo.Create(ctx, "admin")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if role.ID == 0 || role.Name != "admin" {
		t.Fatalf("unexpected role: %+v", role)
	}

	renamed, err := repo.Update(ctx, role.ID, "operator")
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if renamed.Name != "operator" {
		t.Fatalf("rename not persisted: %+v", renamed)
	}

	if _, err := repo.Update(ctx, 999, "ghost"); !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("expected sql.ErrNoRows, got %v", err)
	}

	roles, err := repo.List(ctx)
	if err != nil || len(roles) != 1 {
		t.Fatalf("unexpected list: %v %+v", err, roles)
	}
}

func TestRoleRepo_NameExists(t *testing.T) {
	db := newTestDB(t)
	repo := NewRoleRepo(db)
	ctx := context.Background()
	role := seedRole(t, db, "admin")

	if ok, _ := repo.NameExists(ctx, "admin", 0); !ok {
		t.Fatal("expected name to exist")
	}
	if ok, _ := repo.NameExists(ctx, "admin", role.ID); ok {
		t.Fatal("own name must not conflict on rename")
	}
	if ok, _ := repo.NameExists(ctx, "manager", 0); ok {
		t.Fatal("unexpected name hit")
	}
}

func TestRoleRepo_DeleteInUse(t *testing.T) {
	db := newTestDB(t)
	role := seedRole(t, db, "admin")
	seedUser(t, db, "alice01", "a@b.com", role.ID)
	repo := NewRoleRepo(db)
	ctx := context.Background()

	if err := repo.Delete(ctx, role.ID); !errors.Is(err, ErrRoleInUse) {
		t.Fatalf("expected ErrRoleInUse, got %v", err)
	}
	// Role and referencing user both survive the rejected delete.
	if _, err := repo.GetByID(ctx, role.ID); err != nil {
		t.Fatalf("role must remain: %v", err)
	}
	users, err := NewUserRepo(db).List(ctx)
	if err != nil || len(users) != 1 {
		t.Fatalf("user must remain: %v %+v", err, users)
	}

	// Removing the referencing user frees the role for deletion.
	if err := NewUserRepo(db).Delete(ctx, users[0].ID); err != nil {
		t.Fatalf("delete user: %v", err)
	}
	if err := repo.Delete(ctx, role.ID); err != nil {
		t.Fatalf("delete role: %v", err)
	}
	if err := repo.Delete(ctx, role.ID); !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("expected sql.ErrNoRows for absent role, got %v", err)
	}
}
