package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/admincontrol/user-admin/internal/draft"
	"github.com/admincontrol/user-admin/internal/model"
	"github.com/admincontrol/user-admin/internal/queue"
	"github.com/admincontrol/user-admin/internal/repository"
	"github.com/admincontrol/user-admin/internal/utils"
	"github.com/admincontrol/user-admin/internal/validation"
)

type UserService struct {
	users  *repository.UserRepo
	roles  *repository.RoleRepo
	events *queue.Publisher
	log    zerolog.Logger
}

func NewUserService(users *repository.UserRepo, roles *repository.RoleRepo, events *queue.Publisher, log zerolog.Logger) *UserService {
	return &UserService{users: users, roles: roles, events: events, log: log}
}

// List returns every user joined with its role display name.
func (s *UserService) List(ctx context.Context) ([]model.User, error) {
	return s.users.List(ctx)
}

// Get resolves one user. Returns sql.ErrNoRows when absent.
func (s *UserService) Get(ctx context.Context, id int64) (model.User, error) {
	return s.users.GetByID(ctx, id)
}

// Create runs the mutation protocol for a new user: whole-record
// validation first, then the login uniqueness pre-check, then the email
// uniqueness pre-check, and only then the insert. A failure at any step
// leaves the store untouched.
func (s *UserService) Create(ctx context.Context, req draft.CreateRequest) (model.User, error) {
	trimRequestFields(&req.Login, &req.FirstName, &req.LastName, &req.Email,
		&req.PhoneNumber, &req.Address, &req.Gender)
	rec := validation.Record{
		Login:           req.Login,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Email:           req.Email,
		PhoneNumber:     req.PhoneNumber,
		RoleID:          req.RoleID,
	}
	if err := validation.Validate(rec, validation.ModeCreate); err != nil {
		return model.User{}, err
	}
	if err := s.requireRole(ctx, req.RoleID); err != nil {
		return model.User{}, err
	}

	exists, err := s.users.LoginExists(ctx, req.Login)
	if err != nil {
		return model.User{}, err
	}
	if exists {
		return model.User{}, repository.ErrLoginExists
	}
	exists, err = s.users.EmailExists(ctx, req.Email, 0)
	if err != nil {
		return model.User{}, err
	}
	if exists {
		return model.User{}, repository.ErrEmailExists
	}

	created, err := s.users.Create(ctx, model.User{
		Login:        req.Login,
		PasswordHash: utils.PasswordDigest(req.Password),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		PhoneNumber:  optional(req.PhoneNumber),
		Address:      optional(req.Address),
		Gender:       optional(req.Gender),
		IsActive:     req.IsActive,
		RoleID:       req.RoleID,
	})
	if err != nil {
		return model.User{}, err
	}
	s.log.Info().Int64("user_id", created.ID).Str("login", created.Login).Msg("user created")
	s.publish(ctx, queue.ActionUserCreated, created.ID, created.Login)
	return created, nil
}

// Update runs the mutation protocol for an existing user. The password
// rules are suppressed; step two (login uniqueness) does not apply since
// the login is immutable, and the email pre-check excludes the record's
// own id so a no-op email write is accepted.
func (s *UserService) Update(ctx context.Context, req draft.UpdateRequest) (model.User, error) {
	existing, err := s.users.GetByID(ctx, req.ID)
	if err != nil {
		return model.User{}, err
	}
	trimRequestFields(&req.FirstName, &req.LastName, &req.Email,
		&req.PhoneNumber, &req.Address, &req.Gender)

	rec := validation.Record{
		Login:       existing.Login,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		RoleID:      req.RoleID,
	}
	if err := validation.Validate(rec, validation.ModeEdit); err != nil {
		return model.User{}, err
	}
	if err := s.requireRole(ctx, req.RoleID); err != nil {
		return model.User{}, err
	}

	exists, err := s.users.EmailExists(ctx, req.Email, req.ID)
	if err != nil {
		return model.User{}, err
	}
	if exists {
		return model.User{}, repository.ErrEmailExists
	}

	updated, err := s.users.Update(ctx, model.User{
		ID:          req.ID,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		PhoneNumber: optional(req.PhoneNumber),
		Address:     optional(req.Address),
		Gender:      optional(req.Gender),
		IsActive:    req.IsActive,
		RoleID:      req.RoleID,
	})
	if err != nil {
		return model.User{}, err
	}
	s.log.Info().Int64("user_id", updated.ID).Msg("user updated")
	s.publish(ctx, queue.ActionUserUpdated, updated.ID, updated.Login)
	return updated, nil
}

// Delete removes a user. There is no precondition.
func (s *UserService) Delete(ctx context.Context, id int64) error {
	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Int64("user_id", id).Msg("user deleted")
	s.publish(ctx, queue.ActionUserDeleted, id, "")
	return nil
}

// requireRole verifies the role reference resolves before any write.
func (s *UserService) requireRole(ctx context.Context, roleID int64) error {
	if _, err := s.roles.GetByID(ctx, roleID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &validation.FieldError{
				Field:   validation.FieldRole,
				Message: "selected role does not exist",
			}
		}
		return err
	}
	return nil
}

func (s *UserService) publish(ctx context.Context, action string, id int64, subject string) {
	_ = s.events.Publish(ctx, queue.AdminActionEvent{
		Action:     action,
		SubjectID:  id,
		Subject:    subject,
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	})
}

// optional maps an empty string to NULL.
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// trimRequestFields canonicalizes request fields before validation,
// the uniqueness pre-checks and the write. Without it a padded login
// like " alice01 " would pass validation (which trims per field) yet
// be stored verbatim, and the account could never authenticate.
func trimRequestFields(fields ...*string) {
	for _, f := range fields {
		*f = strings.TrimSpace(*f)
	}
}
