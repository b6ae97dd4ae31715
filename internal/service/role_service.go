package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/admincontrol/user-admin/internal/model"
	"github.com/admincontrol/user-admin/internal/queue"
	"github.com/admincontrol/user-admin/internal/repository"
	"github.com/admincontrol/user-admin/internal/validation"
)

type RoleService struct {
	roles  *repository.RoleRepo
	events *queue.Publisher
	log    zerolog.Logger
}

func NewRoleService(roles *repository.RoleRepo, events *queue.Publisher, log zerolog.Logger) *RoleService {
	return &RoleService{roles: roles, events: events, log: log}
}

// List returns all roles in store order.
func (s *RoleService) List(ctx context.Context) ([]model.Role, error) {
	return s.roles.List(ctx)
}

// Get resolves one role. Returns sql.ErrNoRows when absent.
func (s *RoleService) Get(ctx context.Context, id int64) (model.Role, error) {
	return s.roles.GetByID(ctx, id)
}

// Create validates the name, pre-checks its uniqueness and inserts.
func (s *RoleService) Create(ctx context.Context, name string) (model.Role, error) {
	name = strings.TrimSpace(name)
	if err := checkRoleName(name); err != nil {
		return model.Role{}, err
	}
	exists, err := s.roles.NameExists(ctx, name, 0)
	if err != nil {
		return model.Role{}, err
	}
	if exists {
		return model.Role{}, repository.ErrRoleNameExists
	}
	role, err := s.roles.Create(ctx, name)
	if err != nil {
		return model.Role{}, err
	}
	s.log.Info().Int64("role_id", role.ID).Str("name", role.Name).Msg("role created")
	s.publish(ctx, queue.ActionRoleCreated, role.ID, role.Name)
	return role, nil
}

// Update renames a role, pre-checking uniqueness against every other
// role so a no-op rename is accepted.
func (s *RoleService) Update(ctx context.Context, id int64, name string) (model.Role, error) {
	name = strings.TrimSpace(name)
	if err := checkRoleName(name); err != nil {
		return model.Role{}, err
	}
	exists, err := s.roles.NameExists(ctx, name, id)
	if err != nil {
		return model.Role{}, err
	}
	if exists {
		return model.Role{}, repository.ErrRoleNameExists
	}
	role, err := s.roles.Update(ctx, id, name)
	if err != nil {
		return model.Role{}, err
	}
	s.log.Info().Int64("role_id", role.ID).Str("name", role.Name).Msg("role renamed")
	s.publish(ctx, queue.ActionRoleUpdated, role.ID, role.Name)
	return role, nil
}

// Delete attempts the role delete against the store. A referential
// rejection comes back as repository.ErrRoleInUse, to be surfaced as a
// non-fatal user-visible conflict.
func (s *RoleService) Delete(ctx context.Context, id int64) error {
	if err := s.roles.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Int64("role_id", id).Msg("role deleted")
	s.publish(ctx, queue.ActionRoleDeleted, id, "")
	return nil
}

func (s *RoleService) publish(ctx context.Context, action string, id int64, subject string) {
	_ = s.events.Publish(ctx, queue.AdminActionEvent{
		Action:     action,
		SubjectID:  id,
		Subject:    subject,
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	})
}

func checkRoleName(name string) error {
	switch {
	case name == "":
		return &validation.FieldError{Field: "name", Message: "role name must not be empty"}
	case len(name) > 50:
		return &validation.FieldError{Field: "name", Message: "role name must not exceed 50 characters"}
	}
	return nil
}
