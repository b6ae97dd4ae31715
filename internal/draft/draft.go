// Package draft models the transient pending-edit record behind a user
// create/edit form. A Draft mirrors the editable fields, keeps a
// per-field error map updated live as fields change, and gates Save on
// the map being empty. It is never persisted directly; a clean draft is
// translated into a create or update request first.
package draft

import (
	"strings"

	"github.com/admincontrol/user-admin/internal/model"
	"github.com/admincontrol/user-admin/internal/validation"
)

// CreateRequest is the translation of a clean create-mode draft.
type CreateRequest struct {
	Login           string
	Password        string
	ConfirmPassword string
	FirstName       string
	LastName        string
	Email           string
	PhoneNumber     string
	Address         string
	Gender          string
	RoleID          int64
	IsActive        bool
}

// UpdateRequest is the translation of a clean edit-mode draft. The
// password fields are absent: password change is not part of update.
type UpdateRequest struct {
	ID          int64
	FirstName   string
	LastName    string
	Email       string
	PhoneNumber string
	Address     string
	Gender      string
	RoleID      int64
	IsActive    bool
}

// Draft is the client-local pending-edit record. Zero value is unusable;
// construct with NewCreate or NewEdit.
type Draft struct {
	mode     validation.Mode
	userID   int64
	rec      validation.Record
	address  string
	gender   string
	isActive bool
	errs     validation.ErrorMap
}

// NewCreate opens a blank draft for a new user. New accounts start active.
func NewCreate() *Draft {
	return &Draft{
		mode:     validation.ModeCreate,
		isActive: true,
		errs:     make(validation.ErrorMap),
	}
}

// NewEdit opens a draft pre-filled from an existing record. The password
// fields stay empty; edit mode never evaluates them.
func NewEdit(u model.User) *Draft {
	d := &Draft{
		mode:   validation.ModeEdit,
		userID: u.ID,
		rec: validation.Record{
			Login:     u.Login,
			FirstName: u.FirstName,
			LastName:  u.LastName,
			Email:     u.Email,
			RoleID:    u.RoleID,
		},
		isActive: u.IsActive,
		errs:     make(validation.ErrorMap),
	}
	if u.PhoneNumber != nil {
		d.rec.PhoneNumber = *u.PhoneNumber
	}
	if u.Address != nil {
		d.address = *u.Address
	}
	if u.Gender != nil {
		d.gender = *u.Gender
	}
	return d
}

// Set updates one field and re-evaluates only that field's rules,
// mutating only its entry in the error map. Fields without rules
// (address, gender, active flag) are stored as-is.
func (d *Draft) Set(field, value string) {
	switch field {
	case validation.FieldLogin:
		d.rec.Login = value
	case validation.FieldPassword:
		d.rec.Password = value
	case validation.FieldConfirmPassword:
		d.rec.ConfirmPassword = value
	case validation.FieldFirstName:
		d.rec.FirstName = value
	case validation.FieldLastName:
		d.rec.LastName = value
	case validation.FieldEmail:
		d.rec.Email = value
	case validation.FieldPhoneNumber:
		d.rec.PhoneNumber = value
	case "address":
		d.address = value
		return
	case "gender":
		d.gender = value
		return
	default:
		return
	}
	d.revalidate(field)
}

// SetRole selects a role and re-evaluates the role rule.
func (d *Draft) SetRole(roleID int64) {
	d.rec.RoleID = roleID
	d.revalidate(validation.FieldRole)
}

// SetActive toggles the active flag; it has no validation rules.
func (d *Draft) SetActive(active bool) { d.isActive = active }

func (d *Draft) revalidate(field string) {
	if msg, ok := validation.ValidateField(d.rec, d.mode, field); !ok {
		d.errs[field] = msg
	} else {
		delete(d.errs, field)
	}
	// The confirm-password rule depends on the password value, so an
	// edit of either field re-evaluates the pair.
	if field == validation.FieldPassword {
		if msg, ok := validation.ValidateField(d.rec, d.mode, validation.FieldConfirmPassword); !ok {
			d.errs[validation.FieldConfirmPassword] = msg
		} else {
			delete(d.errs, validation.FieldConfirmPassword)
		}
	}
}

// Errors returns a copy of the current per-field error map.
func (d *Draft) Errors() validation.ErrorMap {
	out := make(validation.ErrorMap, len(d.errs))
	for k, v := range d.errs {
		out[k] = v
	}
	return out
}

// HasErrors reports whether any field currently has a known violation.
func (d *Draft) HasErrors() bool { return len(d.errs) > 0 }

// CanSave runs whole-record validation over the draft and reports
// whether it may be submitted. Unlike HasErrors it also catches fields
// the user never touched.
func (d *Draft) CanSave() bool {
	return validation.Validate(d.rec, d.mode) == nil
}

// CreateRequest translates a create-mode draft into a create request.
func (d *Draft) CreateRequest() CreateRequest {
	return CreateRequest{
		Login:           strings.TrimSpace(d.rec.Login),
		Password:        d.rec.Password,
		ConfirmPassword: d.rec.ConfirmPassword,
		FirstName:       strings.TrimSpace(d.rec.FirstName),
		LastName:        strings.TrimSpace(d.rec.LastName),
		Email:           strings.TrimSpace(d.rec.Email),
		PhoneNumber:     strings.TrimSpace(d.rec.PhoneNumber),
		Address:         strings.TrimSpace(d.address),
		Gender:          strings.TrimSpace(d.gender),
		RoleID:          d.rec.RoleID,
		IsActive:        d.isActive,
	}
}

// UpdateRequest translates an edit-mode draft into an update request.
func (d *Draft) UpdateRequest() UpdateRequest {
	return UpdateRequest{
		ID:          d.userID,
		FirstName:   strings.TrimSpace(d.rec.FirstName),
		LastName:    strings.TrimSpace(d.rec.LastName),
		Email:       strings.TrimSpace(d.rec.Email),
		PhoneNumber: strings.TrimSpace(d.rec.PhoneNumber),
		Address:     strings.TrimSpace(d.address),
		Gender:      strings.TrimSpace(d.gender),
		RoleID:      d.rec.RoleID,
		IsActive:    d.isActive,
	}
}
