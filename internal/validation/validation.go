// Package validation holds the field rules applied to a pending user
// record before it may be persisted. The rules are pure and perform no
// I/O; both the submit gate (first failure wins, fixed order) and the
// live per-field path of the edit form consume this one rule set.
package validation

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Mode selects which rules apply. Edit mode suppresses the password and
// confirm-password rules entirely; password change is not part of update.
type Mode int

const (
	ModeCreate Mode = iota
	ModeEdit
)

// Field names used as keys of an ErrorMap and in FieldError.
const (
	FieldLogin           = "login"
	FieldPassword        = "password"
	FieldConfirmPassword = "confirm_password"
	FieldFirstName       = "first_name"
	FieldLastName        = "last_name"
	FieldEmail           = "email"
	FieldPhoneNumber     = "phone_number"
	FieldRole            = "role"
)

// Record is a complete pending-edit user record as collected by a form.
// Password and ConfirmPassword are presentation-only and never persisted.
type Record struct {
	Login           string
	Password        string
	ConfirmPassword string
	FirstName       string
	LastName        string
	Email           string
	PhoneNumber     string
	RoleID          int64
}

// FieldError is a single violated rule with a human-readable message.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string { return e.Message }

// ErrorMap collects every simultaneously violated rule, keyed by field.
type ErrorMap map[string]string

var (
	loginPattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
	upperPattern = regexp.MustCompile(`[A-Z]`)
	lowerPattern = regexp.MustCompile(`[a-z]`)
	digitPattern = regexp.MustCompile(`[0-9]`)
	emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	phonePattern = regexp.MustCompile(`^[+]?[0-9\s\-()]+$`)
)

// fieldOrder fixes evaluation order for whole-record validation.
var fieldOrder = []string{
	FieldLogin,
	FieldPassword,
	FieldConfirmPassword,
	FieldFirstName,
	FieldLastName,
	FieldEmail,
	FieldPhoneNumber,
	FieldRole,
}

// Validate evaluates the whole record in fixed field order and returns
// the first violated rule as a *FieldError, or nil when the record is
// clean. This is the check that gates save/submit.
func Validate(rec Record, mode Mode) error {
	for _, f := range fieldOrder {
		if msg, ok := checkField(rec, mode, f); !ok {
			return &FieldError{Field: f, Message: msg}
		}
	}
	return nil
}

// ValidateAll evaluates every field and returns the full field->message
// map of violations. An empty map means the record is clean.
func ValidateAll(rec Record, mode Mode) ErrorMap {
	errs := make(ErrorMap)
	for _, f := range fieldOrder {
		if msg, ok := checkField(rec, mode, f); !ok {
			errs[f] = msg
		}
	}
	return errs
}

// ValidateField re-evaluates a single field, for the live per-field path.
// It returns the violation message and false when the field is invalid.
// Unknown fields are treated as valid.
func ValidateField(rec Record, mode Mode, field string) (string, bool) {
	return checkField(rec, mode, field)
}

func checkField(rec Record, mode Mode, field string) (string, bool) {
	switch field {
	case FieldLogin:
		login := strings.TrimSpace(rec.Login)
		switch {
		case login == "":
			return "login must not be empty", false
		case len(login) < 3:
			return "login must be at least 3 characters", false
		case len(login) > 50:
			return "login must not exceed 50 characters", false
		case !loginPattern.MatchString(login):
			return "login may contain only latin letters, digits and _", false
		}
	case FieldPassword:
		if mode == ModeEdit {
			return "", true
		}
		switch {
		case strings.TrimSpace(rec.Password) == "":
			return "password must not be empty", false
		case len(rec.Password) < 6:
			return "password must be at least 6 characters", false
		case !upperPattern.MatchString(rec.Password):
			return "password must contain an uppercase letter", false
		case !lowerPattern.MatchString(rec.Password):
			return "password must contain a lowercase letter", false
		case !digitPattern.MatchString(rec.Password):
			return "password must contain a digit", false
		}
	case FieldConfirmPassword:
		if mode == ModeEdit {
			return "", true
		}
		switch {
		case strings.TrimSpace(rec.ConfirmPassword) == "":
			return "password confirmation is required", false
		case rec.Password != rec.ConfirmPassword:
			return "passwords do not match", false
		}
	case FieldFirstName:
		name := strings.TrimSpace(rec.FirstName)
		switch {
		case name == "":
			return "first name must not be empty", false
		case utf8.RuneCountInString(name) < 2:
			return "first name must be at least 2 characters", false
		}
	case FieldLastName:
		name := strings.TrimSpace(rec.LastName)
		switch {
		case name == "":
			return "last name must not be empty", false
		case utf8.RuneCountInString(name) < 2:
			return "last name must be at least 2 characters", false
		}
	case FieldEmail:
		email := strings.TrimSpace(rec.Email)
		switch {
		case email == "":
			return "email must not be empty", false
		case !emailPattern.MatchString(email):
			return "invalid email format", false
		}
	case FieldPhoneNumber:
		// Optional: validated only when present.
		if p := strings.TrimSpace(rec.PhoneNumber); p != "" && !phonePattern.MatchString(p) {
			return "invalid phone number format", false
		}
	case FieldRole:
		if rec.RoleID <= 0 {
			return "a role must be selected", false
		}
	}
	return "", true
}
