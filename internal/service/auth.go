// Package service implements the business rules above the repositories:
// credential authentication and the validation-gated mutation protocol
// for users and roles.
package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"github.com/admincontrol/user-admin/internal/model"
	"github.com/admincontrol/user-admin/internal/repository"
	"github.com/admincontrol/user-admin/internal/utils"
)

// ErrInvalidCredentials is the single undifferentiated authentication
// failure. Callers cannot tell a wrong password from an unknown login,
// which prevents login enumeration.
var ErrInvalidCredentials = errors.New("invalid login or password")

type AuthService struct {
	users *repository.UserRepo
	log   zerolog.Logger
}

func NewAuthService(users *repository.UserRepo, log zerolog.Logger) *AuthService {
	return &AuthService{users: users, log: log}
}

// Authenticate digests the supplied password and resolves the user whose
// stored login and digest both match exactly. There is no lockout or
// attempt counting; a failed call has no side effects beyond the read.
func (s *AuthService) Authenticate(ctx context.Context, login, password string) (model.User, error) {
	login = strings.TrimSpace(login)
	if login == "" || password == "" {
		return model.User{}, ErrInvalidCredentials
	}
	u, err := s.users.FindByCredentials(ctx, login, utils.PasswordDigest(password))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.log.Warn().Str("login", login).Msg("failed login attempt")
			return model.User{}, ErrInvalidCredentials
		}
		return model.User{}, err
	}
	return u, nil
}
