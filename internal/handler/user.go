package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/admincontrol/user-admin/internal/draft"
	"github.com/admincontrol/user-admin/internal/model"
	"github.com/admincontrol/user-admin/internal/repository"
	"github.com/admincontrol/user-admin/internal/service"
	"github.com/admincontrol/user-admin/internal/validation"
)

// UserHandler serves the user administration endpoints.
type UserHandler struct {
	Users *service.UserService
	Log   zerolog.Logger
}

func NewUserHandler(users *service.UserService, log zerolog.Logger) *UserHandler {
	return &UserHandler{Users: users, Log: log}
}

type userCreateReq struct {
	Login           string `json:"login"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Email           string `json:"email"`
	PhoneNumber     string `json:"phone_number"`
	Address         string `json:"address"`
	Gender          string `json:"gender"`
	RoleID          int64  `json:"role_id"`
	IsActive        *bool  `json:"is_active"`
}

type userUpdateReq struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
	Address     string `json:"address"`
	Gender      string `json:"gender"`
	RoleID      int64  `json:"role_id"`
	IsActive    bool   `json:"is_active"`
}

type userResp struct {
	ID          int64  `json:"id"`
	Login       string `json:"login"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number,omitempty"`
	Address     string `json:"address,omitempty"`
	Gender      string `json:"gender,omitempty"`
	IsActive    bool   `json:"is_active"`
	RoleID      int64  `json:"role_id"`
	RoleName    string `json:"role_name"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

func toUserResp(u model.User) userResp {
	r := userResp{
		ID:        u.ID,
		Login:     u.Login,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		IsActive:  u.IsActive,
		RoleID:    u.RoleID,
		RoleName:  u.RoleName,
		CreatedAt: u.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
		UpdatedAt: u.UpdatedAt.UTC().Format("2006-01-02T15:04:05Z"),
	}
	if u.PhoneNumber != nil {
		r.PhoneNumber = *u.PhoneNumber
	}
	if u.Address != nil {
		r.Address = *u.Address
	}
	if u.Gender != nil {
		r.Gender = *u.Gender
	}
	return r
}

// List handles GET /v1/users and returns every user with its role name.
func (h *UserHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	users, err := h.Users.List(ctx)
	if err != nil {
		h.Log.Error().Err(err).Msg("list users failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not load users"})
	}
	out := make([]userResp, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResp(u))
	}
	return c.JSON(http.StatusOK, out)
}

// Create handles POST /v1/users. The service runs the full mutation
// protocol; this layer only translates its outcomes to HTTP.
func (h *UserHandler) Create(c echo.Context) error {
	var req userCreateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	created, err := h.Users.Create(ctx, draft.CreateRequest{
		Login:           req.Login,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Email:           req.Email,
		PhoneNumber:     req.PhoneNumber,
		Address:         req.Address,
		Gender:          req.Gender,
		RoleID:          req.RoleID,
		IsActive:        active,
	})
	if err != nil {
		return h.mutationError(c, err, "create user failed")
	}
	return c.JSON(http.StatusCreated, toUserResp(created))
}

// Update handles PUT /v1/users/:id. Login and password are not part of
// the update surface.
func (h *UserHandler) Update(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req userUpdateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	updated, err := h.Users.Update(ctx, draft.UpdateRequest{
		ID:          id,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Address:     req.Address,
		Gender:      req.Gender,
		RoleID:      req.RoleID,
		IsActive:    req.IsActive,
	})
	if err != nil {
		return h.mutationError(c, err, "update user failed")
	}
	return c.JSON(http.StatusOK, toUserResp(updated))
}

// Delete handles DELETE /v1/users/:id. User deletion has no
// precondition.
func (h *UserHandler) Delete(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Users.Delete(ctx, id); err != nil {
		h.Log.Error().Err(err).Int64("user_id", id).Msg("delete user failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

type validateReq struct {
	Mode            string `json:"mode"` // "create" or "edit"
	Login           string `json:"login"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Email           string `json:"email"`
	PhoneNumber     string `json:"phone_number"`
	RoleID          int64  `json:"role_id"`
}

// Validate handles POST /v1/users/validate: the live per-field path of
// the edit form. It returns the full field->message error map without
// touching the store.
func (h *UserHandler) Validate(c echo.Context) error {
	var req validateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	mode := validation.ModeCreate
	if req.Mode == "edit" {
		mode = validation.ModeEdit
	}
	errs := validation.ValidateAll(validation.Record{
		Login:           req.Login,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Email:           req.Email,
		PhoneNumber:     req.PhoneNumber,
		RoleID:          req.RoleID,
	}, mode)
	return c.JSON(http.StatusOK, echo.Map{"valid": len(errs) == 0, "errors": errs})
}

// mutationError maps the mutation protocol's failure classes to HTTP:
// validation errors are 400 with the violated field, uniqueness
// conflicts 409, a missing record 404 and anything else a logged 500.
func (h *UserHandler) mutationError(c echo.Context, err error, logMsg string) error {
	var fe *validation.FieldError
	switch {
	case errors.As(err, &fe):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": fe.Message, "field": fe.Field})
	case errors.Is(err, repository.ErrLoginExists):
		return c.JSON(http.StatusConflict, echo.Map{"error": "login already exists"})
	case errors.Is(err, repository.ErrEmailExists):
		return c.JSON(http.StatusConflict, echo.Map{"error": "email already exists"})
	case errors.Is(err, sql.ErrNoRows):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
	default:
		h.Log.Error().Err(err).Msg(logMsg)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "request failed"})
	}
}
