package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/admincontrol/user-admin/internal/model"
	"github.com/admincontrol/user-admin/internal/repository"
	"github.com/admincontrol/user-admin/internal/service"
	"github.com/admincontrol/user-admin/internal/validation"
)

// RoleHandler serves the role administration endpoints.
type RoleHandler struct {
	Roles *service.RoleService
	Log   zerolog.Logger
}

func NewRoleHandler(roles *service.RoleService, log zerolog.Logger) *RoleHandler {
	return &RoleHandler{Roles: roles, Log: log}
}

type roleReq struct {
	Name string `json:"name" form:"name"`
}

type roleResp struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func toRoleResp(r model.Role) roleResp { return roleResp{ID: r.ID, Name: r.Name} }

// List handles GET /v1/roles.
func (h *RoleHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	roles, err := h.Roles.List(ctx)
	if err != nil {
		h.Log.Error().Err(err).Msg("list roles failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not load roles"})
	}
	out := make([]roleResp, 0, len(roles))
	for _, r := range roles {
		out = append(out, toRoleResp(r))
	}
	return c.JSON(http.StatusOK, out)
}

// Create handles POST /v1/roles.
func (h *RoleHandler) Create(c echo.Context) error {
	var req roleReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	role, err := h.Roles.Create(ctx, req.Name)
	if err != nil {
		return h.mutationError(c, err, "create role failed")
	}
	return c.JSON(http.StatusCreated, toRoleResp(role))
}

// Update handles PUT /v1/roles/:id.
func (h *RoleHandler) Update(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req roleReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	role, err := h.Roles.Update(ctx, id, req.Name)
	if err != nil {
		return h.mutationError(c, err, "update role failed")
	}
	return c.JSON(http.StatusOK, toRoleResp(role))
}

// Delete handles DELETE /v1/roles/:id. A role still referenced by users
// cannot be deleted; the store's rejection surfaces as a 409 conflict,
// never a crash, and leaves every row unchanged.
func (h *RoleHandler) Delete(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Roles.Delete(ctx, id); err != nil {
		return h.mutationError(c, err, "delete role failed")
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *RoleHandler) mutationError(c echo.Context, err error, logMsg string) error {
	var fe *validation.FieldError
	switch {
	case errors.As(err, &fe):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": fe.Message, "field": fe.Field})
	case errors.Is(err, repository.ErrRoleNameExists):
		return c.JSON(http.StatusConflict, echo.Map{"error": "role name already exists"})
	case errors.Is(err, repository.ErrRoleInUse):
		return c.JSON(http.StatusConflict, echo.Map{"error": "role is in use"})
	case errors.Is(err, sql.ErrNoRows):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "role not found"})
	default:
		h.Log.Error().Err(err).Msg(logMsg)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "request failed"})
	}
}
