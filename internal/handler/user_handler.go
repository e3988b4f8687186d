package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"conselhoreal/internal/model"
	"conselhoreal/internal/service"
)

// UserHandler bundles user endpoints.
type UserHandler struct {
	svc service.UserService
}

// NewUserHandler creates a handler layer.
func NewUserHandler(svc service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// CreateUserRequest is the payload to register a user.
type CreateUserRequest struct {
	Name        string `json:"name" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=6"`
	Role        string `json:"role" validate:"omitempty,oneof=VISITANTE MEMBRO ADM"`
	MemberSince string `json:"memberSince"`
	Allergies   string `json:"allergies"`
}

// UpdateUserRequest changes only the fields it carries.
type UpdateUserRequest struct {
	Name        *string `json:"name"`
	Email       *string `json:"email" validate:"omitempty,email"`
	Role        *string `json:"role" validate:"omitempty,oneof=VISITANTE MEMBRO ADM"`
	MemberSince *string `json:"memberSince"`
	Allergies   *string `json:"allergies"`
	Password    *string `json:"password" validate:"omitempty,min=6"`
}

func (r UpdateUserRequest) patch() model.UserPatch {
	p := model.UserPatch{
		Name:        r.Name,
		Email:       r.Email,
		MemberSince: r.MemberSince,
		Allergies:   r.Allergies,
		Password:    r.Password,
	}
	if r.Role != nil {
		role := model.ParseRole(*r.Role)
		p.Role = &role
	}
	return p
}

// Me godoc
// @Summary Signed-in user profile
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.User
// @Failure 401 {object} errors.ErrorResponse
// @Router /me [get]
func (h *UserHandler) Me(c echo.Context) error {
	claims, err := currentClaims(c)
	if err != nil {
		return err
	}
	user, err := h.svc.Profile(c.Request().Context(), claims.UserID, claims.Email)
	if err != nil {
		return errorResponse(err)
	}
	return c.JSON(http.StatusOK, user)
}

// ListUsers godoc
// @Summary List users
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.User
// @Router /admin/users [get]
func (h *UserHandler) ListUsers(c echo.Context) error {
	return c.JSON(http.StatusOK, h.svc.List(c.Request().Context()))
}

// CreateUser godoc
// @Summary Create user
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateUserRequest true "User payload"
// @Success 201 {object} model.User
// @Failure 400 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /admin/users [post]
func (h *UserHandler) CreateUser(c echo.Context) error {
	var req CreateUserRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	created, err := h.svc.Create(c.Request().Context(), model.User{
		Name:        req.Name,
		Email:       req.Email,
		Role:        model.ParseRole(req.Role),
		MemberSince: req.MemberSince,
		Allergies:   req.Allergies,
	}, req.Password)
	if err != nil {
		return errorResponse(err)
	}
	return c.JSON(http.StatusCreated, created)
}

// UpdateUser godoc
// @Summary Update user
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param request body UpdateUserRequest true "Fields to change"
// @Success 200 {object} model.User
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /admin/users/{id} [put]
func (h *UserHandler) UpdateUser(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req UpdateUserRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	user, err := h.svc.Update(c.Request().Context(), id, req.patch())
	if err != nil {
		return errorResponse(err)
	}
	return c.JSON(http.StatusOK, user)
}

// DeleteUser godoc
// @Summary Delete user
// @Tags users
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 204
// @Router /admin/users/{id} [delete]
func (h *UserHandler) DeleteUser(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return errorResponse(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ListMembers godoc
// @Summary List members
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param q query string false "Name or email filter"
// @Success 200 {array} model.User
// @Router /admin/members [get]
func (h *UserHandler) ListMembers(c echo.Context) error {
	return c.JSON(http.StatusOK, h.svc.Members(c.Request().Context(), c.QueryParam("q")))
}

// ExportMembers godoc
// @Summary Export members as CSV
// @Tags users
// @Produce text/csv
// @Security BearerAuth
// @Param q query string false "Name or email filter"
// @Success 200 {file} binary
// @Router /admin/members/export [get]
func (h *UserHandler) ExportMembers(c echo.Context) error {
	var buf bytes.Buffer
	if _, err := h.svc.ExportMembersCSV(c.Request().Context(), &buf, c.QueryParam("q")); err != nil {
		return errorResponse(err)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename=%q", service.MembersCSVFileName(time.Now())))
	return c.Blob(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}
