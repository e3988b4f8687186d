package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"conselhoreal/internal/model"
	"conselhoreal/internal/service"
)

// EntityHandler serves member entities, the house catalog and lore.
type EntityHandler struct {
	members   service.MemberEntityService
	spiritual service.SpiritualService
}

// NewEntityHandler creates a new entity handler.
func NewEntityHandler(members service.MemberEntityService, spiritual service.SpiritualService) *EntityHandler {
	return &EntityHandler{members: members, spiritual: spiritual}
}

// MemberEntityRequest is the payload to register an entity a member works with.
type MemberEntityRequest struct {
	UserID      int64  `json:"userId" validate:"required,gt=0"`
	Name        string `json:"name" validate:"required"`
	Line        string `json:"line"`
	History     string `json:"history"`
	Curiosities string `json:"curiosities"`
}

// SpiritualEntityRequest is the payload to add an entity to the catalog.
type SpiritualEntityRequest struct {
	Name        string `json:"name" validate:"required"`
	Line        string `json:"line"`
	Description string `json:"description"`
}

// HistoryRequest is an explicit description snapshot.
type HistoryRequest struct {
	Description string `json:"description" validate:"required"`
}

// ListOwnMemberEntities godoc
// @Summary List the caller's entities
// @Tags entities
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.MemberEntity
// @Router /member-entities [get]
func (h *EntityHandler) ListOwnMemberEntities(c echo.Context) error {
	claims, err := currentClaims(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.members.List(c.Request().Context(), claims.UserID))
}

// ListMemberEntities godoc
// @Summary List member entities of every member, or of one
// @Tags entities
// @Produce json
// @Security BearerAuth
// @Param userId query int false "Member"
// @Success 200 {array} model.MemberEntity
// @Router /admin/member-entities [get]
func (h *EntityHandler) ListMemberEntities(c echo.Context) error {
	userID, err := queryID(c, "userId")
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.members.List(c.Request().Context(), userID))
}

// CreateMemberEntity godoc
// @Summary Register member entity
// @Tags entities
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body MemberEntityRequest true "Entity"
// @Success 201 {object} model.MemberEntity
// @Failure 400 {object} errors.ErrorResponse
// @Router /admin/member-entities [post]
func (h *EntityHandler) CreateMemberEntity(c echo.Context) error {
	var req MemberEntityRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	entity, err := h.members.Create(c.Request().Context(), model.MemberEntity{
		UserID:      req.UserID,
		Name:        req.Name,
		Line:        req.Line,
		History:     req.History,
		Curiosities: req.Curiosities,
	})
	if err != nil {
		return errorResponse(err)
	}
	return c.JSON(http.StatusCreated, entity)
}

// UpdateMemberEntity godoc
// @Summary Update member entity
// @Tags entities
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Entity ID"
// @Param request body model.MemberEntityPatch true "Fields to change"
// @Success 200 {object} model.MemberEntity
// @Failure 404 {object} errors.ErrorResponse
// @Router /admin/member-entities/{id} [put]
func (h *EntityHandler) UpdateMemberEntity(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var patch model.MemberEntityPatch
	if err := bind(c, &patch); err != nil {
		return err
	}
	entity, err := h.members.Update(c.Request().Context(), id, patch)
	if err != nil {
		return errorResponse(err)
	}
	return c.JSON(http.StatusOK, entity)
}

// DeleteMemberEntity godoc
// @Summary Delete member entity
// @Tags entities
// @Security BearerAuth
// @Param id path int true "Entity ID"
// @Success 204
// @Router /admin/member-entities/{id} [delete]
func (h *EntityHandler) DeleteMemberEntity(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.members.Delete(c.Request().Context(), id); err != nil {
		return errorResponse(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ListSpiritualEntities godoc
// @Summary List the house catalog of entities
// @Tags spiritual
// @Produce json
// @Success 200 {array} model.SpiritualEntity
// @Router /spiritual-entities [get]
func (h *EntityHandler) ListSpiritualEntities(c echo.Context) error {
	return c.JSON(http.StatusOK, h.spiritual.ListEntities(c.Request().Context()))
}

// CreateSpiritualEntity godoc
// @Summary Add entity to the catalog
// @Tags spiritual
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body SpiritualEntityRequest true "Entity"
// @Success 201 {object} model.SpiritualEntity
// @Failure 400 {object} errors.ErrorResponse
// @Router /admin/spiritual-entities [post]
func (h *EntityHandler) CreateSpiritualEntity(c echo.Context) error {
	var req SpiritualEntityRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	entity, err := h.spiritual.CreateEntity(c.Request().Context(), model.SpiritualEntity{
		Name:        req.Name,
		Line:        req.Line,
		Description: req.Description,
	})
	if err != nil {
		return errorResponse(err)
	}
	return c.JSON(http.StatusCreated, entity)
}

// UpdateSpiritualEntity godoc
// @Summary Update catalog entity
// @Description A changed description moves the previous one into the history.
// @Tags spiritual
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Entity ID"
// @Param request body model.SpiritualEntityPatch true "Fields to change"
// @Success 200 {object} model.SpiritualEntity
// @Failure 404 {object} errors.ErrorResponse
// @Router /admin/spiritual-entities/{id} [put]
func (h *EntityHandler) UpdateSpiritualEntity(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var patch model.SpiritualEntityPatch
	if err := bind(c, &patch); err != nil {
		return err
	}
	entity, err := h.spiritual.UpdateEntity(c.Request().Context(), id, patch)
	if err != nil {
		return errorResponse(err)
	}
	return c.JSON(http.StatusOK, entity)
}

// DeleteSpiritualEntity godoc
// @Summary Delete catalog entity
// @Tags spiritual
// @Security BearerAuth
// @Param id path int true "Entity ID"
// @Success 204
// @Router /admin/spiritual-entities/{id} [delete]
func (h *EntityHandler) DeleteSpiritualEntity(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.spiritual.DeleteEntity(c.Request().Context(), id); err != nil {
		return errorResponse(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// AppendHistory godoc
// @Summary Append a description snapshot
// @Tags spiritual
// @Accept json
// @Security BearerAuth
// @Param id path int true "Entity ID"
// @Param request body HistoryRequest true "Snapshot"
// @Success 204
// @Router /admin/spiritual-entities/{id}/history [post]
func (h *EntityHandler) AppendHistory(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req HistoryRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := h.spiritual.AppendHistory(c.Request().Context(), id, req.Description); err != nil {
		return errorResponse(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ListLore godoc
// @Summary List lore entries
// @Tags spiritual
// @Produce json
// @Success 200 {array} model.LoreEntry
// @Router /lore [get]
func (h *EntityHandler) ListLore(c echo.Context) error {
	return c.JSON(http.StatusOK, h.spiritual.ListLore(c.Request().Context()))
}
