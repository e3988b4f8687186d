package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"conselhoreal/internal/model"
	"conselhoreal/internal/service"
)

// MessageHandler serves recados.
type MessageHandler struct {
	svc service.MessageService
}

// NewMessageHandler creates a new message handler.
func NewMessageHandler(svc service.MessageService) *MessageHandler {
	return &MessageHandler{svc: svc}
}

// SendRecadoRequest addresses a recado to a user.
type SendRecadoRequest struct {
	UserID  int64  `json:"userId" validate:"required,gt=0"`
	From    string `json:"from"`
	Message string `json:"message" validate:"required"`
}

// ReadRequest sets the read flag of a recado.
type ReadRequest struct {
	Read bool `json:"read"`
}

// RecadoInbox is the caller's recados plus how many are unread.
type RecadoInbox struct {
	Recados []model.Recado `json:"recados"`
	Unread  int            `json:"unread"`
}

// ListOwnRecados godoc
// @Summary List own recados, newest first
// @Tags recados
// @Produce json
// @Security BearerAuth
// @Success 200 {object} RecadoInbox
// @Router /recados [get]
func (h *MessageHandler) ListOwnRecados(c echo.Context) error {
	claims, err := currentClaims(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	return c.JSON(http.StatusOK, RecadoInbox{
		Recados: h.svc.List(ctx, claims.UserID),
		Unread:  h.svc.UnreadCount(ctx, claims.UserID),
	})
}

// SetOwnRecadoRead godoc
// @Summary Mark own recado as read or unread
// @Tags recados
// @Accept json
// @Security BearerAuth
// @Param id path int true "Recado ID"
// @Param request body ReadRequest true "Read flag"
// @Success 204
// @Failure 404 {object} errors.ErrorResponse
// @Router /recados/{id}/read [put]
func (h *MessageHandler) SetOwnRecadoRead(c echo.Context) error {
	claims, err := currentClaims(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req ReadRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := h.svc.SetOwnRead(c.Request().Context(), claims.UserID, id, req.Read); err != nil {
		return errorResponse(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// MarkAllRead godoc
// @Summary Mark every own recado as read
// @Tags recados
// @Security BearerAuth
// @Success 204
// @Router /recados/read-all [post]
func (h *MessageHandler) MarkAllRead(c echo.Context) error {
	claims, err := currentClaims(c)
	if err != nil {
		return err
	}
	if err := h.svc.MarkAllRead(c.Request().Context(), claims.UserID); err != nil {
		return errorResponse(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ListRecados godoc
// @Summary List recados of every user, or of one
// @Tags recados
// @Produce json
// @Security BearerAuth
// @Param userId query int false "Recipient"
// @Success 200 {array} model.Recado
// @Router /admin/recados [get]
func (h *MessageHandler) ListRecados(c echo.Context) error {
	userID, err := queryID(c, "userId")
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.svc.List(c.Request().Context(), userID))
}

// SendRecado godoc
// @Summary Send recado
// @Tags recados
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body SendRecadoRequest true "Recado"
// @Success 201 {object} model.Recado
// @Failure 400 {object} errors.ErrorResponse
// @Router /admin/recados [post]
func (h *MessageHandler) SendRecado(c echo.Context) error {
	var req SendRecadoRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	recado, err := h.svc.Send(c.Request().Context(), req.UserID, req.From, req.Message)
	if err != nil {
		return errorResponse(err)
	}
	return c.JSON(http.StatusCreated, recado)
}

// SetRecadoRead godoc
// @Summary Mark any recado as read or unread
// @Tags recados
// @Accept json
// @Security BearerAuth
// @Param id path int true "Recado ID"
// @Param request body ReadRequest true "Read flag"
// @Success 204
// @Router /admin/recados/{id}/read [put]
func (h *MessageHandler) SetRecadoRead(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req ReadRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := h.svc.SetRead(c.Request().Context(), id, req.Read); err != nil {
		return errorResponse(err)
	}
	return c.NoContent(http.StatusNoContent)
}
