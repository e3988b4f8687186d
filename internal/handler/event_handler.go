package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"conselhoreal/internal/model"
	"conselhoreal/internal/service"
)

// EventHandler serves the agenda.
type EventHandler struct {
	svc service.EventService
}

// NewEventHandler creates a new event handler.
func NewEventHandler(svc service.EventService) *EventHandler {
	return &EventHandler{svc: svc}
}

// EventRequest is the payload to create an event. Date accepts ISO or dd/mm/yyyy text.
type EventRequest struct {
	Title    string `json:"title" validate:"required"`
	Type     string `json:"type"`
	Date     string `json:"date"`
	Capacity int    `json:"capacity" validate:"gte=0"`
}

// EventUpdateRequest changes only the fields it carries.
type EventUpdateRequest struct {
	Title     *string `json:"title"`
	Type      *string `json:"type"`
	Date      *string `json:"date"`
	Capacity  *int    `json:"capacity" validate:"omitempty,gte=0"`
	Attendees *int    `json:"attendees" validate:"omitempty,gte=0"`
}

func (r EventUpdateRequest) patch() model.EventPatch {
	p := model.EventPatch{Title: r.Title, Capacity: r.Capacity, Attendees: r.Attendees}
	if r.Type != nil {
		t := model.ParseEventType(*r.Type)
		p.Type = &t
	}
	if r.Date != nil {
		d := model.NormalizeDate(*r.Date)
		p.Date = &d
	}
	return p
}

// ListEvents godoc
// @Summary List events
// @Tags events
// @Produce json
// @Success 200 {array} model.Event
// @Router /events [get]
func (h *EventHandler) ListEvents(c echo.Context) error {
	return c.JSON(http.StatusOK, h.svc.List(c.Request().Context()))
}

// CreateEvent godoc
// @Summary Create event
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body EventRequest true "Event"
// @Success 201 {object} model.Event
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /admin/events [post]
func (h *EventHandler) CreateEvent(c echo.Context) error {
	var req EventRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	event, err := h.svc.Create(c.Request().Context(), model.Event{
		Title:    req.Title,
		Type:     model.ParseEventType(req.Type),
		Date:     model.NormalizeDate(req.Date),
		Capacity: req.Capacity,
	})
	if err != nil {
		return errorResponse(err)
	}
	return c.JSON(http.StatusCreated, event)
}

// UpdateEvent godoc
// @Summary Update event
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Param request body EventUpdateRequest true "Fields to change"
// @Success 200 {object} model.Event
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /admin/events/{id} [put]
func (h *EventHandler) UpdateEvent(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req EventUpdateRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	event, err := h.svc.Update(c.Request().Context(), id, req.patch())
	if err != nil {
		return errorResponse(err)
	}
	return c.JSON(http.StatusOK, event)
}

// DeleteEvent godoc
// @Summary Delete event
// @Tags events
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Success 204
// @Router /admin/events/{id} [delete]
func (h *EventHandler) DeleteEvent(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return errorResponse(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Participate godoc
// @Summary Confirm presence in an event
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Success 200 {object} model.Event
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /events/{id}/participate [post]
func (h *EventHandler) Participate(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	event, err := h.svc.Participate(c.Request().Context(), id)
	if err != nil {
		return errorResponse(err)
	}
	return c.JSON(http.StatusOK, event)
}
