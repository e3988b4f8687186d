package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"conselhoreal/internal/service"
)

// NoticeHandler serves announcements and the prayer wall.
type NoticeHandler struct {
	announcements service.AnnouncementService
	prayers       service.PrayerService
}

// NewNoticeHandler creates a new notice handler.
func NewNoticeHandler(announcements service.AnnouncementService, prayers service.PrayerService) *NoticeHandler {
	return &NoticeHandler{announcements: announcements, prayers: prayers}
}

// AnnouncementRequest is the payload to publish an announcement.
type AnnouncementRequest struct {
	Title   string `json:"title" validate:"required"`
	Content string `json:"content" validate:"required"`
}

// PrayerRequestRequest is a prayer submission. Only the initials of Name are kept.
type PrayerRequestRequest struct {
	Name    string `json:"name"`
	Request string `json:"request" validate:"required,max=2000"`
}

// ListAnnouncements godoc
// @Summary List announcements, newest first
// @Tags announcements
// @Produce json
// @Success 200 {array} model.Announcement
// @Router /announcements [get]
func (h *NoticeHandler) ListAnnouncements(c echo.Context) error {
	return c.JSON(http.StatusOK, h.announcements.List(c.Request().Context()))
}

// CreateAnnouncement godoc
// @Summary Publish announcement
// @Tags announcements
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body AnnouncementRequest true "Announcement"
// @Success 201 {object} model.Announcement
// @Failure 400 {object} errors.ErrorResponse
// @Router /admin/announcements [post]
func (h *NoticeHandler) CreateAnnouncement(c echo.Context) error {
	var req AnnouncementRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	announcement, err := h.announcements.Create(c.Request().Context(), req.Title, req.Content)
	if err != nil {
		return errorResponse(err)
	}
	return c.JSON(http.StatusCreated, announcement)
}

// ListPrayerRequests godoc
// @Summary List prayer requests, newest first
// @Tags prayers
// @Produce json
// @Success 200 {array} model.PrayerRequest
// @Router /prayer-requests [get]
func (h *NoticeHandler) ListPrayerRequests(c echo.Context) error {
	return c.JSON(http.StatusOK, h.prayers.List(c.Request().Context()))
}

// SubmitPrayerRequest godoc
// @Summary Submit prayer request
// @Tags prayers
// @Accept json
// @Produce json
// @Param request body PrayerRequestRequest true "Prayer request"
// @Success 201 {object} model.PrayerRequest
// @Failure 400 {object} errors.ErrorResponse
// @Router /prayer-requests [post]
func (h *NoticeHandler) SubmitPrayerRequest(c echo.Context) error {
	var req PrayerRequestRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	request, err := h.prayers.Submit(c.Request().Context(), req.Name, req.Request)
	if err != nil {
		return errorResponse(err)
	}
	return c.JSON(http.StatusCreated, request)
}
