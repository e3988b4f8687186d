package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"conselhoreal/internal/model"
	"conselhoreal/internal/service"
)

// DiaryHandler serves the signed-in member's diary.
type DiaryHandler struct {
	svc service.DiaryService
}

// NewDiaryHandler creates a new diary handler.
func NewDiaryHandler(svc service.DiaryService) *DiaryHandler {
	return &DiaryHandler{svc: svc}
}

// DiaryEntryRequest is the payload to write a diary entry.
type DiaryEntryRequest struct {
	Title      string            `json:"title" validate:"required"`
	Content    string            `json:"content"`
	Tags       []string          `json:"tags"`
	DueDate    string            `json:"dueDate"`
	Attachment *model.Attachment `json:"attachment"`
}

// DiaryEntryUpdateRequest changes only the fields it carries. An empty dueDate
// removes the due date; removeAttachment drops the attachment.
type DiaryEntryUpdateRequest struct {
	Title            *string           `json:"title"`
	Content          *string           `json:"content"`
	Tags             []string          `json:"tags"`
	DueDate          *string           `json:"dueDate"`
	Attachment       *model.Attachment `json:"attachment"`
	RemoveAttachment bool              `json:"removeAttachment"`
}

func (r DiaryEntryUpdateRequest) patch() model.DiaryEntryPatch {
	p := model.DiaryEntryPatch{
		Title:           r.Title,
		Content:         r.Content,
		Tags:            r.Tags,
		Attachment:      r.Attachment,
		ClearAttachment: r.RemoveAttachment,
	}
	if r.DueDate != nil {
		if strings.TrimSpace(*r.DueDate) == "" {
			p.ClearDueDate = true
		} else {
			due := model.NormalizeDate(*r.DueDate)
			p.DueDate = &due
		}
	}
	return p
}

func dueDate(value string) *time.Time {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	due := model.NormalizeDate(value)
	return &due
}

// ListDiary godoc
// @Summary List own diary entries, newest first
// @Tags diary
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.DiaryEntry
// @Router /diary [get]
func (h *DiaryHandler) ListDiary(c echo.Context) error {
	claims, err := currentClaims(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.svc.List(c.Request().Context(), claims.UserID))
}

// CreateDiaryEntry godoc
// @Summary Write diary entry
// @Tags diary
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body DiaryEntryRequest true "Entry"
// @Success 201 {object} model.DiaryEntry
// @Failure 400 {object} errors.ErrorResponse
// @Router /diary [post]
func (h *DiaryHandler) CreateDiaryEntry(c echo.Context) error {
	claims, err := currentClaims(c)
	if err != nil {
		return err
	}
	var req DiaryEntryRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	entry, err := h.svc.Create(c.Request().Context(), claims.UserID, model.DiaryEntry{
		Title:      req.Title,
		Content:    req.Content,
		Tags:       req.Tags,
		DueDate:    dueDate(req.DueDate),
		Attachment: req.Attachment,
	})
	if err != nil {
		return errorResponse(err)
	}
	return c.JSON(http.StatusCreated, entry)
}

// UpdateDiaryEntry godoc
// @Summary Update own diary entry
// @Tags diary
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Entry ID"
// @Param request body DiaryEntryUpdateRequest true "Fields to change"
// @Success 200 {object} model.DiaryEntry
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /diary/{id} [put]
func (h *DiaryHandler) UpdateDiaryEntry(c echo.Context) error {
	claims, err := currentClaims(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req DiaryEntryUpdateRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	entry, err := h.svc.Update(c.Request().Context(), claims.UserID, id, req.patch())
	if err != nil {
		return errorResponse(err)
	}
	return c.JSON(http.StatusOK, entry)
}

// DeleteDiaryEntry godoc
// @Summary Delete own diary entry
// @Tags diary
// @Security BearerAuth
// @Param id path int true "Entry ID"
// @Success 204
// @Failure 403 {object} errors.ErrorResponse
// @Router /diary/{id} [delete]
func (h *DiaryHandler) DeleteDiaryEntry(c echo.Context) error {
	claims, err := currentClaims(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.svc.Delete(c.Request().Context(), claims.UserID, id); err != nil {
		return errorResponse(err)
	}
	return c.NoContent(http.StatusNoContent)
}
