package handler

import (
	"context"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "conselhoreal/internal/errors"
	"conselhoreal/internal/model"
	"conselhoreal/internal/service"
	"conselhoreal/internal/storage"
)

// UploadOpener serves back images kept by an in-process uploader.
type UploadOpener interface {
	Open(ctx context.Context, key string) (body []byte, contentType string, ok bool)
}

// GalleryHandler serves gallery images.
type GalleryHandler struct {
	svc    service.GalleryService
	opener UploadOpener
}

// NewGalleryHandler creates a new gallery handler. opener may be nil when uploads
// are served by object storage.
func NewGalleryHandler(svc service.GalleryService, opener UploadOpener) *GalleryHandler {
	return &GalleryHandler{svc: svc, opener: opener}
}

// GalleryImageRequest registers an image already hosted elsewhere.
type GalleryImageRequest struct {
	Src      string `json:"src" validate:"required,url"`
	Alt      string `json:"alt"`
	Caption  string `json:"caption"`
	Category string `json:"category"`
}

// ListGallery godoc
// @Summary List gallery images, newest first
// @Tags gallery
// @Produce json
// @Success 200 {array} model.GalleryImage
// @Router /gallery [get]
func (h *GalleryHandler) ListGallery(c echo.Context) error {
	return c.JSON(http.StatusOK, h.svc.List(c.Request().Context()))
}

// CreateImage godoc
// @Summary Register gallery image by URL
// @Tags gallery
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body GalleryImageRequest true "Image"
// @Success 201 {object} model.GalleryImage
// @Failure 400 {object} errors.ErrorResponse
// @Router /admin/gallery [post]
func (h *GalleryHandler) CreateImage(c echo.Context) error {
	var req GalleryImageRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	image, err := h.svc.Create(c.Request().Context(), model.GalleryImage{
		Src:      req.Src,
		Alt:      req.Alt,
		Caption:  req.Caption,
		Category: model.ParseImageCategory(req.Category),
	})
	if err != nil {
		return errorResponse(err)
	}
	return c.JSON(http.StatusCreated, image)
}

// UploadImage godoc
// @Summary Upload gallery image
// @Description Accepts images up to 2 MB.
// @Tags gallery
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "Image file"
// @Param alt formData string false "Alternative text"
// @Param caption formData string false "Caption"
// @Param category formData string false "Terreiro, Eventos or Símbolos"
// @Success 201 {object} model.GalleryImage
// @Failure 400 {object} errors.ErrorResponse
// @Router /admin/gallery/upload [post]
func (h *GalleryHandler) UploadImage(c echo.Context) error {
	file, err := c.FormFile("file")
	if err != nil {
		return badRequest("missing file")
	}
	src, err := file.Open()
	if err != nil {
		return badRequest("unreadable file")
	}
	defer src.Close()

	body, err := io.ReadAll(io.LimitReader(src, storage.MaxUploadSize+1))
	if err != nil {
		return badRequest("unreadable file")
	}

	// Browsers send octet-stream for unknown types; let the uploader sniff those.
	contentType := file.Header.Get(echo.HeaderContentType)
	if contentType == echo.MIMEOctetStream {
		contentType = ""
	}

	image, err := h.svc.Upload(c.Request().Context(), service.UploadInput{
		FileName:    file.Filename,
		ContentType: contentType,
		Body:        body,
		Alt:         c.FormValue("alt"),
		Caption:     c.FormValue("caption"),
		Category:    model.ParseImageCategory(c.FormValue("category")),
	})
	if err != nil {
		return errorResponse(err)
	}
	return c.JSON(http.StatusCreated, image)
}

// ServeUpload godoc
// @Summary Serve an image uploaded in local mode
// @Tags gallery
// @Produce image/png
// @Param key path string true "Upload key"
// @Success 200 {file} binary
// @Failure 404 {object} errors.ErrorResponse
// @Router /gallery/uploads/{key} [get]
func (h *GalleryHandler) ServeUpload(c echo.Context) error {
	if h.opener == nil {
		return errorResponse(apperrors.ErrNotFound)
	}
	body, contentType, ok := h.opener.Open(c.Request().Context(), c.Param("key"))
	if !ok {
		return errorResponse(apperrors.ErrNotFound)
	}
	return c.Blob(http.StatusOK, contentType, body)
}
