// Package storage keeps the files behind gallery images.
package storage

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "conselhoreal/internal/errors"
)

// MaxUploadSize is the largest accepted gallery image.
const MaxUploadSize = 2 << 20

const keyPrefix = "gallery/"

// Uploader stores an image and returns the URL it is served from.
type Uploader interface {
	Upload(ctx context.Context, name, contentType string, body []byte) (string, error)
}

// validate checks size and type and returns the effective content type.
func validate(contentType string, body []byte) (string, error) {
	if len(body) == 0 || len(body) > MaxUploadSize {
		return "", fmt.Errorf("%w: size %d bytes", apperrors.ErrInvalidUpload, len(body))
	}
	if ct, _, _ := strings.Cut(contentType, ";"); strings.TrimSpace(ct) != "" {
		contentType = strings.ToLower(strings.TrimSpace(ct))
	} else {
		contentType = http.DetectContentType(body)
	}
	if !strings.HasPrefix(contentType, "image/") {
		return "", fmt.Errorf("%w: content type %s", apperrors.ErrInvalidUpload, contentType)
	}
	return contentType, nil
}

// objectKey names an upload gallery/<unix-ms>-<uuid>.<ext>. The extension comes
// from the file name, else from the image subtype.
func objectKey(name, contentType string, now time.Time) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	if ext == "" {
		ext = strings.TrimPrefix(contentType, "image/")
		ext, _, _ = strings.Cut(ext, "+")
	}
	return fmt.Sprintf("%s%d-%s.%s", keyPrefix, now.UnixMilli(), uuid.NewString(), ext)
}
