package storage

import (
	"context"
	"net/http"
	"strings"
	"time"

	"conselhoreal/internal/cache"
)

// LocalUploadTTL is how long LocalUploader keeps an image.
const LocalUploadTTL = time.Hour

// LocalRoutePrefix is where the HTTP layer serves LocalUploader images.
const LocalRoutePrefix = "/api/gallery/uploads/"

// localStorePrefix keeps uploads apart from everything else in a shared store.
const localStorePrefix = "upload:"

// LocalUploader keeps images in process for an hour. It stands in for object
// storage in development; images do not survive a restart.
type LocalUploader struct {
	store cache.Store
}

var _ Uploader = (*LocalUploader)(nil)

// NewLocalUploader returns an uploader over store.
func NewLocalUploader(store cache.Store) *LocalUploader {
	return &LocalUploader{store: store}
}

func (u *LocalUploader) Upload(ctx context.Context, name, contentType string, body []byte) (string, error) {
	contentType, err := validate(contentType, body)
	if err != nil {
		return "", err
	}
	key := strings.TrimPrefix(objectKey(name, contentType, time.Now()), keyPrefix)
	if err := u.store.Set(ctx, localStorePrefix+key, body, LocalUploadTTL); err != nil {
		return "", err
	}
	return LocalRoutePrefix + key, nil
}

// Open returns a stored image and its sniffed content type. ok is false when
// the key is unknown or expired. Only keys issued by Upload resolve.
func (u *LocalUploader) Open(ctx context.Context, key string) (body []byte, contentType string, ok bool) {
	if key == "" || strings.ContainsAny(key, ":/") {
		return nil, "", false
	}
	body, err := u.store.Get(ctx, localStorePrefix+key)
	if err != nil || body == nil {
		return nil, "", false
	}
	return body, http.DetectContentType(body), true
}
