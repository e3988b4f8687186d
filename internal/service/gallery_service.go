package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"conselhoreal/internal/model"
	"conselhoreal/internal/repository"
	"conselhoreal/internal/storage"
)

// UploadInput is an image file plus its gallery metadata.
type UploadInput struct {
	FileName    string
	ContentType string
	Body        []byte
	Alt         string
	Caption     string
	Category    model.ImageCategory
}

// GalleryService exposes gallery images.
type GalleryService interface {
	List(ctx context.Context) []model.GalleryImage
	Create(ctx context.Context, image model.GalleryImage) (model.GalleryImage, error)
	Upload(ctx context.Context, in UploadInput) (model.GalleryImage, error)
}

type galleryService struct {
	repo     repository.GalleryRepository
	uploader storage.Uploader
	logger   *zap.Logger
}

// NewGalleryService creates a new gallery service.
func NewGalleryService(repo repository.GalleryRepository, uploader storage.Uploader, logger *zap.Logger) GalleryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &galleryService{repo: repo, uploader: uploader, logger: logger}
}

func (s *galleryService) List(ctx context.Context) []model.GalleryImage {
	return s.repo.ListGalleryImages(ctx)
}

// Create registers an image that is already hosted elsewhere.
func (s *galleryService) Create(ctx context.Context, image model.GalleryImage) (model.GalleryImage, error) {
	return s.repo.CreateGalleryImage(ctx, image)
}

// Upload stores the file, then records it in the gallery under the returned URL.
func (s *galleryService) Upload(ctx context.Context, in UploadInput) (model.GalleryImage, error) {
	url, err := s.uploader.Upload(ctx, in.FileName, in.ContentType, in.Body)
	if err != nil {
		return model.GalleryImage{}, fmt.Errorf("upload %s: %w", in.FileName, err)
	}
	s.logger.Info("gallery image uploaded", zap.String("url", url), zap.Int("bytes", len(in.Body)))

	return s.repo.CreateGalleryImage(ctx, model.GalleryImage{
		Src:      url,
		Alt:      in.Alt,
		Caption:  in.Caption,
		Category: in.Category,
	})
}
