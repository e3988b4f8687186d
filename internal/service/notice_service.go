package service

import (
	"context"
	"strings"

	"conselhoreal/internal/model"
	"conselhoreal/internal/repository"
)

// AnnouncementService exposes general notices.
type AnnouncementService interface {
	List(ctx context.Context) []model.Announcement
	Create(ctx context.Context, title, content string) (model.Announcement, error)
}

type announcementService struct {
	repo repository.AnnouncementRepository
}

// NewAnnouncementService creates a new announcement service.
func NewAnnouncementService(repo repository.AnnouncementRepository) AnnouncementService {
	return &announcementService{repo: repo}
}

func (s *announcementService) List(ctx context.Context) []model.Announcement {
	return s.repo.ListAnnouncements(ctx)
}

func (s *announcementService) Create(ctx context.Context, title, content string) (model.Announcement, error) {
	return s.repo.CreateAnnouncement(ctx, model.Announcement{
		Title:   strings.TrimSpace(title),
		Content: strings.TrimSpace(content),
	})
}

// PrayerService exposes the prayer wall.
type PrayerService interface {
	List(ctx context.Context) []model.PrayerRequest
	Submit(ctx context.Context, name, request string) (model.PrayerRequest, error)
}

type prayerService struct {
	repo repository.PrayerRequestRepository
}

// NewPrayerService creates a new prayer service.
func NewPrayerService(repo repository.PrayerRequestRepository) PrayerService {
	return &prayerService{repo: repo}
}

func (s *prayerService) List(ctx context.Context) []model.PrayerRequest {
	return s.repo.ListPrayerRequests(ctx)
}

// Submit stores a request signed only with the initials of name.
func (s *prayerService) Submit(ctx context.Context, name, request string) (model.PrayerRequest, error) {
	return s.repo.CreatePrayerRequest(ctx, model.PrayerRequest{
		Initials: model.Initials(name),
		Request:  strings.TrimSpace(request),
	})
}
