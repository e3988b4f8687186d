package service

import (
	"context"
	"strings"
	"time"

	"conselhoreal/internal/cache"
	"conselhoreal/internal/model"
	"conselhoreal/internal/repository"
)

const (
	loreCacheKey = "lore:all"
	loreCacheTTL = 10 * time.Minute
)

// SpiritualRepository is what SpiritualService needs from the repository.
type SpiritualRepository interface {
	repository.SpiritualEntityRepository
	repository.LoreRepository
}

// SpiritualService exposes the house catalog of entities and its lore.
type SpiritualService interface {
	ListEntities(ctx context.Context) []model.SpiritualEntity
	CreateEntity(ctx context.Context, entity model.SpiritualEntity) (model.SpiritualEntity, error)
	UpdateEntity(ctx context.Context, id int64, patch model.SpiritualEntityPatch) (model.SpiritualEntity, error)
	DeleteEntity(ctx context.Context, id int64) error
	AppendHistory(ctx context.Context, id int64, description string) error
	ListLore(ctx context.Context) []model.LoreEntry
}

type spiritualService struct {
	repo  SpiritualRepository
	cache cache.Store
}

// NewSpiritualService creates a new spiritual service. Lore is read-only and cached.
func NewSpiritualService(repo SpiritualRepository, store cache.Store) SpiritualService {
	return &spiritualService{repo: repo, cache: store}
}

func (s *spiritualService) ListEntities(ctx context.Context) []model.SpiritualEntity {
	return s.repo.ListSpiritualEntities(ctx)
}

func (s *spiritualService) CreateEntity(ctx context.Context, entity model.SpiritualEntity) (model.SpiritualEntity, error) {
	entity.Name = strings.TrimSpace(entity.Name)
	return s.repo.CreateSpiritualEntity(ctx, entity)
}

// UpdateEntity saves the change; a new description pushes the previous one into the history.
func (s *spiritualService) UpdateEntity(ctx context.Context, id int64, patch model.SpiritualEntityPatch) (model.SpiritualEntity, error) {
	return s.repo.UpdateSpiritualEntity(ctx, id, patch)
}

func (s *spiritualService) DeleteEntity(ctx context.Context, id int64) error {
	return s.repo.DeleteSpiritualEntity(ctx, id)
}

func (s *spiritualService) AppendHistory(ctx context.Context, id int64, description string) error {
	return s.repo.AppendSpiritualEntityHistory(ctx, id, strings.TrimSpace(description))
}

func (s *spiritualService) ListLore(ctx context.Context) []model.LoreEntry {
	var cached []model.LoreEntry
	if readCached(ctx, s.cache, loreCacheKey, &cached) {
		return cached
	}

	entries := s.repo.ListLoreEntries(ctx)
	writeCached(ctx, s.cache, loreCacheKey, entries, loreCacheTTL)
	return entries
}
