package service

import (
	"context"

	"conselhoreal/internal/model"
	"conselhoreal/internal/repository"
)

// MemberEntityService exposes the entities each member works with.
type MemberEntityService interface {
	List(ctx context.Context, userID int64) []model.MemberEntity
	Get(ctx context.Context, id int64) (model.MemberEntity, error)
	Create(ctx context.Context, entity model.MemberEntity) (model.MemberEntity, error)
	Update(ctx context.Context, id int64, patch model.MemberEntityPatch) (model.MemberEntity, error)
	Delete(ctx context.Context, id int64) error
}

type memberEntityService struct {
	repo repository.MemberEntityRepository
}

// NewMemberEntityService creates a new member entity service.
func NewMemberEntityService(repo repository.MemberEntityRepository) MemberEntityService {
	return &memberEntityService{repo: repo}
}

func (s *memberEntityService) List(ctx context.Context, userID int64) []model.MemberEntity {
	return s.repo.ListMemberEntities(ctx, userID)
}

func (s *memberEntityService) Get(ctx context.Context, id int64) (model.MemberEntity, error) {
	return s.repo.GetMemberEntity(ctx, id)
}

func (s *memberEntityService) Create(ctx context.Context, entity model.MemberEntity) (model.MemberEntity, error) {
	return s.repo.CreateMemberEntity(ctx, entity)
}

func (s *memberEntityService) Update(ctx context.Context, id int64, patch model.MemberEntityPatch) (model.MemberEntity, error) {
	return s.repo.UpdateMemberEntity(ctx, id, patch)
}

func (s *memberEntityService) Delete(ctx context.Context, id int64) error {
	return s.repo.DeleteMemberEntity(ctx, id)
}
