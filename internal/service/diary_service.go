package service

import (
	"context"
	"errors"

	apperrors "conselhoreal/internal/errors"
	"conselhoreal/internal/model"
	"conselhoreal/internal/repository"
)

// DiaryService exposes a member's private diary. Entries are only visible to,
// and only changed by, their owner.
type DiaryService interface {
	List(ctx context.Context, userID int64) []model.DiaryEntry
	Create(ctx context.Context, userID int64, entry model.DiaryEntry) (model.DiaryEntry, error)
	Update(ctx context.Context, userID, id int64, patch model.DiaryEntryPatch) (model.DiaryEntry, error)
	Delete(ctx context.Context, userID, id int64) error
}

type diaryService struct {
	repo repository.DiaryRepository
}

// NewDiaryService creates a new diary service.
func NewDiaryService(repo repository.DiaryRepository) DiaryService {
	return &diaryService{repo: repo}
}

func (s *diaryService) List(ctx context.Context, userID int64) []model.DiaryEntry {
	return s.repo.ListDiaryEntries(ctx, userID)
}

func (s *diaryService) Create(ctx context.Context, userID int64, entry model.DiaryEntry) (model.DiaryEntry, error) {
	entry.UserID = userID
	return s.repo.CreateDiaryEntry(ctx, entry)
}

func (s *diaryService) Update(ctx context.Context, userID, id int64, patch model.DiaryEntryPatch) (model.DiaryEntry, error) {
	if err := s.checkOwner(ctx, userID, id); err != nil {
		return model.DiaryEntry{}, err
	}
	patch.UserID = nil
	return s.repo.UpdateDiaryEntry(ctx, id, patch)
}

// Delete removes an owned entry. Deleting an unknown entry succeeds.
func (s *diaryService) Delete(ctx context.Context, userID, id int64) error {
	err := s.checkOwner(ctx, userID, id)
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	return s.repo.DeleteDiaryEntry(ctx, id)
}

func (s *diaryService) checkOwner(ctx context.Context, userID, id int64) error {
	entry, err := s.repo.GetDiaryEntry(ctx, id)
	if err != nil {
		return err
	}
	if entry.UserID != userID {
		return apperrors.ErrForbidden
	}
	return nil
}
