package service

import (
	"context"
	"slices"
	"strings"

	apperrors "conselhoreal/internal/errors"
	"conselhoreal/internal/model"
	"conselhoreal/internal/repository"
)

// MessageService exposes recados, the private messages sent to members.
type MessageService interface {
	List(ctx context.Context, userID int64) []model.Recado
	Send(ctx context.Context, userID int64, from, message string) (model.Recado, error)
	SetRead(ctx context.Context, id int64, read bool) error
	SetOwnRead(ctx context.Context, userID, id int64, read bool) error
	MarkAllRead(ctx context.Context, userID int64) error
	UnreadCount(ctx context.Context, userID int64) int
}

type messageService struct {
	repo repository.RecadoRepository
}

// NewMessageService creates a new message service.
func NewMessageService(repo repository.RecadoRepository) MessageService {
	return &messageService{repo: repo}
}

// List returns the recados of userID, or every recado when userID is zero.
func (s *messageService) List(ctx context.Context, userID int64) []model.Recado {
	return s.repo.ListRecados(ctx, userID)
}

func (s *messageService) Send(ctx context.Context, userID int64, from, message string) (model.Recado, error) {
	return s.repo.CreateRecado(ctx, model.Recado{
		UserID:  userID,
		From:    strings.TrimSpace(from),
		Message: strings.TrimSpace(message),
	})
}

func (s *messageService) SetRead(ctx context.Context, id int64, read bool) error {
	return s.repo.ToggleRecadoRead(ctx, id, read)
}

// SetOwnRead changes the read flag of a recado addressed to userID.
func (s *messageService) SetOwnRead(ctx context.Context, userID, id int64, read bool) error {
	owned := slices.ContainsFunc(s.repo.ListRecados(ctx, userID), func(r model.Recado) bool { return r.ID == id })
	if !owned {
		return apperrors.ErrNotFound
	}
	return s.repo.ToggleRecadoRead(ctx, id, read)
}

func (s *messageService) MarkAllRead(ctx context.Context, userID int64) error {
	return s.repo.MarkRecadosAsRead(ctx, userID)
}

func (s *messageService) UnreadCount(ctx context.Context, userID int64) int {
	count := 0
	for _, r := range s.repo.ListRecados(ctx, userID) {
		if !r.Read {
			count++
		}
	}
	return count
}
