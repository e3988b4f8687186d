package service

import (
	"context"
	"fmt"

	apperrors "conselhoreal/internal/errors"
	"conselhoreal/internal/model"
	"conselhoreal/internal/repository"
)

// EventService exposes the agenda.
type EventService interface {
	List(ctx context.Context) []model.Event
	Create(ctx context.Context, event model.Event) (model.Event, error)
	Update(ctx context.Context, id int64, patch model.EventPatch) (model.Event, error)
	Delete(ctx context.Context, id int64) error
	Participate(ctx context.Context, id int64) (model.Event, error)
}

type eventService struct {
	repo repository.EventRepository
}

// NewEventService creates a new event service.
func NewEventService(repo repository.EventRepository) EventService {
	return &eventService{repo: repo}
}

func (s *eventService) List(ctx context.Context) []model.Event {
	return s.repo.ListEvents(ctx)
}

// Create stores a new event. New events start without attendees.
func (s *eventService) Create(ctx context.Context, event model.Event) (model.Event, error) {
	event.Attendees = 0
	return s.repo.CreateEvent(ctx, event)
}

func (s *eventService) Update(ctx context.Context, id int64, patch model.EventPatch) (model.Event, error) {
	return s.repo.UpdateEvent(ctx, id, patch)
}

func (s *eventService) Delete(ctx context.Context, id int64) error {
	return s.repo.DeleteEvent(ctx, id)
}

// Participate adds one attendee and leaves every other field untouched.
// Events with a capacity refuse attendees beyond it.
func (s *eventService) Participate(ctx context.Context, id int64) (model.Event, error) {
	event, err := s.repo.GetEvent(ctx, id)
	if err != nil {
		return model.Event{}, err
	}
	if event.Capacity > 0 && event.Attendees >= event.Capacity {
		return model.Event{}, apperrors.ErrEventFull
	}

	attendees := event.Attendees + 1
	updated, err := s.repo.UpdateEvent(ctx, id, model.EventPatch{Attendees: &attendees})
	if err != nil {
		return model.Event{}, fmt.Errorf("participate in event %d: %w", id, err)
	}
	return updated, nil
}
