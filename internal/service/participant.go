package service

import (
	"context"

	"colloquy.app/server/internal/model"
)

// ParticipantService exposes the read-only participant registry.
type ParticipantService interface {
	Get(ctx context.Context, id int64) (*model.Participant, error)
	ListActive(ctx context.Context, category string) ([]model.Participant, error)
}

type participantService struct {
	stores StoreProvider
}

func NewParticipantService(stores StoreProvider) ParticipantService {
	return &participantService{stores: stores}
}

func (s *participantService) Get(ctx context.Context, id int64) (*model.Participant, error) {
	return s.stores.Participants().GetByID(ctx, id)
}

func (s *participantService) ListActive(ctx context.Context, category string) ([]model.Participant, error) {
	return s.stores.Participants().ListActive(ctx, category)
}
