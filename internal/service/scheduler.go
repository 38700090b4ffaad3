package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"colloquy.app/server/common/logger"
	"colloquy.app/server/internal/model"
	"colloquy.app/server/internal/store"
)

// SpeakerState is the scheduler's view of a round table at one moment.
type SpeakerState struct {
	RoundTable     *model.RoundTable
	CurrentSpeaker *model.RoundTableParticipant // nil before the first advance
	Participants   []model.RoundTableParticipant
}

// SchedulerService owns turn-taking for round tables. All mutation of
// CurrentSpeakerID and RoundNumber happens here, serialized through a
// row lock so concurrent advances cannot interleave.
type SchedulerService interface {
	CurrentSpeaker(ctx context.Context, roundTableID int64) (*SpeakerState, error)
	Advance(ctx context.Context, roundTableID int64) (*SpeakerState, error)
}

type schedulerService struct {
	stores   StoreProvider
	txRunner TxRunner
	logger   *slog.Logger
}

func NewSchedulerService(stores StoreProvider, txRunner TxRunner, logger *slog.Logger) SchedulerService {
	if logger == nil {
		logger = slog.Default()
	}
	return &schedulerService{
		stores:   stores,
		txRunner: txRunner,
		logger:   logger,
	}
}

func (s *schedulerService) CurrentSpeaker(ctx context.Context, roundTableID int64) (*SpeakerState, error) {
	rt, err := s.stores.RoundTables().GetByID(ctx, roundTableID)
	if err != nil {
		return nil, fmt.Errorf("fetching round table: %w", err)
	}

	participants, err := s.stores.RoundTables().ListParticipants(ctx, roundTableID)
	if err != nil {
		return nil, fmt.Errorf("listing participants: %w", err)
	}

	return buildState(rt, participants), nil
}

// Advance moves the speaker pointer to the next active seat in speaking
// order, wrapping past the end. A single-seat table keeps the turn and
// increments the round number on every advance. Inactive seats are
// skipped without consuming a turn.
func (s *schedulerService) Advance(ctx context.Context, roundTableID int64) (*SpeakerState, error) {
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		RoundTableID: logger.Ptr(roundTableID),
		Component:    "colloquy.scheduler",
	})

	var state *SpeakerState
	err := s.txRunner.WithTx(ctx, func(sp StoreProvider) error {
		rt, err := sp.RoundTables().GetByIDForUpdate(ctx, roundTableID)
		if err != nil {
			return fmt.Errorf("locking round table: %w", err)
		}

		participants, err := sp.RoundTables().ListParticipants(ctx, roundTableID)
		if err != nil {
			return fmt.Errorf("listing participants: %w", err)
		}

		next, round, err := nextSpeaker(rt, participants)
		if err != nil {
			return err
		}

		if err := sp.RoundTables().SetSpeaker(ctx, rt.ID, &next.ID, round); err != nil {
			return fmt.Errorf("updating speaker: %w", err)
		}

		rt.CurrentSpeakerID = &next.ID
		rt.RoundNumber = round
		state = buildState(rt, participants)
		return nil
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) || errors.Is(err, ErrInvalidState) {
			return nil, err
		}
		return nil, fmt.Errorf("advancing round table: %w", err)
	}

	s.logger.InfoContext(ctx, "speaker advanced",
		"speaker_id", state.CurrentSpeaker.ID,
		"round_number", state.RoundTable.RoundNumber)

	return state, nil
}

// nextSpeaker applies the rotation rule shared by every moderation
// style: the styles differ in who may trigger an advance, not in the
// order seats take turns.
func nextSpeaker(rt *model.RoundTable, participants []model.RoundTableParticipant) (*model.RoundTableParticipant, int, error) {
	active := make([]model.RoundTableParticipant, 0, len(participants))
	for _, p := range participants {
		if p.IsActive {
			active = append(active, p)
		}
	}
	if len(active) == 0 {
		return nil, 0, fmt.Errorf("%w: round table has no active participants", ErrInvalidState)
	}

	// Position of the current speaker among active seats. A missing or
	// deactivated current speaker resolves to -1 so rotation restarts at
	// the first active seat.
	cur := -1
	if rt.CurrentSpeakerID != nil {
		for i, p := range active {
			if p.ID == *rt.CurrentSpeakerID {
				cur = i
				break
			}
		}
	}

	next := &active[(cur+1)%len(active)]
	round := rt.RoundNumber
	if rt.CurrentSpeakerID != nil && next.ID == *rt.CurrentSpeakerID {
		round++ // sole active seat keeps the table, each turn is a round
	}
	return next, round, nil
}

func buildState(rt *model.RoundTable, participants []model.RoundTableParticipant) *SpeakerState {
	state := &SpeakerState{RoundTable: rt, Participants: participants}
	if rt.CurrentSpeakerID != nil {
		for i := range participants {
			if participants[i].ID == *rt.CurrentSpeakerID {
				state.CurrentSpeaker = &participants[i]
				break
			}
		}
	}
	return state
}
