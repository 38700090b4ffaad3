package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"colloquy.app/server/common"
	"colloquy.app/server/common/id"
	"colloquy.app/server/common/logger"
	"colloquy.app/server/internal/model"
	"colloquy.app/server/internal/store"
)

// RoundTableSeat describes one seat when creating a round table.
// A nil ParticipantID seats the human.
type RoundTableSeat struct {
	ParticipantID *int64 `json:"participant_id,omitempty"`
}

// RoundTableParams creates the turn-taking extension alongside a
// conversation. Seats are assigned speaking order by position.
type RoundTableParams struct {
	MaxParticipants int              `json:"max_participants"`
	ModerationStyle string           `json:"moderation_style"`
	Seats           []RoundTableSeat `json:"seats"`
}

type CreateConversationParams struct {
	Title             string            `json:"title"`
	TruthCheckEnabled bool              `json:"truth_check_enabled"`
	TruthCheckConfig  json.RawMessage   `json:"truth_check_config,omitempty"`
	RoundTable        *RoundTableParams `json:"round_table,omitempty"`
}

type PostMessageParams struct {
	ConversationID int64
	Author         model.Author
	Content        string
}

// ConversationService manages conversation lifecycle and message intake.
type ConversationService interface {
	Create(ctx context.Context, params CreateConversationParams) (*model.Conversation, *model.RoundTable, error)
	Get(ctx context.Context, id int64) (*model.Conversation, error)
	SetArchived(ctx context.Context, id int64, archived bool) error
	PostMessage(ctx context.Context, params PostMessageParams) (*model.Message, error)
	ListMessages(ctx context.Context, conversationID int64) ([]model.Message, error)
}

type conversationService struct {
	stores   StoreProvider
	txRunner TxRunner
	logger   *slog.Logger
}

func NewConversationService(stores StoreProvider, txRunner TxRunner, logger *slog.Logger) ConversationService {
	if logger == nil {
		logger = slog.Default()
	}
	return &conversationService{
		stores:   stores,
		txRunner: txRunner,
		logger:   logger,
	}
}

func (s *conversationService) Create(ctx context.Context, params CreateConversationParams) (*model.Conversation, *model.RoundTable, error) {
	if params.Title == "" {
		return nil, nil, fmt.Errorf("%w: title is required", ErrInvalidState)
	}

	convID := id.New()
	slug, err := common.Slugify(params.Title, fmt.Sprintf("conversation-%d", convID))
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidState, err)
	}

	now := time.Now().UTC()
	conv := &model.Conversation{
		ID:                convID,
		Title:             params.Title,
		Slug:              slug,
		Status:            model.ConversationStatusActive,
		TruthCheckEnabled: params.TruthCheckEnabled,
		TruthCheckConfig:  params.TruthCheckConfig,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	var rt *model.RoundTable
	err = s.txRunner.WithTx(ctx, func(sp StoreProvider) error {
		if err := sp.Conversations().Create(ctx, conv); err != nil {
			return fmt.Errorf("creating conversation: %w", err)
		}
		if params.RoundTable == nil {
			return nil
		}

		spec := params.RoundTable
		style := model.ModerationStyle(spec.ModerationStyle)
		switch style {
		case model.ModerationStyleDemocratic, model.ModerationStyleModerated, model.ModerationStyleFreeFlow:
		case "":
			style = model.ModerationStyleDemocratic
		default:
			return fmt.Errorf("%w: unknown moderation style %q", ErrInvalidState, spec.ModerationStyle)
		}
		if spec.MaxParticipants > 0 && len(spec.Seats) > spec.MaxParticipants {
			return fmt.Errorf("%w: %d seats exceed max_participants %d", ErrInvalidState, len(spec.Seats), spec.MaxParticipants)
		}

		rt = &model.RoundTable{
			ID:              id.New(),
			ConversationID:  conv.ID,
			MaxParticipants: spec.MaxParticipants,
			ModerationStyle: style,
			RoundNumber:     1,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		if err := sp.RoundTables().Create(ctx, rt); err != nil {
			return fmt.Errorf("creating round table: %w", err)
		}

		for i, seat := range spec.Seats {
			ptype := model.ParticipantTypeHumanUser
			if seat.ParticipantID != nil {
				ptype = model.ParticipantTypeAIAgent
				if _, err := sp.Participants().GetByID(ctx, *seat.ParticipantID); err != nil {
					if errors.Is(err, store.ErrNotFound) {
						return fmt.Errorf("%w: seat %d references unknown participant", ErrInvalidState, i)
					}
					return fmt.Errorf("fetching participant: %w", err)
				}
			}
			p := &model.RoundTableParticipant{
				ID:            id.New(),
				RoundTableID:  rt.ID,
				ParticipantID: seat.ParticipantID,
				Type:          ptype,
				SpeakingOrder: i + 1,
				IsActive:      true,
			}
			if err := sp.RoundTables().CreateParticipant(ctx, p); err != nil {
				return fmt.Errorf("seating participant: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	s.logger.InfoContext(ctx, "conversation created",
		"conversation_id", conv.ID, "round_table", rt != nil)

	return conv, rt, nil
}

func (s *conversationService) Get(ctx context.Context, conversationID int64) (*model.Conversation, error) {
	return s.stores.Conversations().GetByID(ctx, conversationID)
}

func (s *conversationService) SetArchived(ctx context.Context, conversationID int64, archived bool) error {
	status := model.ConversationStatusActive
	if archived {
		status = model.ConversationStatusArchived
	}
	if err := s.stores.Conversations().SetStatus(ctx, conversationID, status); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "conversation status changed",
		"conversation_id", conversationID, "status", status)
	return nil
}

func (s *conversationService) PostMessage(ctx context.Context, params PostMessageParams) (*model.Message, error) {
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		ConversationID: logger.Ptr(params.ConversationID),
		Component:      "colloquy.conversation",
	})

	if params.Content == "" {
		return nil, fmt.Errorf("%w: message content is required", ErrInvalidState)
	}

	conv, err := s.stores.Conversations().GetByID(ctx, params.ConversationID)
	if err != nil {
		return nil, err
	}
	if conv.Status != model.ConversationStatusActive {
		return nil, fmt.Errorf("%w: conversation is archived", ErrInvalidState)
	}

	msg := &model.Message{
		ID:                id.New(),
		ConversationID:    conv.ID,
		Author:            params.Author,
		MessageType:       params.Author.MessageType(),
		Content:           params.Content,
		IsApproved:        params.Author.Kind != model.AuthorKindParticipant,
		TruthCheckEnabled: conv.TruthCheckEnabled,
		TruthCheckStatus:  model.TruthCheckStatusPending,
		CreatedAt:         time.Now().UTC(),
	}

	err = s.txRunner.WithTx(ctx, func(sp StoreProvider) error {
		if err := sp.Messages().Create(ctx, msg); err != nil {
			return fmt.Errorf("creating message: %w", err)
		}

		// An AI seat that speaks has its turn recorded on the round table.
		if msg.Author.Kind != model.AuthorKindParticipant {
			return nil
		}
		rt, err := sp.RoundTables().GetByConversation(ctx, conv.ID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return nil // plain conversation, nothing to record
			}
			return fmt.Errorf("fetching round table: %w", err)
		}
		participants, err := sp.RoundTables().ListParticipants(ctx, rt.ID)
		if err != nil {
			return fmt.Errorf("listing participants: %w", err)
		}
		for _, p := range participants {
			if p.ParticipantID != nil && *p.ParticipantID == *msg.Author.ParticipantID {
				if err := sp.RoundTables().RecordSpoke(ctx, p.ID, msg.CreatedAt); err != nil {
					return fmt.Errorf("recording turn: %w", err)
				}
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return msg, nil
}

func (s *conversationService) ListMessages(ctx context.Context, conversationID int64) ([]model.Message, error) {
	if _, err := s.stores.Conversations().GetByID(ctx, conversationID); err != nil {
		return nil, err
	}
	return s.stores.Messages().ListByConversation(ctx, conversationID)
}
