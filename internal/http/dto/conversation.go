package dto

import (
	"encoding/json"
	"time"

	"colloquy.app/server/internal/model"
)

type RoundTableSeatRequest struct {
	ParticipantID *int64 `json:"participant_id,omitempty"`
}

type CreateRoundTableRequest struct {
	MaxParticipants int                     `json:"max_participants"`
	ModerationStyle string                  `json:"moderation_style,omitempty"`
	Seats           []RoundTableSeatRequest `json:"seats" binding:"required,min=1"`
}

type CreateConversationRequest struct {
	Title             string                   `json:"title" binding:"required"`
	TruthCheckEnabled bool                     `json:"truth_check_enabled"`
	TruthCheckConfig  json.RawMessage          `json:"truth_check_config,omitempty"`
	RoundTable        *CreateRoundTableRequest `json:"round_table,omitempty"`
}

type ConversationResponse struct {
	Conversation *model.Conversation `json:"conversation"`
	RoundTable   *model.RoundTable   `json:"round_table,omitempty"`
}

type PostMessageRequest struct {
	AuthorKind    string `json:"author_kind" binding:"required,oneof=participant human moderator"`
	ParticipantID *int64 `json:"participant_id,omitempty"`
	Content       string `json:"content" binding:"required"`
}

type MessageResponse struct {
	ID                int64     `json:"id"`
	ConversationID    int64     `json:"conversation_id"`
	AuthorKind        string    `json:"author_kind"`
	ParticipantID     *int64    `json:"participant_id,omitempty"`
	MessageType       string    `json:"message_type"`
	Content           string    `json:"content"`
	IsApproved        bool      `json:"is_approved"`
	TruthCheckEnabled bool      `json:"truth_check_enabled"`
	TruthCheckStatus  string    `json:"truth_check_status"`
	CreatedAt         time.Time `json:"created_at"`
}

func MessageFromModel(m *model.Message) MessageResponse {
	return MessageResponse{
		ID:                m.ID,
		ConversationID:    m.ConversationID,
		AuthorKind:        string(m.Author.Kind),
		ParticipantID:     m.Author.ParticipantID,
		MessageType:       string(m.MessageType),
		Content:           m.Content,
		IsApproved:        m.IsApproved,
		TruthCheckEnabled: m.TruthCheckEnabled,
		TruthCheckStatus:  string(m.TruthCheckStatus),
		CreatedAt:         m.CreatedAt,
	}
}
