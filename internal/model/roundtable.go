package model

import "time"

type ModerationStyle string

const (
	ModerationStyleDemocratic ModerationStyle = "democratic"
	ModerationStyleModerated  ModerationStyle = "moderated"
	ModerationStyleFreeFlow   ModerationStyle = "free_flow"
)

type ParticipantType string

const (
	ParticipantTypeAIAgent   ParticipantType = "ai_agent"
	ParticipantTypeHumanUser ParticipantType = "human_user"
)

// RoundTable extends a conversation with turn-taking state. Mutated only
// by the scheduler; RoundNumber never decreases.
type RoundTable struct {
	ID               int64           `json:"id"`
	ConversationID   int64           `json:"conversation_id"`
	MaxParticipants  int             `json:"max_participants"`
	ModerationStyle  ModerationStyle `json:"moderation_style"`
	CurrentSpeakerID *int64          `json:"current_speaker_id,omitempty"` // RoundTableParticipant ID; nil before first turn
	RoundNumber      int             `json:"round_number"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// RoundTableParticipant is a seat at a round table. A human seat has a
// nil ParticipantID; AI seats reference the participant registry.
// SpeakingOrder is unique within a round table.
type RoundTableParticipant struct {
	ID            int64           `json:"id"`
	RoundTableID  int64           `json:"round_table_id"`
	ParticipantID *int64          `json:"participant_id,omitempty"`
	Type          ParticipantType `json:"type"`
	SpeakingOrder int             `json:"speaking_order"`
	IsActive      bool            `json:"is_active"`
	MessageCount  int             `json:"message_count"`
	LastSpokeAt   *time.Time      `json:"last_spoke_at,omitempty"`
}
