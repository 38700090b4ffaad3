package model

import "time"

type MessageType string

const (
	MessageTypeAI        MessageType = "ai"
	MessageTypeHuman     MessageType = "human"
	MessageTypeModerator MessageType = "moderator"
)

type TruthCheckStatus string

const (
	TruthCheckStatusPending    TruthCheckStatus = "pending"
	TruthCheckStatusProcessing TruthCheckStatus = "processing"
	TruthCheckStatusCompleted  TruthCheckStatus = "completed"
	TruthCheckStatusFailed     TruthCheckStatus = "failed"
)

type AuthorKind string

const (
	AuthorKindParticipant AuthorKind = "participant"
	AuthorKindHuman       AuthorKind = "human"
	AuthorKindModerator   AuthorKind = "moderator"
)

// Author is a tagged variant: exactly one of the three kinds, with
// ParticipantID set only for AuthorKindParticipant. This replaces the
// multiple-nullable-references shape so conflicting non-null authors
// cannot be represented.
type Author struct {
	Kind          AuthorKind `json:"kind"`
	ParticipantID *int64     `json:"participant_id,omitempty"`
}

func ParticipantAuthor(participantID int64) Author {
	return Author{Kind: AuthorKindParticipant, ParticipantID: &participantID}
}

func HumanAuthor() Author {
	return Author{Kind: AuthorKindHuman}
}

func ModeratorAuthor() Author {
	return Author{Kind: AuthorKindModerator}
}

// MessageType returns the message type implied by the author kind.
func (a Author) MessageType() MessageType {
	switch a.Kind {
	case AuthorKindParticipant:
		return MessageTypeAI
	case AuthorKindModerator:
		return MessageTypeModerator
	default:
		return MessageTypeHuman
	}
}

// Message is immutable once created except for IsApproved and
// TruthCheckStatus. CreatedAt defines the total order within a
// conversation.
type Message struct {
	ID                int64            `json:"id"`
	ConversationID    int64            `json:"conversation_id"`
	Author            Author           `json:"author"`
	MessageType       MessageType      `json:"message_type"`
	Content           string           `json:"content"`
	IsApproved        bool             `json:"is_approved"`
	TruthCheckEnabled bool             `json:"truth_check_enabled"`
	TruthCheckStatus  TruthCheckStatus `json:"truth_check_status"`
	CreatedAt         time.Time        `json:"created_at"`
}
