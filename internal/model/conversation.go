package model

import (
	"encoding/json"
	"time"
)

type ConversationStatus string

const (
	ConversationStatusActive   ConversationStatus = "active"
	ConversationStatusArchived ConversationStatus = "archived"
)

type Conversation struct {
	ID                int64              `json:"id"`
	Title             string             `json:"title"`
	Slug              string             `json:"slug"`
	Status            ConversationStatus `json:"status"`
	TruthCheckEnabled bool               `json:"truth_check_enabled"`
	TruthCheckConfig  json.RawMessage    `json:"truth_check_config,omitempty"`
	CreatedAt         time.Time          `json:"created_at"`
	UpdatedAt         time.Time          `json:"updated_at"`
}

// Document is a grounding text attached to a conversation, fed to the
// assessment engine as analysis context.
type Document struct {
	ID             int64     `json:"id"`
	ConversationID int64     `json:"conversation_id"`
	Title          string    `json:"title"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"created_at"`
}
