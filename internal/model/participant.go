package model

import "time"

// Participant is a registered conversational agent available for dialogues.
// Mutation is handled by the model-management CRUD outside this core; the
// registry here is read-only.
type Participant struct {
	ID          int64     `json:"id"`
	ModelID     string    `json:"model_id"` // provider model identifier, e.g. "gpt-4o"
	DisplayName string    `json:"display_name"`
	Category    string    `json:"category,omitempty"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}
