package store

import (
	"context"
	"errors"
	"time"

	"colloquy.app/server/internal/model"
)

// ErrNotFound is returned when a requested entity does not exist
var ErrNotFound = errors.New("not found")

// ParticipantStore is the read-only registry of conversational agents.
// Mutation is the model-management CRUD's concern, outside this core.
type ParticipantStore interface {
	GetByID(ctx context.Context, id int64) (*model.Participant, error)
	ListActive(ctx context.Context, category string) ([]model.Participant, error)
}

// ConversationStore defines the contract for conversation data access
type ConversationStore interface {
	GetByID(ctx context.Context, id int64) (*model.Conversation, error)
	Create(ctx context.Context, conv *model.Conversation) error
	SetStatus(ctx context.Context, id int64, status model.ConversationStatus) error
	ListDocuments(ctx context.Context, conversationID int64) ([]model.Document, error)
}

// MessageStore defines the contract for message data access
type MessageStore interface {
	GetByID(ctx context.Context, id int64) (*model.Message, error)
	Create(ctx context.Context, msg *model.Message) error
	// ListBefore returns up to limit messages of the conversation created
	// strictly before the given instant, ordered oldest to newest.
	ListBefore(ctx context.Context, conversationID int64, before time.Time, limit int) ([]model.Message, error)
	ListByConversation(ctx context.Context, conversationID int64) ([]model.Message, error)
	SetApproved(ctx context.Context, id int64, approved bool) error
	SetTruthCheckStatus(ctx context.Context, id int64, status model.TruthCheckStatus) error
	// ClaimForProcessing transitions pending, failed, or completed to
	// processing (completed for re-analysis, which supersedes). Returns
	// false without error when the message is already processing.
	ClaimForProcessing(ctx context.Context, id int64) (bool, error)
}

// RoundTableStore defines the contract for round-table data access
type RoundTableStore interface {
	GetByID(ctx context.Context, id int64) (*model.RoundTable, error)
	// GetByIDForUpdate row-locks the round table; only meaningful inside
	// a transaction. Serializes concurrent advances on the same table.
	GetByIDForUpdate(ctx context.Context, id int64) (*model.RoundTable, error)
	GetByConversation(ctx context.Context, conversationID int64) (*model.RoundTable, error)
	Create(ctx context.Context, rt *model.RoundTable) error
	SetSpeaker(ctx context.Context, id int64, speakerID *int64, roundNumber int) error
	ListParticipants(ctx context.Context, roundTableID int64) ([]model.RoundTableParticipant, error)
	GetParticipant(ctx context.Context, id int64) (*model.RoundTableParticipant, error)
	CreateParticipant(ctx context.Context, p *model.RoundTableParticipant) error
	SetParticipantActive(ctx context.Context, id int64, active bool) error
	RecordSpoke(ctx context.Context, participantID int64, at time.Time) error
}

// AssessmentStore defines the contract for truth-assessment data access
type AssessmentStore interface {
	Create(ctx context.Context, a *model.TruthAssessment) error
	GetByMessage(ctx context.Context, messageID int64) (*model.TruthAssessment, error)
	ListByConversation(ctx context.Context, conversationID int64) ([]model.TruthAssessment, error)
	// DeleteByMessage removes the assessment and its issues and alerts.
	// Used when re-analysis supersedes a previous result.
	DeleteByMessage(ctx context.Context, messageID int64) error
}

// IssueFilter narrows issue listing queries. Zero values are ignored.
type IssueFilter struct {
	AssessmentID int64
	MessageID    int64
	IssueType    model.IssueType
	Severity     model.IssueSeverity
	Resolved     *bool
	Limit        int
}

// IssueStore defines the contract for detected-issue data access
type IssueStore interface {
	CreateBatch(ctx context.Context, issues []model.DetectedIssue) error
	GetByID(ctx context.Context, id int64) (*model.DetectedIssue, error)
	ListByAssessment(ctx context.Context, assessmentID int64) ([]model.DetectedIssue, error)
	List(ctx context.Context, filter IssueFilter) ([]model.DetectedIssue, error)
	SetResolved(ctx context.Context, id int64, resolved bool, at *time.Time, by *string) (*model.DetectedIssue, error)
}

// AlertFilter narrows alert listing queries. Dismissed entries are
// excluded unless IncludeDismissed is set. Zero values are ignored.
type AlertFilter struct {
	ConversationID   int64
	MessageID        int64
	AssessmentID     int64
	AlertType        model.AlertType
	Severity         model.IssueSeverity
	Acknowledged     *bool
	IncludeDismissed bool
	Limit            int
}

// AlertStore defines the contract for truth-alert data access
type AlertStore interface {
	CreateBatch(ctx context.Context, alerts []model.TruthAlert) error
	GetByID(ctx context.Context, id int64) (*model.TruthAlert, error)
	ListByAssessment(ctx context.Context, assessmentID int64, includeDismissed bool) ([]model.TruthAlert, error)
	List(ctx context.Context, filter AlertFilter) ([]model.TruthAlert, error)
	SetAcknowledged(ctx context.Context, id int64, acked bool, at *time.Time, by *string) (*model.TruthAlert, error)
	SetDismissed(ctx context.Context, id int64, dismissed bool, at *time.Time, by *string) (*model.TruthAlert, error)
}
