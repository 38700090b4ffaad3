package model

import "time"

type AssessmentType string

const (
	AssessmentTypeQuick         AssessmentType = "quick"
	AssessmentTypeComprehensive AssessmentType = "comprehensive"
	AssessmentTypeDeep          AssessmentType = "deep"
)

type IssueSeverity string

const (
	IssueSeverityLow      IssueSeverity = "low"
	IssueSeverityMedium   IssueSeverity = "medium"
	IssueSeverityHigh     IssueSeverity = "high"
	IssueSeverityCritical IssueSeverity = "critical"
)

type IssueType string

const (
	IssueTypeFactualError        IssueType = "factual_error"
	IssueTypeInconsistency       IssueType = "internal_inconsistency"
	IssueTypeUnsupportedClaim    IssueType = "unsupported_claim"
	IssueTypeMisleadingStatement IssueType = "misleading_statement"
	IssueTypeOutdatedInformation IssueType = "outdated_information"
)

type AlertType string

const (
	AlertTypeLowReliability  AlertType = "low_reliability"
	AlertTypeLowAccuracy     AlertType = "low_accuracy"
	AlertTypeLowConsistency  AlertType = "low_consistency"
	AlertTypeCriticalIssue   AlertType = "critical_issue"
	AlertTypeThresholdBreach AlertType = "threshold_breach"
)

// TruthAssessment is the structured result of analyzing one message.
// Exactly one per message; written once and never updated (re-analysis
// supersedes the previous assessment wholesale).
type TruthAssessment struct {
	ID               int64          `json:"id"`
	MessageID        int64          `json:"message_id"`
	AssessmentType   AssessmentType `json:"assessment_type"`
	OverallScore     float64        `json:"overall_score"`     // [0,1]
	ReliabilityScore float64        `json:"reliability_score"` // [0,1]
	AccuracyScore    float64        `json:"accuracy_score"`    // [0,1]
	ConsistencyScore float64        `json:"consistency_score"` // [0,1]
	ConfidenceLevel  float64        `json:"confidence_level"`
	AnalysisContent  string         `json:"analysis_content"`
	Methodology      string         `json:"methodology,omitempty"`
	ProcessingTimeMs int64          `json:"processing_time_ms"`
	CheckedBy        string         `json:"checked_by"` // engine/model identifier used
	CreatedAt        time.Time      `json:"created_at"`
}

// DetectedIssue locates a specific flaw within an assessed message.
type DetectedIssue struct {
	ID              int64         `json:"id"`
	AssessmentID    int64         `json:"assessment_id"`
	IssueType       IssueType     `json:"issue_type"`
	Severity        IssueSeverity `json:"severity"`
	Title           string        `json:"title"`
	Description     string        `json:"description"`
	Explanation     string        `json:"explanation,omitempty"`
	SuggestedAction string        `json:"suggested_action,omitempty"`
	Confidence      float64       `json:"confidence"` // [0,1]

	// Highlighting context for the UI; not load-bearing.
	TextLocation  string `json:"text_location,omitempty"`
	ContextBefore string `json:"context_before,omitempty"`
	ContextAfter  string `json:"context_after,omitempty"`

	IsResolved bool       `json:"is_resolved"`
	ResolvedAt *time.Time `json:"resolved_at,omitempty"`
	ResolvedBy *string    `json:"resolved_by,omitempty"`
	DetectedAt time.Time  `json:"detected_at"`
}

// TruthAlert is a threshold-triggered notification derived from an
// assessment. MessageID and ConversationID are denormalized for direct
// querying. IsAcknowledged and IsDismissed are independent booleans, not
// a single state enum: an alert can be both at once.
type TruthAlert struct {
	ID               int64         `json:"id"`
	AssessmentID     int64         `json:"assessment_id"`
	MessageID        int64         `json:"message_id"`
	ConversationID   int64         `json:"conversation_id"`
	AlertType        AlertType     `json:"alert_type"`
	Severity         IssueSeverity `json:"severity"`
	Title            string        `json:"title"`
	Message          string        `json:"message"`
	TriggerThreshold float64       `json:"trigger_threshold"`
	ActualValue      float64       `json:"actual_value"`
	IsActionRequired bool          `json:"is_action_required"`

	IsAcknowledged bool       `json:"is_acknowledged"`
	AcknowledgedAt *time.Time `json:"acknowledged_at,omitempty"`
	AcknowledgedBy *string    `json:"acknowledged_by,omitempty"`
	IsDismissed    bool       `json:"is_dismissed"`
	DismissedAt    *time.Time `json:"dismissed_at,omitempty"`
	DismissedBy    *string    `json:"dismissed_by,omitempty"`

	TriggeredAt time.Time `json:"triggered_at"`
}
