package dto

import (
	"colloquy.app/server/internal/service"
)

type AnalyzeRequest struct {
	MessageID      int64  `json:"message_id" binding:"required"`
	ConversationID int64  `json:"conversation_id" binding:"required"`
	AssessmentType string `json:"assessment_type,omitempty" binding:"omitempty,oneof=quick comprehensive deep"`
}

type AnalyzeBatchRequest struct {
	ConversationID int64   `json:"conversation_id" binding:"required"`
	MessageIDs     []int64 `json:"message_ids" binding:"required,min=1"`
	AssessmentType string  `json:"assessment_type,omitempty" binding:"omitempty,oneof=quick comprehensive deep"`
}

type AlertActionRequest struct {
	Action string  `json:"action" binding:"required,oneof=acknowledge unacknowledge dismiss restore"`
	Actor  *string `json:"actor,omitempty"`
}

type IssueActionRequest struct {
	Action string  `json:"action" binding:"required,oneof=resolve unresolve"`
	Actor  *string `json:"actor,omitempty"`
}

type BatchAnalyzeResponse struct {
	Results   []service.AssessmentResult `json:"results"`
	Errors    []service.BatchError       `json:"errors"`
	Processed int                        `json:"processed"`
	Failed    int                        `json:"failed"`
	Total     int                        `json:"total"`
}
