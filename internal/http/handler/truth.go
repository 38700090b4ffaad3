package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"colloquy.app/server/internal/http/dto"
	"colloquy.app/server/internal/model"
	"colloquy.app/server/internal/service"
	"colloquy.app/server/internal/store"
)

type TruthHandler struct {
	analysis    service.AnalysisService
	assessments service.AssessmentReadService
	lifecycle   service.LifecycleService
}

func NewTruthHandler(analysis service.AnalysisService, assessments service.AssessmentReadService, lifecycle service.LifecycleService) *TruthHandler {
	return &TruthHandler{
		analysis:    analysis,
		assessments: assessments,
		lifecycle:   lifecycle,
	}
}

func assessmentType(s string) model.AssessmentType {
	if s == "" {
		return model.AssessmentTypeComprehensive
	}
	return model.AssessmentType(s)
}

func (h *TruthHandler) Analyze(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.WarnContext(ctx, "invalid analyze request", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.analysis.AnalyzeOne(ctx, req.ConversationID, req.MessageID, assessmentType(req.AssessmentType))
	if err != nil {
		// Engine and persistence failures are upstream faults; the
		// message is already marked failed and may be resubmitted.
		if !isClientError(err) {
			slog.ErrorContext(ctx, "analysis failed", "message_id", req.MessageID, "error", err)
			c.JSON(http.StatusBadGateway, gin.H{"error": "analysis failed"})
			return
		}
		writeServiceError(c, err, "analyze message")
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *TruthHandler) AnalyzeBatch(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.AnalyzeBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.WarnContext(ctx, "invalid batch analyze request", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	batch, err := h.analysis.AnalyzeBatch(ctx, req.ConversationID, req.MessageIDs, assessmentType(req.AssessmentType))
	if err != nil {
		writeServiceError(c, err, "analyze batch")
		return
	}

	// Per-message failures live inside the body; the batch itself
	// succeeded.
	c.JSON(http.StatusOK, dto.BatchAnalyzeResponse{
		Results:   batch.Results,
		Errors:    batch.Errors,
		Processed: batch.Processed,
		Failed:    batch.Failed,
		Total:     batch.Total,
	})
}

func (h *TruthHandler) GetAssessments(c *gin.Context) {
	ctx := c.Request.Context()
	includeDismissed := c.Query("include_dismissed") == "true"

	if raw := c.Query("message_id"); raw != "" {
		messageID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid message_id"})
			return
		}
		view, err := h.assessments.GetByMessage(ctx, messageID, includeDismissed)
		if err != nil {
			writeServiceError(c, err, "fetch assessment")
			return
		}
		c.JSON(http.StatusOK, view)
		return
	}

	raw := c.Query("conversation_id")
	if raw == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message_id or conversation_id is required"})
		return
	}
	conversationID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid conversation_id"})
		return
	}

	views, err := h.assessments.ListByConversation(ctx, conversationID, includeDismissed)
	if err != nil {
		writeServiceError(c, err, "list assessments")
		return
	}
	c.JSON(http.StatusOK, gin.H{"assessments": views})
}

func (h *TruthHandler) AlertAction(c *gin.Context) {
	ctx := c.Request.Context()

	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req dto.AlertActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	alert, err := h.lifecycle.ApplyAlertAction(ctx, id, service.AlertAction(req.Action), req.Actor)
	if err != nil {
		writeServiceError(c, err, "update alert")
		return
	}
	c.JSON(http.StatusOK, alert)
}

func (h *TruthHandler) IssueAction(c *gin.Context) {
	ctx := c.Request.Context()

	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req dto.IssueActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	issue, err := h.lifecycle.ApplyIssueAction(ctx, id, service.IssueAction(req.Action), req.Actor)
	if err != nil {
		writeServiceError(c, err, "update issue")
		return
	}
	c.JSON(http.StatusOK, issue)
}

func (h *TruthHandler) ListAlerts(c *gin.Context) {
	filter := store.AlertFilter{
		ConversationID:   queryID(c, "conversation_id"),
		MessageID:        queryID(c, "message_id"),
		AssessmentID:     queryID(c, "assessment_id"),
		AlertType:        model.AlertType(c.Query("type")),
		Severity:         model.IssueSeverity(c.Query("severity")),
		IncludeDismissed: c.Query("dismissed") == "true",
		Limit:            int(queryID(c, "limit")),
	}
	if raw := c.Query("acknowledged"); raw != "" {
		acked := raw == "true"
		filter.Acknowledged = &acked
	}

	alerts, err := h.lifecycle.ListAlerts(c.Request.Context(), filter)
	if err != nil {
		writeServiceError(c, err, "list alerts")
		return
	}
	c.JSON(http.StatusOK, gin.H{"alerts": alerts})
}

func (h *TruthHandler) ListIssues(c *gin.Context) {
	filter := store.IssueFilter{
		AssessmentID: queryID(c, "assessment_id"),
		MessageID:    queryID(c, "message_id"),
		IssueType:    model.IssueType(c.Query("type")),
		Severity:     model.IssueSeverity(c.Query("severity")),
		Limit:        int(queryID(c, "limit")),
	}
	if raw := c.Query("resolved"); raw != "" {
		resolved := raw == "true"
		filter.Resolved = &resolved
	}

	issues, err := h.lifecycle.ListIssues(c.Request.Context(), filter)
	if err != nil {
		writeServiceError(c, err, "list issues")
		return
	}
	c.JSON(http.StatusOK, gin.H{"issues": issues})
}

// queryID parses an optional int64 query parameter; absent or malformed
// values read as zero, which filters treat as unset.
func queryID(c *gin.Context, name string) int64 {
	v, _ := strconv.ParseInt(c.Query(name), 10, 64)
	return v
}

func isClientError(err error) bool {
	return errors.Is(err, store.ErrNotFound) ||
		errors.Is(err, service.ErrDisabled) ||
		errors.Is(err, service.ErrInvalidState) ||
		errors.Is(err, service.ErrNoEligibleMessages) ||
		errors.Is(err, service.ErrAnalysisInFlight)
}
