package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"colloquy.app/server/common/id"
	"colloquy.app/server/common/logger"
	"colloquy.app/server/core/config"
	"colloquy.app/server/internal/engine"
	"colloquy.app/server/internal/inflight"
	"colloquy.app/server/internal/model"
	"colloquy.app/server/internal/store"
)

// AssessmentResult is the persisted outcome of analyzing one message.
type AssessmentResult struct {
	Assessment *model.TruthAssessment `json:"assessment"`
	Issues     []model.DetectedIssue  `json:"issues"`
	Alerts     []model.TruthAlert     `json:"alerts"`
}

// BatchError records one message's failure within a batch that kept going.
type BatchError struct {
	MessageID int64  `json:"message_id"`
	Error     string `json:"error"`
}

// BatchResult aggregates a batch run. Total = Processed + Failed.
type BatchResult struct {
	Results   []AssessmentResult `json:"results"`
	Errors    []BatchError       `json:"errors"`
	Processed int                `json:"processed"`
	Failed    int                `json:"failed"`
	Total     int                `json:"total"`
}

// AnalysisService orchestrates the truth-assessment pipeline: status
// transitions, context gathering, the engine call, and atomic
// persistence of assessment + issues + alerts.
type AnalysisService interface {
	AnalyzeOne(ctx context.Context, conversationID, messageID int64, assessmentType model.AssessmentType) (*AssessmentResult, error)
	AnalyzeBatch(ctx context.Context, conversationID int64, messageIDs []int64, assessmentType model.AssessmentType) (*BatchResult, error)
}

type analysisService struct {
	stores   StoreProvider
	txRunner TxRunner
	engine   engine.Engine
	guard    inflight.Guard
	cfg      config.AssessmentConfig
	logger   *slog.Logger
}

func NewAnalysisService(stores StoreProvider, txRunner TxRunner, eng engine.Engine, guard inflight.Guard, cfg config.AssessmentConfig, logger *slog.Logger) AnalysisService {
	if logger == nil {
		logger = slog.Default()
	}
	return &analysisService{
		stores:   stores,
		txRunner: txRunner,
		engine:   eng,
		guard:    guard,
		cfg:      cfg,
		logger:   logger,
	}
}

func (s *analysisService) AnalyzeOne(ctx context.Context, conversationID, messageID int64, assessmentType model.AssessmentType) (*AssessmentResult, error) {
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		ConversationID: logger.Ptr(conversationID),
		MessageID:      logger.Ptr(messageID),
		Component:      "colloquy.analysis",
	})

	msg, err := s.stores.Messages().GetByID(ctx, messageID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("fetching message: %w", err)
	}
	if msg.ConversationID != conversationID {
		return nil, fmt.Errorf("%w: message %d not in conversation %d", store.ErrNotFound, messageID, conversationID)
	}

	conv, err := s.stores.Conversations().GetByID(ctx, msg.ConversationID)
	if err != nil {
		return nil, fmt.Errorf("fetching conversation: %w", err)
	}
	if !conv.TruthCheckEnabled || !msg.TruthCheckEnabled {
		return nil, ErrDisabled
	}

	acquired, err := s.guard.TryAcquire(ctx, messageID)
	if err != nil {
		return nil, err
	}
	if !acquired {
		return nil, ErrAnalysisInFlight
	}
	defer func() {
		if err := s.guard.Release(context.WithoutCancel(ctx), messageID); err != nil {
			s.logger.WarnContext(ctx, "releasing analysis lock failed", "error", err)
		}
	}()

	claimed, err := s.stores.Messages().ClaimForProcessing(ctx, messageID)
	if err != nil {
		return nil, fmt.Errorf("claiming message: %w", err)
	}
	if !claimed {
		return nil, ErrAnalysisInFlight
	}

	return s.process(ctx, msg, assessmentType)
}

func (s *analysisService) AnalyzeBatch(ctx context.Context, conversationID int64, messageIDs []int64, assessmentType model.AssessmentType) (*BatchResult, error) {
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		ConversationID: logger.Ptr(conversationID),
		Component:      "colloquy.analysis",
	})

	conv, err := s.stores.Conversations().GetByID(ctx, conversationID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("fetching conversation: %w", err)
	}
	if !conv.TruthCheckEnabled {
		return nil, ErrDisabled
	}

	// Order given is preserved; it is the processing order.
	eligible := make([]*model.Message, 0, len(messageIDs))
	for _, mid := range messageIDs {
		msg, err := s.stores.Messages().GetByID(ctx, mid)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				continue
			}
			return nil, fmt.Errorf("fetching message %d: %w", mid, err)
		}
		if msg.ConversationID != conversationID || !msg.TruthCheckEnabled {
			continue
		}
		eligible = append(eligible, msg)
	}
	if len(eligible) == 0 {
		return nil, ErrNoEligibleMessages
	}

	// Mark everything processing up front so readers see the whole batch
	// in flight before the first engine call returns.
	for _, msg := range eligible {
		if err := s.stores.Messages().SetTruthCheckStatus(ctx, msg.ID, model.TruthCheckStatusProcessing); err != nil {
			return nil, fmt.Errorf("marking message %d processing: %w", msg.ID, err)
		}
		msg.TruthCheckStatus = model.TruthCheckStatusProcessing
	}

	batch := &BatchResult{Total: len(eligible)}
	for _, msg := range eligible {
		result, err := s.analyzeClaimed(ctx, msg, assessmentType)
		if err != nil {
			// One message's failure never aborts the rest.
			batch.Errors = append(batch.Errors, BatchError{MessageID: msg.ID, Error: err.Error()})
			batch.Failed++
			s.logger.WarnContext(ctx, "batch message analysis failed",
				"message_id", msg.ID, "error", err)
			continue
		}
		batch.Results = append(batch.Results, *result)
		batch.Processed++
	}

	s.logger.InfoContext(ctx, "batch analysis finished",
		"total", batch.Total, "processed", batch.Processed, "failed", batch.Failed)

	return batch, nil
}

// analyzeClaimed wraps process with the in-flight guard for a message
// whose status the batch already set to processing.
func (s *analysisService) analyzeClaimed(ctx context.Context, msg *model.Message, assessmentType model.AssessmentType) (*AssessmentResult, error) {
	acquired, err := s.guard.TryAcquire(ctx, msg.ID)
	if err != nil {
		return nil, err
	}
	if !acquired {
		return nil, ErrAnalysisInFlight
	}
	defer func() {
		if err := s.guard.Release(context.WithoutCancel(ctx), msg.ID); err != nil {
			s.logger.WarnContext(ctx, "releasing analysis lock failed", "error", err)
		}
	}()

	return s.process(ctx, msg, assessmentType)
}

// process runs the engine and persists the outcome for a message
// already transitioned to processing. Any failure flips the message to
// failed before surfacing.
func (s *analysisService) process(ctx context.Context, msg *model.Message, assessmentType model.AssessmentType) (*AssessmentResult, error) {
	result, err := s.runEngine(ctx, msg, assessmentType)
	if err == nil {
		err = s.persist(ctx, msg, result)
	}
	if err != nil {
		// The status write must survive the caller's deadline.
		failCtx := context.WithoutCancel(ctx)
		if serr := s.stores.Messages().SetTruthCheckStatus(failCtx, msg.ID, model.TruthCheckStatusFailed); serr != nil {
			s.logger.ErrorContext(ctx, "marking message failed errored", "error", serr)
		}
		return nil, err
	}
	return result, nil
}

func (s *analysisService) runEngine(ctx context.Context, msg *model.Message, assessmentType model.AssessmentType) (*AssessmentResult, error) {
	input, err := s.buildInput(ctx, msg, assessmentType)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	engineResult, err := s.engine.Analyze(ctx, *input)
	if err != nil {
		return nil, err
	}

	return &AssessmentResult{
		Assessment: &engineResult.Assessment,
		Issues:     engineResult.Issues,
		Alerts:     engineResult.Alerts,
	}, nil
}

// buildInput gathers the preceding context window and the
// conversation's grounding documents.
func (s *analysisService) buildInput(ctx context.Context, msg *model.Message, assessmentType model.AssessmentType) (*engine.Input, error) {
	prior, err := s.stores.Messages().ListBefore(ctx, msg.ConversationID, msg.CreatedAt, s.cfg.ContextWindow)
	if err != nil {
		return nil, fmt.Errorf("loading context messages: %w", err)
	}

	docs, err := s.stores.Conversations().ListDocuments(ctx, msg.ConversationID)
	if err != nil {
		return nil, fmt.Errorf("loading documents: %w", err)
	}

	input := &engine.Input{
		MessageContent: msg.Content,
		MessageType:    msg.MessageType,
		AssessmentType: assessmentType,
		ScoreThreshold: s.cfg.ScoreAlertThreshold,
	}
	for _, d := range docs {
		input.Documents = append(input.Documents, d.Content)
	}

	// Participant display names make the transcript legible to the
	// capability; cache lookups since speakers repeat.
	names := map[int64]string{}
	for _, m := range prior {
		input.Context = append(input.Context, engine.ContextMessage{
			Speaker: s.speakerLabel(ctx, m.Author, names),
			Type:    m.MessageType,
			Content: m.Content,
		})
	}

	return input, nil
}

func (s *analysisService) speakerLabel(ctx context.Context, author model.Author, cache map[int64]string) string {
	if author.Kind != model.AuthorKindParticipant || author.ParticipantID == nil {
		return string(author.Kind)
	}
	pid := *author.ParticipantID
	if name, ok := cache[pid]; ok {
		return name
	}
	p, err := s.stores.Participants().GetByID(ctx, pid)
	if err != nil {
		cache[pid] = string(model.AuthorKindParticipant)
	} else {
		cache[pid] = p.DisplayName
	}
	return cache[pid]
}

// persist writes the assessment with its issues and alerts in one
// transaction, superseding any previous assessment of the message, and
// marks the message completed in the same unit. A reader never sees
// completed without the full assessment durably stored.
func (s *analysisService) persist(ctx context.Context, msg *model.Message, result *AssessmentResult) error {
	now := time.Now().UTC()

	assessment := result.Assessment
	assessment.ID = id.New()
	assessment.MessageID = msg.ID
	assessment.CreatedAt = now

	for i := range result.Issues {
		result.Issues[i].ID = id.New()
		result.Issues[i].AssessmentID = assessment.ID
		result.Issues[i].DetectedAt = now
	}
	for i := range result.Alerts {
		result.Alerts[i].ID = id.New()
		result.Alerts[i].AssessmentID = assessment.ID
		result.Alerts[i].MessageID = msg.ID
		result.Alerts[i].ConversationID = msg.ConversationID
		result.Alerts[i].TriggeredAt = now
	}

	err := s.txRunner.WithTx(ctx, func(sp StoreProvider) error {
		if err := sp.Assessments().DeleteByMessage(ctx, msg.ID); err != nil {
			return fmt.Errorf("superseding previous assessment: %w", err)
		}
		if err := sp.Assessments().Create(ctx, assessment); err != nil {
			return fmt.Errorf("creating assessment: %w", err)
		}
		if err := sp.Issues().CreateBatch(ctx, result.Issues); err != nil {
			return fmt.Errorf("creating issues: %w", err)
		}
		if err := sp.Alerts().CreateBatch(ctx, result.Alerts); err != nil {
			return fmt.Errorf("creating alerts: %w", err)
		}
		if err := sp.Messages().SetTruthCheckStatus(ctx, msg.ID, model.TruthCheckStatusCompleted); err != nil {
			return fmt.Errorf("marking message completed: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "assessment persisted",
		"assessment_id", assessment.ID,
		"overall_score", assessment.OverallScore,
		"issues", len(result.Issues),
		"alerts", len(result.Alerts))

	return nil
}
