package service

import (
	"context"
	"fmt"
	"log/slog"

	"colloquy.app/server/internal/model"
)

// AssessmentView is an assessment with its children attached: all
// issues, and alerts filtered to non-dismissed unless asked otherwise.
type AssessmentView struct {
	Assessment model.TruthAssessment `json:"assessment"`
	Issues     []model.DetectedIssue `json:"issues"`
	Alerts     []model.TruthAlert    `json:"alerts"`
}

// AssessmentReadService serves the assessment query paths.
type AssessmentReadService interface {
	GetByMessage(ctx context.Context, messageID int64, includeDismissed bool) (*AssessmentView, error)
	ListByConversation(ctx context.Context, conversationID int64, includeDismissed bool) ([]AssessmentView, error)
}

type assessmentReadService struct {
	stores StoreProvider
	logger *slog.Logger
}

func NewAssessmentReadService(stores StoreProvider, logger *slog.Logger) AssessmentReadService {
	if logger == nil {
		logger = slog.Default()
	}
	return &assessmentReadService{stores: stores, logger: logger}
}

func (s *assessmentReadService) GetByMessage(ctx context.Context, messageID int64, includeDismissed bool) (*AssessmentView, error) {
	assessment, err := s.stores.Assessments().GetByMessage(ctx, messageID)
	if err != nil {
		return nil, err
	}
	return s.buildView(ctx, *assessment, includeDismissed)
}

func (s *assessmentReadService) ListByConversation(ctx context.Context, conversationID int64, includeDismissed bool) ([]AssessmentView, error) {
	if _, err := s.stores.Conversations().GetByID(ctx, conversationID); err != nil {
		return nil, err
	}

	assessments, err := s.stores.Assessments().ListByConversation(ctx, conversationID)
	if err != nil {
		return nil, err
	}

	views := make([]AssessmentView, 0, len(assessments))
	for _, a := range assessments {
		view, err := s.buildView(ctx, a, includeDismissed)
		if err != nil {
			return nil, err
		}
		views = append(views, *view)
	}
	return views, nil
}

func (s *assessmentReadService) buildView(ctx context.Context, a model.TruthAssessment, includeDismissed bool) (*AssessmentView, error) {
	issues, err := s.stores.Issues().ListByAssessment(ctx, a.ID)
	if err != nil {
		return nil, fmt.Errorf("loading issues: %w", err)
	}
	alerts, err := s.stores.Alerts().ListByAssessment(ctx, a.ID, includeDismissed)
	if err != nil {
		return nil, fmt.Errorf("loading alerts: %w", err)
	}
	return &AssessmentView{Assessment: a, Issues: issues, Alerts: alerts}, nil
}
