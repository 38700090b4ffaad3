package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"colloquy.app/server/core/db"
	"colloquy.app/server/internal/model"
)

type assessmentStore struct {
	q db.Querier
}

const assessmentColumns = `id, message_id, assessment_type, overall_score, reliability_score,
	accuracy_score, consistency_score, confidence_level, analysis_content, methodology,
	processing_time_ms, checked_by, created_at`

func (s *assessmentStore) Create(ctx context.Context, a *model.TruthAssessment) error {
	row := s.q.QueryRow(ctx, `
		INSERT INTO truth_assessments (id, message_id, assessment_type, overall_score, reliability_score,
			accuracy_score, consistency_score, confidence_level, analysis_content, methodology,
			processing_time_ms, checked_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING created_at`,
		a.ID, a.MessageID, a.AssessmentType, a.OverallScore, a.ReliabilityScore,
		a.AccuracyScore, a.ConsistencyScore, a.ConfidenceLevel, a.AnalysisContent, a.Methodology,
		a.ProcessingTimeMs, a.CheckedBy)

	return row.Scan(&a.CreatedAt)
}

func (s *assessmentStore) GetByMessage(ctx context.Context, messageID int64) (*model.TruthAssessment, error) {
	row := s.q.QueryRow(ctx, `
		SELECT `+assessmentColumns+`
		FROM truth_assessments
		WHERE message_id = $1`, messageID)

	a, err := scanAssessment(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return a, nil
}

func (s *assessmentStore) ListByConversation(ctx context.Context, conversationID int64) ([]model.TruthAssessment, error) {
	rows, err := s.q.Query(ctx, `
		SELECT a.id, a.message_id, a.assessment_type, a.overall_score, a.reliability_score,
			a.accuracy_score, a.consistency_score, a.confidence_level, a.analysis_content, a.methodology,
			a.processing_time_ms, a.checked_by, a.created_at
		FROM truth_assessments a
		JOIN messages m ON m.id = a.message_id
		WHERE m.conversation_id = $1
		ORDER BY a.created_at DESC`, conversationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assessments []model.TruthAssessment
	for rows.Next() {
		a, err := scanAssessment(rows)
		if err != nil {
			return nil, err
		}
		assessments = append(assessments, *a)
	}
	return assessments, rows.Err()
}

func (s *assessmentStore) DeleteByMessage(ctx context.Context, messageID int64) error {
	// Issues and alerts cascade via FK; one statement keeps supersede atomic
	// when run inside the orchestrator's transaction.
	_, err := s.q.Exec(ctx, `DELETE FROM truth_assessments WHERE message_id = $1`, messageID)
	return err
}

func scanAssessment(row pgx.Row) (*model.TruthAssessment, error) {
	var a model.TruthAssessment
	if err := row.Scan(&a.ID, &a.MessageID, &a.AssessmentType, &a.OverallScore, &a.ReliabilityScore,
		&a.AccuracyScore, &a.ConsistencyScore, &a.ConfidenceLevel, &a.AnalysisContent, &a.Methodology,
		&a.ProcessingTimeMs, &a.CheckedBy, &a.CreatedAt); err != nil {
		return nil, err
	}
	return &a, nil
}
