package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"colloquy.app/server/core/db"
	"colloquy.app/server/internal/model"
)

type issueStore struct {
	q db.Querier
}

const issueColumns = `id, assessment_id, issue_type, severity, title, description, explanation,
	suggested_action, confidence, text_location, context_before, context_after,
	is_resolved, resolved_at, resolved_by, detected_at`

func (s *issueStore) CreateBatch(ctx context.Context, issues []model.DetectedIssue) error {
	for i := range issues {
		issue := &issues[i]
		row := s.q.QueryRow(ctx, `
			INSERT INTO detected_issues (id, assessment_id, issue_type, severity, title, description,
				explanation, suggested_action, confidence, text_location, context_before, context_after,
				is_resolved)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
			RETURNING detected_at`,
			issue.ID, issue.AssessmentID, issue.IssueType, issue.Severity, issue.Title, issue.Description,
			issue.Explanation, issue.SuggestedAction, issue.Confidence, issue.TextLocation,
			issue.ContextBefore, issue.ContextAfter, issue.IsResolved)
		if err := row.Scan(&issue.DetectedAt); err != nil {
			return fmt.Errorf("inserting issue %d: %w", i, err)
		}
	}
	return nil
}

func (s *issueStore) GetByID(ctx context.Context, id int64) (*model.DetectedIssue, error) {
	row := s.q.QueryRow(ctx, `
		SELECT `+issueColumns+`
		FROM detected_issues
		WHERE id = $1`, id)

	issue, err := scanIssue(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return issue, nil
}

func (s *issueStore) ListByAssessment(ctx context.Context, assessmentID int64) ([]model.DetectedIssue, error) {
	return s.List(ctx, IssueFilter{AssessmentID: assessmentID})
}

func (s *issueStore) List(ctx context.Context, filter IssueFilter) ([]model.DetectedIssue, error) {
	query := `
		SELECT ` + issueColumns + `
		FROM detected_issues
		WHERE 1=1`
	var args []any

	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.AssessmentID != 0 {
		query += ` AND assessment_id = ` + arg(filter.AssessmentID)
	}
	if filter.MessageID != 0 {
		query += ` AND assessment_id IN (SELECT id FROM truth_assessments WHERE message_id = ` + arg(filter.MessageID) + `)`
	}
	if filter.IssueType != "" {
		query += ` AND issue_type = ` + arg(filter.IssueType)
	}
	if filter.Severity != "" {
		query += ` AND severity = ` + arg(filter.Severity)
	}
	if filter.Resolved != nil {
		query += ` AND is_resolved = ` + arg(*filter.Resolved)
	}

	query += ` ORDER BY detected_at DESC`
	if filter.Limit > 0 {
		query += ` LIMIT ` + arg(filter.Limit)
	}

	rows, err := s.q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var issues []model.DetectedIssue
	for rows.Next() {
		issue, err := scanIssue(rows)
		if err != nil {
			return nil, err
		}
		issues = append(issues, *issue)
	}
	return issues, rows.Err()
}

func (s *issueStore) SetResolved(ctx context.Context, id int64, resolved bool, at *time.Time, by *string) (*model.DetectedIssue, error) {
	row := s.q.QueryRow(ctx, `
		UPDATE detected_issues
		SET is_resolved = $2, resolved_at = $3, resolved_by = $4
		WHERE id = $1
		RETURNING `+issueColumns, id, resolved, at, by)

	issue, err := scanIssue(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return issue, nil
}

func scanIssue(row pgx.Row) (*model.DetectedIssue, error) {
	var issue model.DetectedIssue
	if err := row.Scan(&issue.ID, &issue.AssessmentID, &issue.IssueType, &issue.Severity, &issue.Title,
		&issue.Description, &issue.Explanation, &issue.SuggestedAction, &issue.Confidence,
		&issue.TextLocation, &issue.ContextBefore, &issue.ContextAfter,
		&issue.IsResolved, &issue.ResolvedAt, &issue.ResolvedBy, &issue.DetectedAt); err != nil {
		return nil, err
	}
	return &issue, nil
}
