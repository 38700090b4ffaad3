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

type alertStore struct {
	q db.Querier
}

const alertColumns = `id, assessment_id, message_id, conversation_id, alert_type, severity,
	title, message, trigger_threshold, actual_value, is_action_required,
	is_acknowledged, acknowledged_at, acknowledged_by,
	is_dismissed, dismissed_at, dismissed_by, triggered_at`

func (s *alertStore) CreateBatch(ctx context.Context, alerts []model.TruthAlert) error {
	for i := range alerts {
		alert := &alerts[i]
		row := s.q.QueryRow(ctx, `
			INSERT INTO truth_alerts (id, assessment_id, message_id, conversation_id, alert_type,
				severity, title, message, trigger_threshold, actual_value, is_action_required,
				is_acknowledged, is_dismissed)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
			RETURNING triggered_at`,
			alert.ID, alert.AssessmentID, alert.MessageID, alert.ConversationID, alert.AlertType,
			alert.Severity, alert.Title, alert.Message, alert.TriggerThreshold, alert.ActualValue,
			alert.IsActionRequired, alert.IsAcknowledged, alert.IsDismissed)
		if err := row.Scan(&alert.TriggeredAt); err != nil {
			return fmt.Errorf("inserting alert %d: %w", i, err)
		}
	}
	return nil
}

func (s *alertStore) GetByID(ctx context.Context, id int64) (*model.TruthAlert, error) {
	row := s.q.QueryRow(ctx, `
		SELECT `+alertColumns+`
		FROM truth_alerts
		WHERE id = $1`, id)

	alert, err := scanAlert(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return alert, nil
}

func (s *alertStore) ListByAssessment(ctx context.Context, assessmentID int64, includeDismissed bool) ([]model.TruthAlert, error) {
	return s.List(ctx, AlertFilter{AssessmentID: assessmentID, IncludeDismissed: includeDismissed})
}

func (s *alertStore) List(ctx context.Context, filter AlertFilter) ([]model.TruthAlert, error) {
	query := `
		SELECT ` + alertColumns + `
		FROM truth_alerts
		WHERE 1=1`
	var args []any

	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.ConversationID != 0 {
		query += ` AND conversation_id = ` + arg(filter.ConversationID)
	}
	if filter.MessageID != 0 {
		query += ` AND message_id = ` + arg(filter.MessageID)
	}
	if filter.AssessmentID != 0 {
		query += ` AND assessment_id = ` + arg(filter.AssessmentID)
	}
	if filter.AlertType != "" {
		query += ` AND alert_type = ` + arg(filter.AlertType)
	}
	if filter.Severity != "" {
		query += ` AND severity = ` + arg(filter.Severity)
	}
	if filter.Acknowledged != nil {
		query += ` AND is_acknowledged = ` + arg(*filter.Acknowledged)
	}
	if !filter.IncludeDismissed {
		query += ` AND is_dismissed = FALSE`
	}

	query += ` ORDER BY triggered_at DESC`
	if filter.Limit > 0 {
		query += ` LIMIT ` + arg(filter.Limit)
	}

	rows, err := s.q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var alerts []model.TruthAlert
	for rows.Next() {
		alert, err := scanAlert(rows)
		if err != nil {
			return nil, err
		}
		alerts = append(alerts, *alert)
	}
	return alerts, rows.Err()
}

func (s *alertStore) SetAcknowledged(ctx context.Context, id int64, acked bool, at *time.Time, by *string) (*model.TruthAlert, error) {
	row := s.q.QueryRow(ctx, `
		UPDATE truth_alerts
		SET is_acknowledged = $2, acknowledged_at = $3, acknowledged_by = $4
		WHERE id = $1
		RETURNING `+alertColumns, id, acked, at, by)

	return scanAlertNotFound(row)
}

func (s *alertStore) SetDismissed(ctx context.Context, id int64, dismissed bool, at *time.Time, by *string) (*model.TruthAlert, error) {
	row := s.q.QueryRow(ctx, `
		UPDATE truth_alerts
		SET is_dismissed = $2, dismissed_at = $3, dismissed_by = $4
		WHERE id = $1
		RETURNING `+alertColumns, id, dismissed, at, by)

	return scanAlertNotFound(row)
}

func scanAlertNotFound(row pgx.Row) (*model.TruthAlert, error) {
	alert, err := scanAlert(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return alert, nil
}

func scanAlert(row pgx.Row) (*model.TruthAlert, error) {
	var alert model.TruthAlert
	if err := row.Scan(&alert.ID, &alert.AssessmentID, &alert.MessageID, &alert.ConversationID,
		&alert.AlertType, &alert.Severity, &alert.Title, &alert.Message,
		&alert.TriggerThreshold, &alert.ActualValue, &alert.IsActionRequired,
		&alert.IsAcknowledged, &alert.AcknowledgedAt, &alert.AcknowledgedBy,
		&alert.IsDismissed, &alert.DismissedAt, &alert.DismissedBy, &alert.TriggeredAt); err != nil {
		return nil, err
	}
	return &alert, nil
}
