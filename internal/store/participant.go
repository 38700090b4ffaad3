package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"colloquy.app/server/core/db"
	"colloquy.app/server/internal/model"
)

type participantStore struct {
	q db.Querier
}

func (s *participantStore) GetByID(ctx context.Context, id int64) (*model.Participant, error) {
	row := s.q.QueryRow(ctx, `
		SELECT id, model_id, display_name, category, is_active, created_at
		FROM participants
		WHERE id = $1`, id)

	var p model.Participant
	if err := row.Scan(&p.ID, &p.ModelID, &p.DisplayName, &p.Category, &p.IsActive, &p.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (s *participantStore) ListActive(ctx context.Context, category string) ([]model.Participant, error) {
	query := `
		SELECT id, model_id, display_name, category, is_active, created_at
		FROM participants
		WHERE is_active = TRUE`
	args := []any{}
	if category != "" {
		query += ` AND category = $1`
		args = append(args, category)
	}
	query += ` ORDER BY display_name ASC`

	rows, err := s.q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var participants []model.Participant
	for rows.Next() {
		var p model.Participant
		if err := rows.Scan(&p.ID, &p.ModelID, &p.DisplayName, &p.Category, &p.IsActive, &p.CreatedAt); err != nil {
			return nil, err
		}
		participants = append(participants, p)
	}
	return participants, rows.Err()
}
