package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"colloquy.app/server/core/db"
	"colloquy.app/server/internal/model"
)

type conversationStore struct {
	q db.Querier
}

func (s *conversationStore) GetByID(ctx context.Context, id int64) (*model.Conversation, error) {
	row := s.q.QueryRow(ctx, `
		SELECT id, title, slug, status, truth_check_enabled, truth_check_config, created_at, updated_at
		FROM conversations
		WHERE id = $1`, id)

	var c model.Conversation
	if err := row.Scan(&c.ID, &c.Title, &c.Slug, &c.Status, &c.TruthCheckEnabled, &c.TruthCheckConfig, &c.CreatedAt, &c.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (s *conversationStore) Create(ctx context.Context, conv *model.Conversation) error {
	row := s.q.QueryRow(ctx, `
		INSERT INTO conversations (id, title, slug, status, truth_check_enabled, truth_check_config)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at`,
		conv.ID, conv.Title, conv.Slug, conv.Status, conv.TruthCheckEnabled, conv.TruthCheckConfig)

	return row.Scan(&conv.CreatedAt, &conv.UpdatedAt)
}

func (s *conversationStore) SetStatus(ctx context.Context, id int64, status model.ConversationStatus) error {
	tag, err := s.q.Exec(ctx, `
		UPDATE conversations
		SET status = $2, updated_at = now()
		WHERE id = $1`, id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *conversationStore) ListDocuments(ctx context.Context, conversationID int64) ([]model.Document, error) {
	rows, err := s.q.Query(ctx, `
		SELECT id, conversation_id, title, content, created_at
		FROM documents
		WHERE conversation_id = $1
		ORDER BY created_at ASC`, conversationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []model.Document
	for rows.Next() {
		var d model.Document
		if err := rows.Scan(&d.ID, &d.ConversationID, &d.Title, &d.Content, &d.CreatedAt); err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}
