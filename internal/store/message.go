package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"colloquy.app/server/core/db"
	"colloquy.app/server/internal/model"
)

type messageStore struct {
	q db.Querier
}

const messageColumns = `id, conversation_id, author_kind, author_participant_id, message_type,
	content, is_approved, truth_check_enabled, truth_check_status, created_at`

func (s *messageStore) GetByID(ctx context.Context, id int64) (*model.Message, error) {
	row := s.q.QueryRow(ctx, `
		SELECT `+messageColumns+`
		FROM messages
		WHERE id = $1`, id)

	msg, err := scanMessage(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return msg, nil
}

func (s *messageStore) Create(ctx context.Context, msg *model.Message) error {
	row := s.q.QueryRow(ctx, `
		INSERT INTO messages (id, conversation_id, author_kind, author_participant_id, message_type,
			content, is_approved, truth_check_enabled, truth_check_status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at`,
		msg.ID, msg.ConversationID, msg.Author.Kind, msg.Author.ParticipantID, msg.MessageType,
		msg.Content, msg.IsApproved, msg.TruthCheckEnabled, msg.TruthCheckStatus)

	return row.Scan(&msg.CreatedAt)
}

func (s *messageStore) ListBefore(ctx context.Context, conversationID int64, before time.Time, limit int) ([]model.Message, error) {
	// Newest N before the cutoff, re-sorted oldest first for prompt assembly.
	rows, err := s.q.Query(ctx, `
		SELECT `+messageColumns+` FROM (
			SELECT `+messageColumns+`
			FROM messages
			WHERE conversation_id = $1 AND created_at < $2
			ORDER BY created_at DESC
			LIMIT $3
		) latest
		ORDER BY created_at ASC`, conversationID, before, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanMessages(rows)
}

func (s *messageStore) ListByConversation(ctx context.Context, conversationID int64) ([]model.Message, error) {
	rows, err := s.q.Query(ctx, `
		SELECT `+messageColumns+`
		FROM messages
		WHERE conversation_id = $1
		ORDER BY created_at ASC`, conversationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanMessages(rows)
}

func (s *messageStore) SetApproved(ctx context.Context, id int64, approved bool) error {
	tag, err := s.q.Exec(ctx, `
		UPDATE messages SET is_approved = $2 WHERE id = $1`, id, approved)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *messageStore) SetTruthCheckStatus(ctx context.Context, id int64, status model.TruthCheckStatus) error {
	tag, err := s.q.Exec(ctx, `
		UPDATE messages SET truth_check_status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *messageStore) ClaimForProcessing(ctx context.Context, id int64) (bool, error) {
	tag, err := s.q.Exec(ctx, `
		UPDATE messages
		SET truth_check_status = $2
		WHERE id = $1 AND truth_check_status IN ($3, $4, $5)`,
		id, model.TruthCheckStatusProcessing, model.TruthCheckStatusPending,
		model.TruthCheckStatusFailed, model.TruthCheckStatusCompleted)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func scanMessage(row pgx.Row) (*model.Message, error) {
	var m model.Message
	if err := row.Scan(&m.ID, &m.ConversationID, &m.Author.Kind, &m.Author.ParticipantID, &m.MessageType,
		&m.Content, &m.IsApproved, &m.TruthCheckEnabled, &m.TruthCheckStatus, &m.CreatedAt); err != nil {
		return nil, err
	}
	return &m, nil
}

func scanMessages(rows pgx.Rows) ([]model.Message, error) {
	var messages []model.Message
	for rows.Next() {
		msg, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		messages = append(messages, *msg)
	}
	return messages, rows.Err()
}
