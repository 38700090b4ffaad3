package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"colloquy.app/server/core/db"
	"colloquy.app/server/internal/model"
)

type roundTableStore struct {
	q db.Querier
}

const roundTableColumns = `id, conversation_id, max_participants, moderation_style,
	current_speaker_id, round_number, created_at, updated_at`

func (s *roundTableStore) GetByID(ctx context.Context, id int64) (*model.RoundTable, error) {
	return s.get(ctx, `
		SELECT `+roundTableColumns+`
		FROM round_tables
		WHERE id = $1`, id)
}

func (s *roundTableStore) GetByIDForUpdate(ctx context.Context, id int64) (*model.RoundTable, error) {
	return s.get(ctx, `
		SELECT `+roundTableColumns+`
		FROM round_tables
		WHERE id = $1
		FOR UPDATE`, id)
}

func (s *roundTableStore) GetByConversation(ctx context.Context, conversationID int64) (*model.RoundTable, error) {
	return s.get(ctx, `
		SELECT `+roundTableColumns+`
		FROM round_tables
		WHERE conversation_id = $1`, conversationID)
}

func (s *roundTableStore) get(ctx context.Context, query string, arg any) (*model.RoundTable, error) {
	row := s.q.QueryRow(ctx, query, arg)

	var rt model.RoundTable
	if err := row.Scan(&rt.ID, &rt.ConversationID, &rt.MaxParticipants, &rt.ModerationStyle,
		&rt.CurrentSpeakerID, &rt.RoundNumber, &rt.CreatedAt, &rt.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &rt, nil
}

func (s *roundTableStore) Create(ctx context.Context, rt *model.RoundTable) error {
	row := s.q.QueryRow(ctx, `
		INSERT INTO round_tables (id, conversation_id, max_participants, moderation_style, current_speaker_id, round_number)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at`,
		rt.ID, rt.ConversationID, rt.MaxParticipants, rt.ModerationStyle, rt.CurrentSpeakerID, rt.RoundNumber)

	return row.Scan(&rt.CreatedAt, &rt.UpdatedAt)
}

func (s *roundTableStore) SetSpeaker(ctx context.Context, id int64, speakerID *int64, roundNumber int) error {
	tag, err := s.q.Exec(ctx, `
		UPDATE round_tables
		SET current_speaker_id = $2, round_number = $3, updated_at = now()
		WHERE id = $1`, id, speakerID, roundNumber)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

const rtParticipantColumns = `id, round_table_id, participant_id, participant_type,
	speaking_order, is_active, message_count, last_spoke_at`

func (s *roundTableStore) ListParticipants(ctx context.Context, roundTableID int64) ([]model.RoundTableParticipant, error) {
	rows, err := s.q.Query(ctx, `
		SELECT `+rtParticipantColumns+`
		FROM round_table_participants
		WHERE round_table_id = $1
		ORDER BY speaking_order ASC`, roundTableID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var participants []model.RoundTableParticipant
	for rows.Next() {
		var p model.RoundTableParticipant
		if err := rows.Scan(&p.ID, &p.RoundTableID, &p.ParticipantID, &p.Type,
			&p.SpeakingOrder, &p.IsActive, &p.MessageCount, &p.LastSpokeAt); err != nil {
			return nil, err
		}
		participants = append(participants, p)
	}
	return participants, rows.Err()
}

func (s *roundTableStore) GetParticipant(ctx context.Context, id int64) (*model.RoundTableParticipant, error) {
	row := s.q.QueryRow(ctx, `
		SELECT `+rtParticipantColumns+`
		FROM round_table_participants
		WHERE id = $1`, id)

	var p model.RoundTableParticipant
	if err := row.Scan(&p.ID, &p.RoundTableID, &p.ParticipantID, &p.Type,
		&p.SpeakingOrder, &p.IsActive, &p.MessageCount, &p.LastSpokeAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (s *roundTableStore) CreateParticipant(ctx context.Context, p *model.RoundTableParticipant) error {
	_, err := s.q.Exec(ctx, `
		INSERT INTO round_table_participants (id, round_table_id, participant_id, participant_type,
			speaking_order, is_active, message_count)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		p.ID, p.RoundTableID, p.ParticipantID, p.Type, p.SpeakingOrder, p.IsActive, p.MessageCount)
	return err
}

func (s *roundTableStore) SetParticipantActive(ctx context.Context, id int64, active bool) error {
	tag, err := s.q.Exec(ctx, `
		UPDATE round_table_participants SET is_active = $2 WHERE id = $1`, id, active)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *roundTableStore) RecordSpoke(ctx context.Context, participantID int64, at time.Time) error {
	tag, err := s.q.Exec(ctx, `
		UPDATE round_table_participants
		SET message_count = message_count + 1, last_spoke_at = $2
		WHERE id = $1`, participantID, at)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
