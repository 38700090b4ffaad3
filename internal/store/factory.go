package store

import (
	"colloquy.app/server/core/db"
)

// Stores binds every store to one Querier, which is either the pool or
// a transaction. Services obtain transaction-scoped stores through a
// TxRunner.
type Stores struct {
	q db.Querier
}

func NewStores(q db.Querier) *Stores {
	return &Stores{q: q}
}

func (s *Stores) Participants() ParticipantStore {
	return &participantStore{q: s.q}
}

func (s *Stores) Conversations() ConversationStore {
	return &conversationStore{q: s.q}
}

func (s *Stores) Messages() MessageStore {
	return &messageStore{q: s.q}
}

func (s *Stores) RoundTables() RoundTableStore {
	return &roundTableStore{q: s.q}
}

func (s *Stores) Assessments() AssessmentStore {
	return &assessmentStore{q: s.q}
}

func (s *Stores) Issues() IssueStore {
	return &issueStore{q: s.q}
}

func (s *Stores) Alerts() AlertStore {
	return &alertStore{q: s.q}
}
