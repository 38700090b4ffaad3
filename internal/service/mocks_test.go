package service_test

import (
	"context"
	"time"

	"colloquy.app/server/internal/engine"
	"colloquy.app/server/internal/model"
	"colloquy.app/server/internal/service"
	"colloquy.app/server/internal/store"
)

type mockParticipantStore struct {
	getByIDFn    func(ctx context.Context, id int64) (*model.Participant, error)
	listActiveFn func(ctx context.Context, category string) ([]model.Participant, error)
}

func (m *mockParticipantStore) GetByID(ctx context.Context, id int64) (*model.Participant, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, store.ErrNotFound
}

func (m *mockParticipantStore) ListActive(ctx context.Context, category string) ([]model.Participant, error) {
	if m.listActiveFn != nil {
		return m.listActiveFn(ctx, category)
	}
	return []model.Participant{}, nil
}

type mockConversationStore struct {
	getByIDFn       func(ctx context.Context, id int64) (*model.Conversation, error)
	createFn        func(ctx context.Context, conv *model.Conversation) error
	setStatusFn     func(ctx context.Context, id int64, status model.ConversationStatus) error
	listDocumentsFn func(ctx context.Context, conversationID int64) ([]model.Document, error)
}

func (m *mockConversationStore) GetByID(ctx context.Context, id int64) (*model.Conversation, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, store.ErrNotFound
}

func (m *mockConversationStore) Create(ctx context.Context, conv *model.Conversation) error {
	if m.createFn != nil {
		return m.createFn(ctx, conv)
	}
	return nil
}

func (m *mockConversationStore) SetStatus(ctx context.Context, id int64, status model.ConversationStatus) error {
	if m.setStatusFn != nil {
		return m.setStatusFn(ctx, id, status)
	}
	return nil
}

func (m *mockConversationStore) ListDocuments(ctx context.Context, conversationID int64) ([]model.Document, error) {
	if m.listDocumentsFn != nil {
		return m.listDocumentsFn(ctx, conversationID)
	}
	return []model.Document{}, nil
}

type mockMessageStore struct {
	getByIDFn             func(ctx context.Context, id int64) (*model.Message, error)
	createFn              func(ctx context.Context, msg *model.Message) error
	listBeforeFn          func(ctx context.Context, conversationID int64, before time.Time, limit int) ([]model.Message, error)
	listByConversationFn  func(ctx context.Context, conversationID int64) ([]model.Message, error)
	setApprovedFn         func(ctx context.Context, id int64, approved bool) error
	setTruthCheckStatusFn func(ctx context.Context, id int64, status model.TruthCheckStatus) error
	claimFn               func(ctx context.Context, id int64) (bool, error)

	statusWrites map[int64][]model.TruthCheckStatus
}

func (m *mockMessageStore) GetByID(ctx context.Context, id int64) (*model.Message, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, store.ErrNotFound
}

func (m *mockMessageStore) Create(ctx context.Context, msg *model.Message) error {
	if m.createFn != nil {
		return m.createFn(ctx, msg)
	}
	return nil
}

func (m *mockMessageStore) ListBefore(ctx context.Context, conversationID int64, before time.Time, limit int) ([]model.Message, error) {
	if m.listBeforeFn != nil {
		return m.listBeforeFn(ctx, conversationID, before, limit)
	}
	return []model.Message{}, nil
}

func (m *mockMessageStore) ListByConversation(ctx context.Context, conversationID int64) ([]model.Message, error) {
	if m.listByConversationFn != nil {
		return m.listByConversationFn(ctx, conversationID)
	}
	return []model.Message{}, nil
}

func (m *mockMessageStore) SetApproved(ctx context.Context, id int64, approved bool) error {
	if m.setApprovedFn != nil {
		return m.setApprovedFn(ctx, id, approved)
	}
	return nil
}

func (m *mockMessageStore) SetTruthCheckStatus(ctx context.Context, id int64, status model.TruthCheckStatus) error {
	if m.statusWrites == nil {
		m.statusWrites = map[int64][]model.TruthCheckStatus{}
	}
	m.statusWrites[id] = append(m.statusWrites[id], status)
	if m.setTruthCheckStatusFn != nil {
		return m.setTruthCheckStatusFn(ctx, id, status)
	}
	return nil
}

// lastStatus returns the most recent status written for the message, or
// empty when none was.
func (m *mockMessageStore) lastStatus(id int64) model.TruthCheckStatus {
	writes := m.statusWrites[id]
	if len(writes) == 0 {
		return ""
	}
	return writes[len(writes)-1]
}

func (m *mockMessageStore) ClaimForProcessing(ctx context.Context, id int64) (bool, error) {
	if m.claimFn != nil {
		return m.claimFn(ctx, id)
	}
	return true, nil
}

type mockRoundTableStore struct {
	getByIDFn          func(ctx context.Context, id int64) (*model.RoundTable, error)
	getForUpdateFn     func(ctx context.Context, id int64) (*model.RoundTable, error)
	getByConvFn        func(ctx context.Context, conversationID int64) (*model.RoundTable, error)
	createFn           func(ctx context.Context, rt *model.RoundTable) error
	setSpeakerFn       func(ctx context.Context, id int64, speakerID *int64, roundNumber int) error
	listParticipantsFn func(ctx context.Context, roundTableID int64) ([]model.RoundTableParticipant, error)
	getParticipantFn   func(ctx context.Context, id int64) (*model.RoundTableParticipant, error)
	createPartFn       func(ctx context.Context, p *model.RoundTableParticipant) error
	setPartActiveFn    func(ctx context.Context, id int64, active bool) error
	recordSpokeFn      func(ctx context.Context, participantID int64, at time.Time) error

	setSpeakerCalls int
}

func (m *mockRoundTableStore) GetByID(ctx context.Context, id int64) (*model.RoundTable, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, store.ErrNotFound
}

func (m *mockRoundTableStore) GetByIDForUpdate(ctx context.Context, id int64) (*model.RoundTable, error) {
	if m.getForUpdateFn != nil {
		return m.getForUpdateFn(ctx, id)
	}
	return m.GetByID(ctx, id)
}

func (m *mockRoundTableStore) GetByConversation(ctx context.Context, conversationID int64) (*model.RoundTable, error) {
	if m.getByConvFn != nil {
		return m.getByConvFn(ctx, conversationID)
	}
	return nil, store.ErrNotFound
}

func (m *mockRoundTableStore) Create(ctx context.Context, rt *model.RoundTable) error {
	if m.createFn != nil {
		return m.createFn(ctx, rt)
	}
	return nil
}

func (m *mockRoundTableStore) SetSpeaker(ctx context.Context, id int64, speakerID *int64, roundNumber int) error {
	m.setSpeakerCalls++
	if m.setSpeakerFn != nil {
		return m.setSpeakerFn(ctx, id, speakerID, roundNumber)
	}
	return nil
}

func (m *mockRoundTableStore) ListParticipants(ctx context.Context, roundTableID int64) ([]model.RoundTableParticipant, error) {
	if m.listParticipantsFn != nil {
		return m.listParticipantsFn(ctx, roundTableID)
	}
	return []model.RoundTableParticipant{}, nil
}

func (m *mockRoundTableStore) GetParticipant(ctx context.Context, id int64) (*model.RoundTableParticipant, error) {
	if m.getParticipantFn != nil {
		return m.getParticipantFn(ctx, id)
	}
	return nil, store.ErrNotFound
}

func (m *mockRoundTableStore) CreateParticipant(ctx context.Context, p *model.RoundTableParticipant) error {
	if m.createPartFn != nil {
		return m.createPartFn(ctx, p)
	}
	return nil
}

func (m *mockRoundTableStore) SetParticipantActive(ctx context.Context, id int64, active bool) error {
	if m.setPartActiveFn != nil {
		return m.setPartActiveFn(ctx, id, active)
	}
	return nil
}

func (m *mockRoundTableStore) RecordSpoke(ctx context.Context, participantID int64, at time.Time) error {
	if m.recordSpokeFn != nil {
		return m.recordSpokeFn(ctx, participantID, at)
	}
	return nil
}

type mockAssessmentStore struct {
	createFn             func(ctx context.Context, a *model.TruthAssessment) error
	getByMessageFn       func(ctx context.Context, messageID int64) (*model.TruthAssessment, error)
	listByConversationFn func(ctx context.Context, conversationID int64) ([]model.TruthAssessment, error)
	deleteByMessageFn    func(ctx context.Context, messageID int64) error

	createCalls int
	deleteCalls int
}

func (m *mockAssessmentStore) Create(ctx context.Context, a *model.TruthAssessment) error {
	m.createCalls++
	if m.createFn != nil {
		return m.createFn(ctx, a)
	}
	return nil
}

func (m *mockAssessmentStore) GetByMessage(ctx context.Context, messageID int64) (*model.TruthAssessment, error) {
	if m.getByMessageFn != nil {
		return m.getByMessageFn(ctx, messageID)
	}
	return nil, store.ErrNotFound
}

func (m *mockAssessmentStore) ListByConversation(ctx context.Context, conversationID int64) ([]model.TruthAssessment, error) {
	if m.listByConversationFn != nil {
		return m.listByConversationFn(ctx, conversationID)
	}
	return []model.TruthAssessment{}, nil
}

func (m *mockAssessmentStore) DeleteByMessage(ctx context.Context, messageID int64) error {
	m.deleteCalls++
	if m.deleteByMessageFn != nil {
		return m.deleteByMessageFn(ctx, messageID)
	}
	return nil
}

type mockIssueStore struct {
	createBatchFn      func(ctx context.Context, issues []model.DetectedIssue) error
	getByIDFn          func(ctx context.Context, id int64) (*model.DetectedIssue, error)
	listByAssessmentFn func(ctx context.Context, assessmentID int64) ([]model.DetectedIssue, error)
	listFn             func(ctx context.Context, filter store.IssueFilter) ([]model.DetectedIssue, error)
	setResolvedFn      func(ctx context.Context, id int64, resolved bool, at *time.Time, by *string) (*model.DetectedIssue, error)
}

func (m *mockIssueStore) CreateBatch(ctx context.Context, issues []model.DetectedIssue) error {
	if m.createBatchFn != nil {
		return m.createBatchFn(ctx, issues)
	}
	return nil
}

func (m *mockIssueStore) GetByID(ctx context.Context, id int64) (*model.DetectedIssue, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, store.ErrNotFound
}

func (m *mockIssueStore) ListByAssessment(ctx context.Context, assessmentID int64) ([]model.DetectedIssue, error) {
	if m.listByAssessmentFn != nil {
		return m.listByAssessmentFn(ctx, assessmentID)
	}
	return []model.DetectedIssue{}, nil
}

func (m *mockIssueStore) List(ctx context.Context, filter store.IssueFilter) ([]model.DetectedIssue, error) {
	if m.listFn != nil {
		return m.listFn(ctx, filter)
	}
	return []model.DetectedIssue{}, nil
}

func (m *mockIssueStore) SetResolved(ctx context.Context, id int64, resolved bool, at *time.Time, by *string) (*model.DetectedIssue, error) {
	if m.setResolvedFn != nil {
		return m.setResolvedFn(ctx, id, resolved, at, by)
	}
	return nil, store.ErrNotFound
}

type mockAlertStore struct {
	createBatchFn      func(ctx context.Context, alerts []model.TruthAlert) error
	getByIDFn          func(ctx context.Context, id int64) (*model.TruthAlert, error)
	listByAssessmentFn func(ctx context.Context, assessmentID int64, includeDismissed bool) ([]model.TruthAlert, error)
	listFn             func(ctx context.Context, filter store.AlertFilter) ([]model.TruthAlert, error)
	setAcknowledgedFn  func(ctx context.Context, id int64, acked bool, at *time.Time, by *string) (*model.TruthAlert, error)
	setDismissedFn     func(ctx context.Context, id int64, dismissed bool, at *time.Time, by *string) (*model.TruthAlert, error)
}

func (m *mockAlertStore) CreateBatch(ctx context.Context, alerts []model.TruthAlert) error {
	if m.createBatchFn != nil {
		return m.createBatchFn(ctx, alerts)
	}
	return nil
}

func (m *mockAlertStore) GetByID(ctx context.Context, id int64) (*model.TruthAlert, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, store.ErrNotFound
}

func (m *mockAlertStore) ListByAssessment(ctx context.Context, assessmentID int64, includeDismissed bool) ([]model.TruthAlert, error) {
	if m.listByAssessmentFn != nil {
		return m.listByAssessmentFn(ctx, assessmentID, includeDismissed)
	}
	return []model.TruthAlert{}, nil
}

func (m *mockAlertStore) List(ctx context.Context, filter store.AlertFilter) ([]model.TruthAlert, error) {
	if m.listFn != nil {
		return m.listFn(ctx, filter)
	}
	return []model.TruthAlert{}, nil
}

func (m *mockAlertStore) SetAcknowledged(ctx context.Context, id int64, acked bool, at *time.Time, by *string) (*model.TruthAlert, error) {
	if m.setAcknowledgedFn != nil {
		return m.setAcknowledgedFn(ctx, id, acked, at, by)
	}
	return nil, store.ErrNotFound
}

func (m *mockAlertStore) SetDismissed(ctx context.Context, id int64, dismissed bool, at *time.Time, by *string) (*model.TruthAlert, error) {
	if m.setDismissedFn != nil {
		return m.setDismissedFn(ctx, id, dismissed, at, by)
	}
	return nil, store.ErrNotFound
}

type mockStoreProvider struct {
	participants  *mockParticipantStore
	conversations *mockConversationStore
	messages      *mockMessageStore
	roundTables   *mockRoundTableStore
	assessments   *mockAssessmentStore
	issues        *mockIssueStore
	alerts        *mockAlertStore
}

func newMockStoreProvider() *mockStoreProvider {
	return &mockStoreProvider{
		participants:  &mockParticipantStore{},
		conversations: &mockConversationStore{},
		messages:      &mockMessageStore{},
		roundTables:   &mockRoundTableStore{},
		assessments:   &mockAssessmentStore{},
		issues:        &mockIssueStore{},
		alerts:        &mockAlertStore{},
	}
}

func (m *mockStoreProvider) Participants() store.ParticipantStore   { return m.participants }
func (m *mockStoreProvider) Conversations() store.ConversationStore { return m.conversations }
func (m *mockStoreProvider) Messages() store.MessageStore           { return m.messages }
func (m *mockStoreProvider) RoundTables() store.RoundTableStore     { return m.roundTables }
func (m *mockStoreProvider) Assessments() store.AssessmentStore     { return m.assessments }
func (m *mockStoreProvider) Issues() store.IssueStore               { return m.issues }
func (m *mockStoreProvider) Alerts() store.AlertStore               { return m.alerts }

type mockTxRunner struct {
	provider *mockStoreProvider
	withTxFn func(ctx context.Context, fn func(stores service.StoreProvider) error) error
	txCalls  int
}

func (m *mockTxRunner) WithTx(ctx context.Context, fn func(stores service.StoreProvider) error) error {
	m.txCalls++
	if m.withTxFn != nil {
		return m.withTxFn(ctx, fn)
	}
	return fn(m.provider)
}

type mockEngine struct {
	analyzeFn func(ctx context.Context, input engine.Input) (*engine.Result, error)
	calls     []engine.Input
}

func (m *mockEngine) Analyze(ctx context.Context, input engine.Input) (*engine.Result, error) {
	m.calls = append(m.calls, input)
	if m.analyzeFn != nil {
		return m.analyzeFn(ctx, input)
	}
	return &engine.Result{
		Assessment: model.TruthAssessment{
			AssessmentType:   input.AssessmentType,
			OverallScore:     0.8,
			ReliabilityScore: 0.8,
			AccuracyScore:    0.8,
			ConsistencyScore: 0.8,
			ConfidenceLevel:  0.9,
			AnalysisContent:  "no problems found",
		},
	}, nil
}

type mockGuard struct {
	tryAcquireFn func(ctx context.Context, messageID int64) (bool, error)
	releases     []int64
}

func (m *mockGuard) TryAcquire(ctx context.Context, messageID int64) (bool, error) {
	if m.tryAcquireFn != nil {
		return m.tryAcquireFn(ctx, messageID)
	}
	return true, nil
}

func (m *mockGuard) Release(ctx context.Context, messageID int64) error {
	m.releases = append(m.releases, messageID)
	return nil
}

func (m *mockGuard) Close() error { return nil }

func strPtr(s string) *string { return &s }

func int64Ptr(v int64) *int64 { return &v }
