package service

import (
	"colloquy.app/server/core/config"
	"colloquy.app/server/internal/engine"
	"colloquy.app/server/internal/inflight"
)

type Services struct {
	stores   StoreProvider
	txRunner TxRunner
	engine   engine.Engine
	guard    inflight.Guard
	cfg      config.AssessmentConfig
}

func NewServices(stores StoreProvider, txRunner TxRunner, eng engine.Engine, guard inflight.Guard, cfg config.AssessmentConfig) *Services {
	return &Services{
		stores:   stores,
		txRunner: txRunner,
		engine:   eng,
		guard:    guard,
		cfg:      cfg,
	}
}

func (s *Services) Participants() ParticipantService {
	return NewParticipantService(s.stores)
}

func (s *Services) Conversations() ConversationService {
	return NewConversationService(s.stores, s.txRunner, nil)
}

func (s *Services) Scheduler() SchedulerService {
	return NewSchedulerService(s.stores, s.txRunner, nil)
}

func (s *Services) Analysis() AnalysisService {
	return NewAnalysisService(s.stores, s.txRunner, s.engine, s.guard, s.cfg, nil)
}

func (s *Services) Assessments() AssessmentReadService {
	return NewAssessmentReadService(s.stores, nil)
}

func (s *Services) Lifecycle() LifecycleService {
	return NewLifecycleService(s.stores, nil)
}
