package service_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"colloquy.app/server/internal/model"
	"colloquy.app/server/internal/service"
	"colloquy.app/server/internal/store"
)

var _ = Describe("SchedulerService", func() {
	var (
		svc      service.SchedulerService
		provider *mockStoreProvider
		ctx      context.Context

		table *model.RoundTable
		seats []model.RoundTableParticipant
	)

	seatIDs := func() []int64 {
		ids := make([]int64, 0, len(seats))
		for _, s := range seats {
			ids = append(ids, s.ID)
		}
		return ids
	}

	BeforeEach(func() {
		ctx = context.Background()
		provider = newMockStoreProvider()

		table = &model.RoundTable{
			ID:              100,
			ConversationID:  200,
			ModerationStyle: model.ModerationStyleDemocratic,
			RoundNumber:     1,
		}
		seats = []model.RoundTableParticipant{
			{ID: 1, RoundTableID: 100, ParticipantID: int64Ptr(11), Type: model.ParticipantTypeAIAgent, SpeakingOrder: 1, IsActive: true},
			{ID: 2, RoundTableID: 100, ParticipantID: int64Ptr(12), Type: model.ParticipantTypeAIAgent, SpeakingOrder: 2, IsActive: true},
			{ID: 3, RoundTableID: 100, ParticipantID: nil, Type: model.ParticipantTypeHumanUser, SpeakingOrder: 3, IsActive: true},
		}

		provider.roundTables.getByIDFn = func(_ context.Context, id int64) (*model.RoundTable, error) {
			if id != table.ID {
				return nil, store.ErrNotFound
			}
			cp := *table
			return &cp, nil
		}
		provider.roundTables.listParticipantsFn = func(_ context.Context, _ int64) ([]model.RoundTableParticipant, error) {
			out := make([]model.RoundTableParticipant, len(seats))
			copy(out, seats)
			return out, nil
		}
		provider.roundTables.setSpeakerFn = func(_ context.Context, _ int64, speakerID *int64, roundNumber int) error {
			table.CurrentSpeakerID = speakerID
			table.RoundNumber = roundNumber
			return nil
		}

		svc = service.NewSchedulerService(provider, &mockTxRunner{provider: provider}, nil)
	})

	Describe("CurrentSpeaker", func() {
		It("returns nil speaker before the first advance", func() {
			state, err := svc.CurrentSpeaker(ctx, table.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(state.CurrentSpeaker).To(BeNil())
			Expect(state.RoundTable.RoundNumber).To(Equal(1))
			Expect(state.Participants).To(HaveLen(3))
		})

		It("fails with not found for an unknown round table", func() {
			_, err := svc.CurrentSpeaker(ctx, 999)
			Expect(err).To(MatchError(store.ErrNotFound))
		})
	})

	Describe("Advance", func() {
		It("picks the first seat when no one has spoken", func() {
			state, err := svc.Advance(ctx, table.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(state.CurrentSpeaker.ID).To(Equal(int64(1)))
			Expect(state.RoundTable.RoundNumber).To(Equal(1))
		})

		It("visits each active seat exactly once per cycle", func() {
			seen := map[int64]int{}
			for range seats {
				state, err := svc.Advance(ctx, table.ID)
				Expect(err).NotTo(HaveOccurred())
				seen[state.CurrentSpeaker.ID]++
			}
			for _, id := range seatIDs() {
				Expect(seen[id]).To(Equal(1))
			}
		})

		It("skips a deactivated seat without consuming a turn", func() {
			// P1 has spoken, P2 goes inactive; advance lands on P3.
			table.CurrentSpeakerID = int64Ptr(1)
			seats[1].IsActive = false

			state, err := svc.Advance(ctx, table.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(state.CurrentSpeaker.ID).To(Equal(int64(3)))
		})

		It("does not bump the round number on wraparound", func() {
			table.CurrentSpeakerID = int64Ptr(3)

			state, err := svc.Advance(ctx, table.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(state.CurrentSpeaker.ID).To(Equal(int64(1)))
			Expect(state.RoundTable.RoundNumber).To(Equal(1))
		})

		It("bumps the round number when a sole seat keeps the turn", func() {
			seats = seats[:1]
			table.CurrentSpeakerID = int64Ptr(1)

			state, err := svc.Advance(ctx, table.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(state.CurrentSpeaker.ID).To(Equal(int64(1)))
			Expect(state.RoundTable.RoundNumber).To(Equal(2))
		})

		It("fails with invalid state and writes nothing when no seat is active", func() {
			for i := range seats {
				seats[i].IsActive = false
			}

			_, err := svc.Advance(ctx, table.ID)
			Expect(err).To(MatchError(service.ErrInvalidState))
			Expect(provider.roundTables.setSpeakerCalls).To(BeZero())
			Expect(table.CurrentSpeakerID).To(BeNil())
		})

		It("restarts at the first active seat when the current speaker was deactivated", func() {
			table.CurrentSpeakerID = int64Ptr(2)
			seats[1].IsActive = false

			state, err := svc.Advance(ctx, table.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(state.CurrentSpeaker.ID).To(Equal(int64(1)))
		})
	})
})
