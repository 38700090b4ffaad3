package service_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"colloquy.app/server/common/id"
	"colloquy.app/server/internal/model"
	"colloquy.app/server/internal/service"
	"colloquy.app/server/internal/store"
)

var _ = Describe("ConversationService", func() {
	var (
		svc      service.ConversationService
		provider *mockStoreProvider
		ctx      context.Context
	)

	BeforeEach(func() {
		ctx = context.Background()
		provider = newMockStoreProvider()

		Expect(id.Init(1)).To(Succeed())

		provider.participants.getByIDFn = func(_ context.Context, pid int64) (*model.Participant, error) {
			if pid >= 10 && pid < 20 {
				return &model.Participant{ID: pid, DisplayName: "agent"}, nil
			}
			return nil, store.ErrNotFound
		}

		svc = service.NewConversationService(provider, &mockTxRunner{provider: provider}, nil)
	})

	Describe("Create", func() {
		It("creates a plain conversation without a round table", func() {
			conv, rt, err := svc.Create(ctx, service.CreateConversationParams{Title: "Ad Hoc!"})
			Expect(err).NotTo(HaveOccurred())
			Expect(conv.ID).NotTo(BeZero())
			Expect(conv.Slug).To(Equal("ad-hoc"))
			Expect(conv.Status).To(Equal(model.ConversationStatusActive))
			Expect(rt).To(BeNil())
		})

		It("seats participants in request order starting at round one", func() {
			var seated []model.RoundTableParticipant
			provider.roundTables.createPartFn = func(_ context.Context, p *model.RoundTableParticipant) error {
				seated = append(seated, *p)
				return nil
			}

			_, rt, err := svc.Create(ctx, service.CreateConversationParams{
				Title: "panel",
				RoundTable: &service.RoundTableParams{
					MaxParticipants: 4,
					Seats: []service.RoundTableSeat{
						{ParticipantID: int64Ptr(10)},
						{ParticipantID: int64Ptr(11)},
						{ParticipantID: nil},
					},
				},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(rt.RoundNumber).To(Equal(1))
			Expect(rt.CurrentSpeakerID).To(BeNil())
			Expect(rt.ModerationStyle).To(Equal(model.ModerationStyleDemocratic))

			Expect(seated).To(HaveLen(3))
			for i, p := range seated {
				Expect(p.SpeakingOrder).To(Equal(i + 1))
				Expect(p.IsActive).To(BeTrue())
				Expect(p.RoundTableID).To(Equal(rt.ID))
			}
			Expect(seated[0].Type).To(Equal(model.ParticipantTypeAIAgent))
			Expect(seated[2].Type).To(Equal(model.ParticipantTypeHumanUser))
		})

		It("rejects more seats than max_participants", func() {
			_, _, err := svc.Create(ctx, service.CreateConversationParams{
				Title: "crowded",
				RoundTable: &service.RoundTableParams{
					MaxParticipants: 1,
					Seats: []service.RoundTableSeat{
						{ParticipantID: int64Ptr(10)},
						{ParticipantID: int64Ptr(11)},
					},
				},
			})
			Expect(err).To(MatchError(service.ErrInvalidState))
		})

		It("rejects an unknown moderation style", func() {
			_, _, err := svc.Create(ctx, service.CreateConversationParams{
				Title: "panel",
				RoundTable: &service.RoundTableParams{
					ModerationStyle: "anarchic",
					Seats:           []service.RoundTableSeat{{ParticipantID: int64Ptr(10)}},
				},
			})
			Expect(err).To(MatchError(service.ErrInvalidState))
		})

		It("rejects a seat referencing an unknown participant", func() {
			_, _, err := svc.Create(ctx, service.CreateConversationParams{
				Title: "panel",
				RoundTable: &service.RoundTableParams{
					Seats: []service.RoundTableSeat{{ParticipantID: int64Ptr(404)}},
				},
			})
			Expect(err).To(MatchError(service.ErrInvalidState))
		})

		It("rejects an empty title", func() {
			_, _, err := svc.Create(ctx, service.CreateConversationParams{})
			Expect(err).To(MatchError(service.ErrInvalidState))
		})
	})

	Describe("PostMessage", func() {
		var conversation *model.Conversation

		BeforeEach(func() {
			conversation = &model.Conversation{
				ID:                300,
				Title:             "panel",
				Status:            model.ConversationStatusActive,
				TruthCheckEnabled: true,
			}
			provider.conversations.getByIDFn = func(_ context.Context, cid int64) (*model.Conversation, error) {
				if cid != conversation.ID {
					return nil, store.ErrNotFound
				}
				return conversation, nil
			}
		})

		It("inherits truth checking from the conversation and holds participant messages for approval", func() {
			msg, err := svc.PostMessage(ctx, service.PostMessageParams{
				ConversationID: conversation.ID,
				Author:         model.ParticipantAuthor(10),
				Content:        "My opening statement.",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(msg.TruthCheckEnabled).To(BeTrue())
			Expect(msg.TruthCheckStatus).To(Equal(model.TruthCheckStatusPending))
			Expect(msg.IsApproved).To(BeFalse())
			Expect(msg.MessageType).To(Equal(model.MessageTypeAI))
		})

		It("approves human and moderator messages immediately", func() {
			msg, err := svc.PostMessage(ctx, service.PostMessageParams{
				ConversationID: conversation.ID,
				Author:         model.HumanAuthor(),
				Content:        "A question from the floor.",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(msg.IsApproved).To(BeTrue())
		})

		It("records the turn on the speaker's seat", func() {
			provider.roundTables.getByConvFn = func(_ context.Context, _ int64) (*model.RoundTable, error) {
				return &model.RoundTable{ID: 50, ConversationID: conversation.ID}, nil
			}
			provider.roundTables.listParticipantsFn = func(_ context.Context, _ int64) ([]model.RoundTableParticipant, error) {
				return []model.RoundTableParticipant{
					{ID: 1, RoundTableID: 50, ParticipantID: int64Ptr(10)},
					{ID: 2, RoundTableID: 50, ParticipantID: int64Ptr(11)},
				}, nil
			}
			var spoke []int64
			provider.roundTables.recordSpokeFn = func(_ context.Context, participantID int64, _ time.Time) error {
				spoke = append(spoke, participantID)
				return nil
			}

			_, err := svc.PostMessage(ctx, service.PostMessageParams{
				ConversationID: conversation.ID,
				Author:         model.ParticipantAuthor(11),
				Content:        "Second speaker weighing in.",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(spoke).To(Equal([]int64{2}))
		})

		It("tolerates a conversation without a round table", func() {
			_, err := svc.PostMessage(ctx, service.PostMessageParams{
				ConversationID: conversation.ID,
				Author:         model.ParticipantAuthor(10),
				Content:        "No turn tracking here.",
			})
			Expect(err).NotTo(HaveOccurred())
		})

		It("rejects posting to an archived conversation", func() {
			conversation.Status = model.ConversationStatusArchived

			_, err := svc.PostMessage(ctx, service.PostMessageParams{
				ConversationID: conversation.ID,
				Author:         model.HumanAuthor(),
				Content:        "Too late.",
			})
			Expect(err).To(MatchError(service.ErrInvalidState))
		})

		It("rejects empty content", func() {
			_, err := svc.PostMessage(ctx, service.PostMessageParams{
				ConversationID: conversation.ID,
				Author:         model.HumanAuthor(),
			})
			Expect(err).To(MatchError(service.ErrInvalidState))
		})
	})

	Describe("SetArchived", func() {
		It("flips the status both ways", func() {
			var statuses []model.ConversationStatus
			provider.conversations.setStatusFn = func(_ context.Context, _ int64, status model.ConversationStatus) error {
				statuses = append(statuses, status)
				return nil
			}

			Expect(svc.SetArchived(ctx, 300, true)).To(Succeed())
			Expect(svc.SetArchived(ctx, 300, false)).To(Succeed())
			Expect(statuses).To(Equal([]model.ConversationStatus{
				model.ConversationStatusArchived,
				model.ConversationStatusActive,
			}))
		})
	})
})
