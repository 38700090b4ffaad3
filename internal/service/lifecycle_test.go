package service_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"colloquy.app/server/internal/model"
	"colloquy.app/server/internal/service"
	"colloquy.app/server/internal/store"
)

var _ = Describe("LifecycleService", func() {
	var (
		svc      service.LifecycleService
		provider *mockStoreProvider
		ctx      context.Context

		alert *model.TruthAlert
		issue *model.DetectedIssue
	)

	BeforeEach(func() {
		ctx = context.Background()
		provider = newMockStoreProvider()

		alert = &model.TruthAlert{
			ID:        1,
			AlertType: model.AlertTypeThresholdBreach,
			Severity:  model.IssueSeverityHigh,
		}
		issue = &model.DetectedIssue{
			ID:        2,
			IssueType: model.IssueTypeFactualError,
			Severity:  model.IssueSeverityMedium,
		}

		// The mocks mutate the shared fixtures the way the SQL UPDATE
		// ... RETURNING statements do.
		provider.alerts.setAcknowledgedFn = func(_ context.Context, alertID int64, acked bool, at *time.Time, by *string) (*model.TruthAlert, error) {
			if alertID != alert.ID {
				return nil, store.ErrNotFound
			}
			alert.IsAcknowledged = acked
			alert.AcknowledgedAt = at
			alert.AcknowledgedBy = by
			return alert, nil
		}
		provider.alerts.setDismissedFn = func(_ context.Context, alertID int64, dismissed bool, at *time.Time, by *string) (*model.TruthAlert, error) {
			if alertID != alert.ID {
				return nil, store.ErrNotFound
			}
			alert.IsDismissed = dismissed
			alert.DismissedAt = at
			alert.DismissedBy = by
			return alert, nil
		}
		provider.issues.setResolvedFn = func(_ context.Context, issueID int64, resolved bool, at *time.Time, by *string) (*model.DetectedIssue, error) {
			if issueID != issue.ID {
				return nil, store.ErrNotFound
			}
			issue.IsResolved = resolved
			issue.ResolvedAt = at
			issue.ResolvedBy = by
			return issue, nil
		}

		svc = service.NewLifecycleService(provider, nil)
	})

	Describe("ApplyAlertAction", func() {
		It("acknowledges with actor and timestamp", func() {
			got, err := svc.ApplyAlertAction(ctx, 1, service.AlertActionAcknowledge, strPtr("moderator-7"))
			Expect(err).NotTo(HaveOccurred())
			Expect(got.IsAcknowledged).To(BeTrue())
			Expect(got.AcknowledgedAt).NotTo(BeNil())
			Expect(got.AcknowledgedBy).To(HaveValue(Equal("moderator-7")))
		})

		It("unacknowledge clears the timestamp and actor", func() {
			_, err := svc.ApplyAlertAction(ctx, 1, service.AlertActionAcknowledge, strPtr("moderator-7"))
			Expect(err).NotTo(HaveOccurred())

			got, err := svc.ApplyAlertAction(ctx, 1, service.AlertActionUnacknowledge, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.IsAcknowledged).To(BeFalse())
			Expect(got.AcknowledgedAt).To(BeNil())
			Expect(got.AcknowledgedBy).To(BeNil())
		})

		It("restore clears the dismissal", func() {
			_, err := svc.ApplyAlertAction(ctx, 1, service.AlertActionDismiss, strPtr("moderator-7"))
			Expect(err).NotTo(HaveOccurred())
			Expect(alert.IsDismissed).To(BeTrue())

			got, err := svc.ApplyAlertAction(ctx, 1, service.AlertActionRestore, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.IsDismissed).To(BeFalse())
			Expect(got.DismissedAt).To(BeNil())
			Expect(got.DismissedBy).To(BeNil())
		})

		It("keeps acknowledgement and dismissal independent", func() {
			_, err := svc.ApplyAlertAction(ctx, 1, service.AlertActionAcknowledge, strPtr("moderator-7"))
			Expect(err).NotTo(HaveOccurred())

			got, err := svc.ApplyAlertAction(ctx, 1, service.AlertActionDismiss, strPtr("moderator-7"))
			Expect(err).NotTo(HaveOccurred())
			Expect(got.IsAcknowledged).To(BeTrue())
			Expect(got.IsDismissed).To(BeTrue())
		})

		It("rejects an unknown action", func() {
			_, err := svc.ApplyAlertAction(ctx, 1, service.AlertAction("escalate"), nil)
			Expect(err).To(MatchError(service.ErrInvalidState))
		})

		It("propagates not found", func() {
			_, err := svc.ApplyAlertAction(ctx, 404, service.AlertActionAcknowledge, nil)
			Expect(err).To(MatchError(store.ErrNotFound))
		})
	})

	Describe("ApplyIssueAction", func() {
		It("resolves with actor and timestamp", func() {
			got, err := svc.ApplyIssueAction(ctx, 2, service.IssueActionResolve, strPtr("moderator-7"))
			Expect(err).NotTo(HaveOccurred())
			Expect(got.IsResolved).To(BeTrue())
			Expect(got.ResolvedAt).NotTo(BeNil())
			Expect(got.ResolvedBy).To(HaveValue(Equal("moderator-7")))
		})

		It("unresolve clears the resolution", func() {
			_, err := svc.ApplyIssueAction(ctx, 2, service.IssueActionResolve, strPtr("moderator-7"))
			Expect(err).NotTo(HaveOccurred())

			got, err := svc.ApplyIssueAction(ctx, 2, service.IssueActionUnresolve, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.IsResolved).To(BeFalse())
			Expect(got.ResolvedAt).To(BeNil())
			Expect(got.ResolvedBy).To(BeNil())
		})

		It("rejects an unknown action", func() {
			_, err := svc.ApplyIssueAction(ctx, 2, service.IssueAction("defer"), nil)
			Expect(err).To(MatchError(service.ErrInvalidState))
		})
	})
})
