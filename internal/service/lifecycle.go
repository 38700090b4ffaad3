package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"colloquy.app/server/internal/model"
	"colloquy.app/server/internal/store"
)

// AlertAction is a lifecycle transition requested on an alert.
type AlertAction string

const (
	AlertActionAcknowledge   AlertAction = "acknowledge"
	AlertActionUnacknowledge AlertAction = "unacknowledge"
	AlertActionDismiss       AlertAction = "dismiss"
	AlertActionRestore       AlertAction = "restore"
)

// IssueAction is a lifecycle transition requested on a detected issue.
type IssueAction string

const (
	IssueActionResolve   IssueAction = "resolve"
	IssueActionUnresolve IssueAction = "unresolve"
)

// LifecycleService manages alert and issue state transitions.
// Acknowledged and dismissed are independent axes on an alert, so the
// four alert actions never touch each other's fields.
type LifecycleService interface {
	ApplyAlertAction(ctx context.Context, alertID int64, action AlertAction, actor *string) (*model.TruthAlert, error)
	ApplyIssueAction(ctx context.Context, issueID int64, action IssueAction, actor *string) (*model.DetectedIssue, error)
	ListAlerts(ctx context.Context, filter store.AlertFilter) ([]model.TruthAlert, error)
	ListIssues(ctx context.Context, filter store.IssueFilter) ([]model.DetectedIssue, error)
}

type lifecycleService struct {
	stores StoreProvider
	logger *slog.Logger
}

func NewLifecycleService(stores StoreProvider, logger *slog.Logger) LifecycleService {
	if logger == nil {
		logger = slog.Default()
	}
	return &lifecycleService{stores: stores, logger: logger}
}

func (s *lifecycleService) ApplyAlertAction(ctx context.Context, alertID int64, action AlertAction, actor *string) (*model.TruthAlert, error) {
	var (
		alert *model.TruthAlert
		err   error
	)
	now := time.Now().UTC()

	switch action {
	case AlertActionAcknowledge:
		alert, err = s.stores.Alerts().SetAcknowledged(ctx, alertID, true, &now, actor)
	case AlertActionUnacknowledge:
		alert, err = s.stores.Alerts().SetAcknowledged(ctx, alertID, false, nil, nil)
	case AlertActionDismiss:
		alert, err = s.stores.Alerts().SetDismissed(ctx, alertID, true, &now, actor)
	case AlertActionRestore:
		alert, err = s.stores.Alerts().SetDismissed(ctx, alertID, false, nil, nil)
	default:
		return nil, fmt.Errorf("%w: unknown alert action %q", ErrInvalidState, action)
	}
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "alert action applied", "alert_id", alertID, "action", action)
	return alert, nil
}

func (s *lifecycleService) ApplyIssueAction(ctx context.Context, issueID int64, action IssueAction, actor *string) (*model.DetectedIssue, error) {
	var (
		issue *model.DetectedIssue
		err   error
	)
	now := time.Now().UTC()

	switch action {
	case IssueActionResolve:
		issue, err = s.stores.Issues().SetResolved(ctx, issueID, true, &now, actor)
	case IssueActionUnresolve:
		issue, err = s.stores.Issues().SetResolved(ctx, issueID, false, nil, nil)
	default:
		return nil, fmt.Errorf("%w: unknown issue action %q", ErrInvalidState, action)
	}
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "issue action applied", "issue_id", issueID, "action", action)
	return issue, nil
}

func (s *lifecycleService) ListAlerts(ctx context.Context, filter store.AlertFilter) ([]model.TruthAlert, error) {
	return s.stores.Alerts().List(ctx, filter)
}

func (s *lifecycleService) ListIssues(ctx context.Context, filter store.IssueFilter) ([]model.DetectedIssue, error) {
	return s.stores.Issues().List(ctx, filter)
}
