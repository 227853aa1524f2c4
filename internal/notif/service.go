package notif

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"parallel/internal/common"
)

const DefaultCheckInterval = 30 * time.Second

// Service stores reminders and dispatches them through the manager once they
// fall due. It implements common.NotificationScheduler.
type Service struct {
	manager  *NotificationManager
	repo     common.ReminderRepository
	clock    common.Clock
	interval time.Duration
	logger   *slog.Logger
}

var _ common.NotificationScheduler = (*Service)(nil)

func NewService(
	manager *NotificationManager,
	repo common.ReminderRepository,
	clock common.Clock,
	interval time.Duration,
	logger *slog.Logger,
) *Service {
	if clock == nil {
		clock = common.SystemClock
	}
	if interval <= 0 {
		interval = DefaultCheckInterval
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		manager:  manager,
		repo:     repo,
		clock:    clock,
		interval: interval,
		logger:   logger,
	}
}

// Schedule stores one reminder per recipient under a shared handle.
func (s *Service) Schedule(ctx context.Context, at time.Time, payload common.NotificationPayload) (string, error) {
	if err := validatePayload(at, payload); err != nil {
		return "", err
	}

	handle := uuid.New().String()
	now := s.clock.Now()

	reminders := make([]*common.Reminder, 0, len(payload.UserIDs))
	seen := make(map[string]bool, len(payload.UserIDs))
	for _, userID := range payload.UserIDs {
		if seen[userID] {
			continue
		}
		seen[userID] = true
		reminders = append(reminders, &common.Reminder{
			Handle:      handle,
			UserID:      userID,
			Type:        payload.Type,
			Header:      payload.Header,
			Content:     payload.Content,
			Status:      common.StatusScheduled,
			ScheduledAt: at,
			Metadata:    payload.Metadata,
			CreatedAt:   now,
		})
	}

	if err := s.repo.Create(ctx, reminders...); err != nil {
		return "", err
	}

	s.logger.InfoContext(ctx, "reminder scheduled",
		"handle", handle, "type", payload.Type, "recipients", len(reminders), "at", at)
	return handle, nil
}

// Cancel withdraws every pending reminder under handle.
func (s *Service) Cancel(ctx context.Context, handle string) error {
	if strings.TrimSpace(handle) == "" {
		return common.Validationf("handle is required")
	}

	n, err := s.repo.Cancel(ctx, handle)
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("pending reminder %s %w", handle, common.ErrNotFound)
	}

	s.logger.InfoContext(ctx, "reminder cancelled", "handle", handle, "recipients", n)
	return nil
}

// CancelFor withdraws handle on behalf of userID, who must be one of its
// recipients.
func (s *Service) CancelFor(ctx context.Context, handle, userID string) error {
	if strings.TrimSpace(handle) == "" {
		return common.Validationf("handle is required")
	}

	reminders, err := s.repo.ByHandle(ctx, handle)
	if err != nil {
		return err
	}
	for _, r := range reminders {
		if r.UserID == userID {
			return s.Cancel(ctx, handle)
		}
	}
	return fmt.Errorf("reminder %s: %w", handle, common.ErrNotAuthorized)
}

// Reminders lists userID's reminders, latest scheduled first.
func (s *Service) Reminders(ctx context.Context, userID string, limit, offset int) ([]*common.Reminder, error) {
	if userID == "" {
		return nil, common.Validationf("user id is required")
	}
	return s.repo.ByUserID(ctx, userID, limit, offset)
}

// ProcessDue hands every reminder due at the current time to the worker pool
// and records whether delivery succeeded once the workers report back. It
// returns how many were recorded. Reminders that could not be queued stay
// scheduled for the next pass.
func (s *Service) ProcessDue(ctx context.Context) (int, error) {
	due, err := s.repo.Due(ctx, s.clock.Now())
	if err != nil {
		return 0, err
	}
	if len(due) == 0 {
		return 0, nil
	}

	results := make(chan outcome, len(due))

	queued := 0
	for _, r := range due {
		err := s.manager.Submit(ctx, r.Event(), func(err error) {
			results <- outcome{reminder: r, err: err}
		})
		if err != nil {
			s.logger.WarnContext(ctx, "stopped queueing due reminders", "queued", queued, "due", len(due), "error", err)
			break
		}
		queued++
	}

	// status writes outlive a cancelled poll
	writeCtx := context.WithoutCancel(ctx)
	for i := 0; i < queued; i++ {
		o, ok := s.await(results)
		if !ok {
			return i, ErrManagerClosed
		}

		status := common.StatusSent
		if o.err != nil {
			s.logger.WarnContext(ctx, "reminder delivery failed", "handle", o.reminder.Handle, "user_id", o.reminder.UserID, "error", o.err)
			status = common.StatusFailed
		}
		if err := s.repo.UpdateStatus(writeCtx, o.reminder.Handle, o.reminder.UserID, status); err != nil {
			s.logger.ErrorContext(ctx, "failed to update reminder status", "handle", o.reminder.Handle, "user_id", o.reminder.UserID, "error", err)
		}
	}

	s.logger.InfoContext(ctx, "processed due reminders", "count", queued)
	return queued, nil
}

type outcome struct {
	reminder *common.Reminder
	err      error
}

// await prefers a reported result over the manager shutting down.
func (s *Service) await(results <-chan outcome) (outcome, bool) {
	select {
	case o := <-results:
		return o, true
	case <-s.manager.Done():
		select {
		case o := <-results:
			return o, true
		default:
			return outcome{}, false
		}
	}
}

// Run polls for due reminders until ctx is done.
func (s *Service) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.ProcessDue(ctx); err != nil {
				s.logger.ErrorContext(ctx, "failed to get due reminders", "error", err)
			}
		}
	}
}

func (s *Service) Shutdown() {
	s.manager.Shutdown()
}

func validatePayload(at time.Time, payload common.NotificationPayload) error {
	if at.IsZero() {
		return common.Validationf("scheduled time is required")
	}
	if payload.Type == "" {
		return common.Validationf("notification type is required")
	}
	if strings.TrimSpace(payload.Header) == "" {
		return common.Validationf("header is required")
	}
	if len(payload.UserIDs) == 0 {
		return common.Validationf("at least one recipient is required")
	}
	for _, id := range payload.UserIDs {
		if strings.TrimSpace(id) == "" {
			return common.Validationf("recipient id must not be empty")
		}
	}
	return nil
}
