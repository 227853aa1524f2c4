package calendar

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"parallel/internal/common"
	"parallel/internal/model"
)

const DefaultColor = "pink"

// EventInput carries the caller-supplied fields of a new event.
type EventInput struct {
	Title          string
	Description    string
	Type           model.EventType
	StartDate      time.Time
	EndDate        *time.Time
	IsAllDay       bool
	IsRecurring    bool
	ReminderTime   *time.Time
	CreatedBy      string
	ParticipantIDs []string
	Color          string
	Location       *string
}

type EventService interface {
	CreateEvent(ctx context.Context, in EventInput) (*model.CalendarEvent, error)
	PairEvents(ctx context.Context, userID, partnerID string) ([]*model.CalendarEvent, error)
	Upcoming(ctx context.Context, userID, partnerID string, limit int) ([]*model.CalendarEvent, error)
	NextAnniversary(ctx context.Context, userID, partnerID string) (*model.CalendarEvent, error)
	DueReminders(ctx context.Context, userID, partnerID string) ([]*model.CalendarEvent, error)
	Scheduler() *Scheduler
}

type eventService struct {
	store     common.RelationshipStore
	scheduler *Scheduler
	clock     common.Clock
	logger    *slog.Logger
}

func NewEventService(store common.RelationshipStore, scheduler *Scheduler, clock common.Clock, logger *slog.Logger) EventService {
	if scheduler == nil {
		scheduler = NewScheduler(nil)
	}
	if clock == nil {
		clock = common.SystemClock
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &eventService{store: store, scheduler: scheduler, clock: clock, logger: logger}
}

func (s *eventService) Scheduler() *Scheduler {
	return s.scheduler
}

func (s *eventService) CreateEvent(ctx context.Context, in EventInput) (*model.CalendarEvent, error) {
	if err := validateEvent(in); err != nil {
		return nil, err
	}

	color := strings.TrimSpace(in.Color)
	if color == "" {
		color = DefaultColor
	}

	event := &model.CalendarEvent{
		ID:             uuid.New().String(),
		Title:          strings.TrimSpace(in.Title),
		Description:    in.Description,
		Type:           in.Type,
		StartDate:      in.StartDate,
		EndDate:        in.EndDate,
		IsAllDay:       in.IsAllDay,
		IsRecurring:    in.IsRecurring,
		ReminderTime:   in.ReminderTime,
		CreatedBy:      in.CreatedBy,
		ParticipantIDs: dedupe(in.ParticipantIDs),
		Color:          color,
		Location:       in.Location,
		CreatedAt:      s.clock.Now(),
	}

	if err := s.store.Insert(ctx, event); err != nil {
		return nil, common.WrapStorage("insert calendar event", err)
	}

	s.logger.DebugContext(ctx, "calendar event created", "id", event.ID, "type", event.Type)
	return event, nil
}

// PairEvents returns every event created by either partner, oldest first.
func (s *eventService) PairEvents(ctx context.Context, userID, partnerID string) ([]*model.CalendarEvent, error) {
	if err := common.ValidatePair(userID, partnerID); err != nil {
		return nil, err
	}

	rows, err := s.store.Fetch(ctx, common.KindCalendarEvent, common.Filter{
		AnyOf: []map[string]interface{}{
			{"created_by": userID},
			{"created_by": partnerID},
		},
	})
	if err != nil {
		return nil, common.WrapStorage("fetch calendar events", err)
	}

	events := make([]*model.CalendarEvent, 0, len(rows))
	for _, row := range rows {
		e, ok := row.(*model.CalendarEvent)
		if !ok {
			return nil, common.WrapStorage("fetch calendar events", fmt.Errorf("unexpected row type %T", row))
		}
		events = append(events, e)
	}
	return events, nil
}

func (s *eventService) Upcoming(ctx context.Context, userID, partnerID string, limit int) ([]*model.CalendarEvent, error) {
	events, err := s.PairEvents(ctx, userID, partnerID)
	if err != nil {
		return nil, err
	}
	return s.scheduler.Upcoming(events, s.clock.Now(), limit), nil
}

// NextAnniversary yields ErrNotFound when no anniversary lies ahead.
func (s *eventService) NextAnniversary(ctx context.Context, userID, partnerID string) (*model.CalendarEvent, error) {
	events, err := s.PairEvents(ctx, userID, partnerID)
	if err != nil {
		return nil, err
	}
	next := s.scheduler.NextAnniversary(events, s.clock.Now())
	if next == nil {
		return nil, fmt.Errorf("anniversary %w", common.ErrNotFound)
	}
	return next, nil
}

func (s *eventService) DueReminders(ctx context.Context, userID, partnerID string) ([]*model.CalendarEvent, error) {
	events, err := s.PairEvents(ctx, userID, partnerID)
	if err != nil {
		return nil, err
	}
	return s.scheduler.DueReminders(events, s.clock.Now()), nil
}

func validateEvent(in EventInput) error {
	if strings.TrimSpace(in.Title) == "" {
		return common.Validationf("event title cannot be empty")
	}
	if !in.Type.IsValid() {
		return common.Validationf("unknown event type %q", in.Type)
	}
	if strings.TrimSpace(in.CreatedBy) == "" {
		return common.Validationf("event creator is required")
	}
	if len(dedupe(in.ParticipantIDs)) == 0 {
		return common.Validationf("event needs at least one participant")
	}
	if in.StartDate.IsZero() {
		return common.Validationf("event start date is required")
	}
	if in.EndDate != nil && in.EndDate.Before(in.StartDate) {
		return common.Validationf("event end date is before its start date")
	}
	return nil
}

// dedupe drops blanks and repeats while keeping first-seen order.
func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
