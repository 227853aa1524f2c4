package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parallel/internal/model"
)

func event(id string, typ model.EventType, start time.Time) *model.CalendarEvent {
	return &model.CalendarEvent{ID: id, Title: id, Type: typ, StartDate: start, ParticipantIDs: []string{"u1"}}
}

func TestNextAnniversary(t *testing.T) {
	now := time.Date(2025, 7, 15, 12, 0, 0, 0, time.UTC)
	s := NewScheduler(time.UTC)

	past := event("past", model.EventTypeAnniversary, now.AddDate(0, 0, -1))
	future := event("future", model.EventTypeAnniversary, now.AddDate(0, 0, 30))

	got := s.NextAnniversary([]*model.CalendarEvent{past, future}, now)
	require.NotNil(t, got)
	assert.Equal(t, "future", got.ID)

	sooner := event("sooner", model.EventTypeAnniversary, now.AddDate(0, 0, 3))
	date := event("date", model.EventTypeDate, now.AddDate(0, 0, 1))
	got = s.NextAnniversary([]*model.CalendarEvent{future, date, sooner}, now)
	assert.Equal(t, "sooner", got.ID)

	assert.Nil(t, s.NextAnniversary([]*model.CalendarEvent{past, date}, now))
	assert.Nil(t, s.NextAnniversary(nil, now))

	// an anniversary starting exactly now is not upcoming
	assert.Nil(t, s.NextAnniversary([]*model.CalendarEvent{event("now", model.EventTypeAnniversary, now)}, now))
}

func TestUpcoming(t *testing.T) {
	now := time.Date(2025, 7, 15, 12, 0, 0, 0, time.UTC)
	s := NewScheduler(time.UTC)

	a := event("a", model.EventTypeTravel, now.Add(72*time.Hour))
	b := event("b", model.EventTypeDate, now.Add(time.Hour))
	c := event("c", model.EventTypeTodo, now.Add(-time.Hour))
	d := event("d", model.EventTypeMilestone, now.Add(72*time.Hour))
	events := []*model.CalendarEvent{a, b, c, d}

	tests := []struct {
		name  string
		limit int
		want  []string
	}{
		{"all future in order", 10, []string{"b", "a", "d"}},
		{"truncated", 2, []string{"b", "a"}},
		{"zero means all", 0, []string{"b", "a", "d"}},
		{"negative means all", -1, []string{"b", "a", "d"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.Upcoming(events, now, tt.limit)
			ids := make([]string, 0, len(got))
			for _, e := range got {
				ids = append(ids, e.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}

	// recomputed on every call
	first := s.Upcoming(events, now, 1)
	second := s.Upcoming(events, now, 1)
	assert.Equal(t, first, second)
	assert.Empty(t, s.Upcoming(events, now.AddDate(1, 0, 0), 5))
}

func TestDaysBetween(t *testing.T) {
	taipei := time.FixedZone("CST", 8*3600)
	s := NewScheduler(taipei)

	tests := []struct {
		name string
		a, b time.Time
		want int
	}{
		{"same instant", time.Date(2025, 1, 1, 9, 0, 0, 0, taipei), time.Date(2025, 1, 1, 9, 0, 0, 0, taipei), 0},
		{"late night to early morning", time.Date(2025, 1, 1, 23, 59, 0, 0, taipei), time.Date(2025, 1, 2, 0, 1, 0, 0, taipei), 1},
		{"early morning to late night", time.Date(2025, 1, 1, 0, 1, 0, 0, taipei), time.Date(2025, 1, 1, 23, 59, 0, 0, taipei), 0},
		{"backwards", time.Date(2025, 3, 10, 8, 0, 0, 0, taipei), time.Date(2025, 3, 1, 20, 0, 0, 0, taipei), -9},
		{"across a leap day", time.Date(2024, 2, 28, 12, 0, 0, 0, taipei), time.Date(2024, 3, 1, 12, 0, 0, 0, taipei), 2},
		{"utc input evaluated in zone", time.Date(2025, 1, 1, 16, 30, 0, 0, time.UTC), time.Date(2025, 1, 2, 1, 0, 0, 0, taipei), 0},
		{"a full year", time.Date(2023, 7, 15, 0, 0, 0, 0, taipei), time.Date(2024, 7, 15, 23, 0, 0, 0, taipei), 366},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.DaysBetween(tt.a, tt.b))
		})
	}
}

func TestDaysBetween_DSTTransition(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skip("tzdata not available")
	}
	s := NewScheduler(ny)

	// 2025-03-09 is only 23 hours long in New York
	a := time.Date(2025, 3, 8, 12, 0, 0, 0, ny)
	b := time.Date(2025, 3, 10, 0, 30, 0, 0, ny)
	assert.Equal(t, 2, s.DaysBetween(a, b))
}

func TestDaysUntilAndTogether(t *testing.T) {
	s := NewScheduler(time.UTC)
	now := time.Date(2025, 7, 15, 18, 0, 0, 0, time.UTC)

	assert.Equal(t, 0, s.DaysUntil(time.Date(2025, 7, 15, 23, 0, 0, 0, time.UTC), now))
	assert.Equal(t, 10, s.DaysUntil(time.Date(2025, 7, 25, 1, 0, 0, 0, time.UTC), now))

	assert.Equal(t, 1, s.DaysTogether(time.Date(2025, 7, 15, 9, 0, 0, 0, time.UTC), now))
	assert.Equal(t, 366, s.DaysTogether(time.Date(2024, 7, 15, 9, 0, 0, 0, time.UTC), now))
}

func TestIsReminderDue(t *testing.T) {
	s := NewScheduler(time.UTC)
	now := time.Date(2025, 7, 15, 12, 0, 0, 0, time.UTC)

	at := now
	before := now.Add(time.Minute)
	due := &model.CalendarEvent{ID: "due", ReminderTime: &at}
	notYet := &model.CalendarEvent{ID: "later", ReminderTime: &before}
	none := &model.CalendarEvent{ID: "none"}

	assert.True(t, s.IsReminderDue(due, now))
	assert.False(t, s.IsReminderDue(notYet, now))
	assert.False(t, s.IsReminderDue(none, now))
	assert.False(t, s.IsReminderDue(nil, now))

	got := s.DueReminders([]*model.CalendarEvent{due, notYet, none}, now)
	require.Len(t, got, 1)
	assert.Equal(t, "due", got[0].ID)
}

func TestEventsOn(t *testing.T) {
	taipei := time.FixedZone("CST", 8*3600)
	s := NewScheduler(taipei)
	day := time.Date(2025, 2, 14, 10, 0, 0, 0, taipei)

	dinner := event("dinner", model.EventTypeDate, time.Date(2025, 2, 14, 19, 0, 0, 0, taipei))
	// 16:30 UTC on the 13th is 00:30 on the 14th in Taipei
	midnight := event("midnight", model.EventTypeDate, time.Date(2025, 2, 13, 16, 30, 0, 0, time.UTC))
	other := event("other", model.EventTypeTodo, time.Date(2025, 2, 15, 0, 0, 0, 0, taipei))

	got := s.EventsOn([]*model.CalendarEvent{dinner, midnight, other}, day)
	require.Len(t, got, 2)
	assert.Equal(t, "dinner", got[0].ID)
	assert.Equal(t, "midnight", got[1].ID)
}
