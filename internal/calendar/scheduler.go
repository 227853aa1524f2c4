// Package calendar selects upcoming events and reminders for a pair and does
// the calendar-day arithmetic behind countdowns and "days together" counters.
package calendar

import (
	"sort"
	"time"

	"parallel/internal/model"
)

const secondsPerDay = 24 * 60 * 60

// Scheduler evaluates events against a point in time. Day boundaries are taken
// in loc.
type Scheduler struct {
	loc *time.Location
}

func NewScheduler(loc *time.Location) *Scheduler {
	if loc == nil {
		loc = time.Local
	}
	return &Scheduler{loc: loc}
}

func (s *Scheduler) Location() *time.Location {
	return s.loc
}

// NextAnniversary returns the earliest anniversary strictly after now.
func (s *Scheduler) NextAnniversary(events []*model.CalendarEvent, now time.Time) *model.CalendarEvent {
	var next *model.CalendarEvent
	for _, e := range events {
		if e == nil || e.Type != model.EventTypeAnniversary || !e.StartDate.After(now) {
			continue
		}
		if next == nil || e.StartDate.Before(next.StartDate) {
			next = e
		}
	}
	return next
}

// Upcoming returns future events ordered by start date. Events starting at the
// same instant keep their input order. limit <= 0 returns all of them.
func (s *Scheduler) Upcoming(events []*model.CalendarEvent, now time.Time, limit int) []*model.CalendarEvent {
	out := make([]*model.CalendarEvent, 0, len(events))
	for _, e := range events {
		if e != nil && e.StartDate.After(now) {
			out = append(out, e)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].StartDate.Before(out[j].StartDate)
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// DaysBetween counts calendar days from a to b. The result is negative when b
// falls on an earlier day, and the time of day of either input is ignored.
func (s *Scheduler) DaysBetween(a, b time.Time) int {
	return int((s.civilDay(b).Unix() - s.civilDay(a).Unix()) / secondsPerDay)
}

// DaysUntil is the countdown shown for a future date; zero on the day itself.
func (s *Scheduler) DaysUntil(date, now time.Time) int {
	return s.DaysBetween(now, date)
}

// DaysTogether counts the first day as day one.
func (s *Scheduler) DaysTogether(since, now time.Time) int {
	return s.DaysBetween(since, now) + 1
}

func (s *Scheduler) IsReminderDue(event *model.CalendarEvent, now time.Time) bool {
	if event == nil || event.ReminderTime == nil {
		return false
	}
	return !now.Before(*event.ReminderTime)
}

// DueReminders filters events whose reminder time has been reached.
func (s *Scheduler) DueReminders(events []*model.CalendarEvent, now time.Time) []*model.CalendarEvent {
	var due []*model.CalendarEvent
	for _, e := range events {
		if s.IsReminderDue(e, now) {
			due = append(due, e)
		}
	}
	return due
}

// EventsOn returns the events starting on day's calendar date.
func (s *Scheduler) EventsOn(events []*model.CalendarEvent, day time.Time) []*model.CalendarEvent {
	var out []*model.CalendarEvent
	for _, e := range events {
		if e != nil && s.DaysBetween(day, e.StartDate) == 0 {
			out = append(out, e)
		}
	}
	return out
}

// civilDay maps t to UTC midnight of its date in s.loc so that subtraction is
// not affected by DST transitions.
func (s *Scheduler) civilDay(t time.Time) time.Time {
	y, m, d := t.In(s.loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
