package dbmysql

import (
	"time"

	"parallel/internal/model"
)

type CalendarEvent struct {
	ID             string    `gorm:"primaryKey;size:36"`
	Title          string    `gorm:"size:255;not null"`
	Description    string    `gorm:"type:text"`
	Type           string    `gorm:"size:20;not null"`
	StartDate      time.Time `gorm:"index;not null"`
	EndDate        *time.Time
	IsAllDay       bool       `gorm:"not null"`
	IsRecurring    bool       `gorm:"not null"`
	ReminderTime   *time.Time `gorm:"index"`
	CreatedBy      string     `gorm:"index;size:36;not null"`
	ParticipantIDs []string   `gorm:"type:json;serializer:json"`
	Color          string     `gorm:"size:20"`
	Location       *string    `gorm:"size:255"`
	CreatedAt      time.Time
}

func (CalendarEvent) TableName() string {
	return "calendar_events"
}

func newCalendarEvent(e *model.CalendarEvent) *CalendarEvent {
	return &CalendarEvent{
		ID:             e.ID,
		Title:          e.Title,
		Description:    e.Description,
		Type:           string(e.Type),
		StartDate:      e.StartDate,
		EndDate:        e.EndDate,
		IsAllDay:       e.IsAllDay,
		IsRecurring:    e.IsRecurring,
		ReminderTime:   e.ReminderTime,
		CreatedBy:      e.CreatedBy,
		ParticipantIDs: e.ParticipantIDs,
		Color:          e.Color,
		Location:       e.Location,
		CreatedAt:      e.CreatedAt,
	}
}

func (r *CalendarEvent) toModel() *model.CalendarEvent {
	return &model.CalendarEvent{
		ID:             r.ID,
		Title:          r.Title,
		Description:    r.Description,
		Type:           model.EventType(r.Type),
		StartDate:      r.StartDate,
		EndDate:        r.EndDate,
		IsAllDay:       r.IsAllDay,
		IsRecurring:    r.IsRecurring,
		ReminderTime:   r.ReminderTime,
		CreatedBy:      r.CreatedBy,
		ParticipantIDs: r.ParticipantIDs,
		Color:          r.Color,
		Location:       r.Location,
		CreatedAt:      r.CreatedAt,
	}
}
