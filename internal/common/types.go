package common

import (
	"time"
)

type NotificationType string

const (
	EventReminderType NotificationType = "event_reminder"
	MessageType       NotificationType = "message"
	DiarySharedType   NotificationType = "diary_shared"
	SystemType        NotificationType = "system"
)

type NotificationStatus string

const (
	StatusPending   NotificationStatus = "pending"
	StatusScheduled NotificationStatus = "scheduled"
	StatusSent      NotificationStatus = "sent"
	StatusFailed    NotificationStatus = "failed"
	StatusCancelled NotificationStatus = "cancelled"
)

type NotificationMetadata map[string]interface{}

// NotificationPayload is what a caller hands to NotificationScheduler.Schedule.
type NotificationPayload struct {
	Type     NotificationType
	UserIDs  []string
	Header   string
	Content  string
	Metadata NotificationMetadata
}

// NotificationEvent is one dispatch of a payload to a single user.
type NotificationEvent struct {
	Handle      string
	Type        NotificationType
	UserID      string
	Header      string
	Content     string
	ScheduledAt *time.Time
	Metadata    NotificationMetadata
}

// Reminder is a payload scheduled for one user. Handle identifies it to Cancel.
type Reminder struct {
	Handle      string
	UserID      string
	Type        NotificationType
	Header      string
	Content     string
	Status      NotificationStatus
	ScheduledAt time.Time
	SentAt      *time.Time
	Metadata    NotificationMetadata
	CreatedAt   time.Time
}

func (r *Reminder) Event() NotificationEvent {
	at := r.ScheduledAt
	return NotificationEvent{
		Handle:      r.Handle,
		Type:        r.Type,
		UserID:      r.UserID,
		Header:      r.Header,
		Content:     r.Content,
		ScheduledAt: &at,
		Metadata:    r.Metadata,
	}
}
