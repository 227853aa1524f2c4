package dbmysql

import (
	"time"

	"parallel/internal/common"
)

// Reminder is one scheduled notification for one user. Rows scheduled together
// share a Handle.
type Reminder struct {
	ID          uint64    `gorm:"primaryKey;autoIncrement"`
	Handle      string    `gorm:"index;size:36;not null"`
	UserID      string    `gorm:"not null;index;size:36"`
	Header      string    `gorm:"not null;size:255"`
	Content     string    `gorm:"not null;type:text"`
	Type        string    `gorm:"not null;size:50"`
	Status      string    `gorm:"default:'scheduled';size:50;index"`
	ScheduledAt time.Time `gorm:"index;not null"`
	SentAt      *time.Time
	Metadata    common.NotificationMetadata `gorm:"type:json;serializer:json"`
	CreatedAt   time.Time                   `gorm:"autoCreateTime"`
	UpdatedAt   time.Time                   `gorm:"autoUpdateTime"`
}

func (Reminder) TableName() string {
	return "reminders"
}

func newReminder(r *common.Reminder) *Reminder {
	return &Reminder{
		Handle:      r.Handle,
		UserID:      r.UserID,
		Header:      r.Header,
		Content:     r.Content,
		Type:        string(r.Type),
		Status:      string(r.Status),
		ScheduledAt: r.ScheduledAt,
		SentAt:      r.SentAt,
		Metadata:    r.Metadata,
		CreatedAt:   r.CreatedAt,
	}
}

func (r *Reminder) toCommon() *common.Reminder {
	return &common.Reminder{
		Handle:      r.Handle,
		UserID:      r.UserID,
		Type:        common.NotificationType(r.Type),
		Header:      r.Header,
		Content:     r.Content,
		Status:      common.NotificationStatus(r.Status),
		ScheduledAt: r.ScheduledAt,
		SentAt:      r.SentAt,
		Metadata:    r.Metadata,
		CreatedAt:   r.CreatedAt,
	}
}
