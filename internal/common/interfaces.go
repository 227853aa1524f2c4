//go:generate mockgen -destination=mocks/mock_interfaces.go -package=mocks parallel/internal/common RelationshipStore,SyncTransport,NotificationScheduler,MediaUploader,ReminderRepository

package common

import (
	"context" // provides context for cancellation, deletion, update anything
	"time"

	"parallel/internal/model"
)

// EntityKind names a stored entity type for RelationshipStore.Fetch.
type EntityKind string

const (
	KindUser          EntityKind = "user"
	KindMessage       EntityKind = "message"
	KindDiaryEntry    EntityKind = "diary_entry"
	KindLocationShare EntityKind = "location_share"
	KindCalendarEvent EntityKind = "calendar_event"
)

// Filter narrows a Fetch. Equals is matched column by column; Since/Until bound
// the kind's natural time column (half-open [Since, Until)). AnyOf matches when
// at least one group of column equalities holds, e.g. both directions of a pair.
type Filter struct {
	Equals     map[string]interface{}
	AnyOf      []map[string]interface{}
	Since      *time.Time
	Until      *time.Time
	Descending bool
	Limit      int
}

// RelationshipStore is the durable storage collaborator. Entities are passed as
// pointers to model types; failures come back as *StorageError.
type RelationshipStore interface {
	Insert(ctx context.Context, entity interface{}) error
	Save(ctx context.Context, entity interface{}) error
	Fetch(ctx context.Context, kind EntityKind, filter Filter) ([]interface{}, error)
}

// StatusAckHandler receives asynchronous delivery acknowledgements.
type StatusAckHandler func(ctx context.Context, correlationToken string, status model.MessageStatus)

// SyncTransport delivers messages to the partner device. Send is
// fire-and-forget; acknowledgements arrive through the registered handler.
// When msg already carries a correlation token the transport publishes under
// it and returns it unchanged.
type SyncTransport interface {
	Send(ctx context.Context, msg *model.Message) (string, error)
	OnStatusAck(handler StatusAckHandler) error
}

// NotificationScheduler delivers reminders. The engine never calls it directly.
type NotificationScheduler interface {
	Schedule(ctx context.Context, at time.Time, payload NotificationPayload) (string, error)
	Cancel(ctx context.Context, handle string) error
}

// ReminderRepository persists scheduled reminders for the notification service.
type ReminderRepository interface {
	Create(ctx context.Context, reminders ...*Reminder) error
	ByHandle(ctx context.Context, handle string) ([]*Reminder, error)
	ByUserID(ctx context.Context, userID string, limit, offset int) ([]*Reminder, error)
	Due(ctx context.Context, before time.Time) ([]*Reminder, error)
	UpdateStatus(ctx context.Context, handle, userID string, status NotificationStatus) error
	Cancel(ctx context.Context, handle string) (int64, error)
}

// MediaUploader stores a media payload and returns the URL it is served from.
type MediaUploader interface {
	Upload(ctx context.Context, ownerID string, fileType MediaFileType, data []byte) (string, error)
	// Remove deletes a payload previously returned by Upload.
	Remove(ctx context.Context, url string) error
}

// TransitionRecorder observes engine state changes for metrics.
type TransitionRecorder interface {
	Transition(entity, to string)
	Rejected(entity string, err error)
}

type Observer interface {
	Update(event NotificationEvent) error
	Name() string
}

type Subject interface {
	Subscribe(observer Observer)
	Unsubscribe(observer Observer)
	Dispatch(event NotificationEvent) error
	Submit(ctx context.Context, event NotificationEvent, done func(error)) error
}

type nopRecorder struct{}

func (nopRecorder) Transition(string, string) {}
func (nopRecorder) Rejected(string, error)    {}

// NopRecorder discards every observation.
var NopRecorder TransitionRecorder = nopRecorder{}
