// Package model holds the relationship entities exchanged between the engine
// and its collaborators. The types carry no behavior beyond enum helpers and
// no storage annotations; the schema lives in dbmysql.
package model

import "time"

type User struct {
	ID               string
	Name             string
	Email            string
	ProfileImageData []byte
	CreatedAt        time.Time
	PartnerID        *string
	IsAuthenticated  bool
}

type Message struct {
	ID               string
	SenderID         string
	RecipientID      string
	Content          string
	Type             MessageType
	Status           MessageStatus
	Timestamp        time.Time
	MediaData        []byte
	MediaURL         *string
	IsEncrypted      bool
	CorrelationToken *string
}

type DiaryEntry struct {
	ID          string
	AuthorID    string
	RecipientID string
	Title       string
	Content     string
	Status      DiaryStatus
	CreatedAt   time.Time
	SharedAt    *time.Time
	ReadAt      *time.Time
	Weather     *string
	Mood        *string
	CoverStyle  string
	Images      [][]byte
}

type Coordinates struct {
	Latitude  float64
	Longitude float64
}

// LocationShare is a single position report. IsActive is the flag stored at
// write time; time-sensitive decisions use location.IsCurrentlyActive.
type LocationShare struct {
	ID              string
	UserID          string
	PartnerID       string
	Coordinates     Coordinates
	Accuracy        float64
	Timestamp       time.Time
	BatteryLevel    *float64
	SharingDuration SharingDuration
	ExpiresAt       *time.Time
	IsActive        bool
}

type CalendarEvent struct {
	ID             string
	Title          string
	Description    string
	Type           EventType
	StartDate      time.Time
	EndDate        *time.Time
	IsAllDay       bool
	IsRecurring    bool
	ReminderTime   *time.Time
	CreatedBy      string
	ParticipantIDs []string
	Color          string
	Location       *string
	CreatedAt      time.Time
}
