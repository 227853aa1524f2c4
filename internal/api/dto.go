package api

import (
	"time"

	"parallel/internal/common"
	"parallel/internal/model"
)

type createMessageRequest struct {
	RecipientID string `json:"recipient_id"`
	Content     string `json:"content"`
	Type        string `json:"type"`
	Media       []byte `json:"media,omitempty"`
	Send        bool   `json:"send"`
}

type statusRequest struct {
	Status string `json:"status"`
}

type messageResponse struct {
	ID               string    `json:"id"`
	SenderID         string    `json:"sender_id"`
	RecipientID      string    `json:"recipient_id"`
	Content          string    `json:"content"`
	Type             string    `json:"type"`
	Status           string    `json:"status"`
	Timestamp        time.Time `json:"timestamp"`
	MediaURL         *string   `json:"media_url,omitempty"`
	IsEncrypted      bool      `json:"is_encrypted"`
	CorrelationToken *string   `json:"correlation_token,omitempty"`
}

func toMessageResponse(m *model.Message) messageResponse {
	return messageResponse{
		ID:               m.ID,
		SenderID:         m.SenderID,
		RecipientID:      m.RecipientID,
		Content:          m.Content,
		Type:             string(m.Type),
		Status:           string(m.Status),
		Timestamp:        m.Timestamp,
		MediaURL:         m.MediaURL,
		IsEncrypted:      m.IsEncrypted,
		CorrelationToken: m.CorrelationToken,
	}
}

type startEntryRequest struct {
	Title      string  `json:"title"`
	Content    string  `json:"content"`
	Weather    *string `json:"weather,omitempty"`
	Mood       *string `json:"mood,omitempty"`
	CoverStyle string  `json:"cover_style"`
}

type imageRequest struct {
	Image []byte `json:"image"`
}

type diaryResponse struct {
	ID          string     `json:"id"`
	AuthorID    string     `json:"author_id"`
	RecipientID string     `json:"recipient_id"`
	Title       string     `json:"title"`
	Content     string     `json:"content"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	SharedAt    *time.Time `json:"shared_at,omitempty"`
	ReadAt      *time.Time `json:"read_at,omitempty"`
	Weather     *string    `json:"weather,omitempty"`
	Mood        *string    `json:"mood,omitempty"`
	CoverStyle  string     `json:"cover_style"`
	ImageCount  int        `json:"image_count"`
}

// toDiaryResponse hides the body of entries the partner has not been handed yet.
func toDiaryResponse(e *model.DiaryEntry, viewerID string) diaryResponse {
	resp := diaryResponse{
		ID:          e.ID,
		AuthorID:    e.AuthorID,
		RecipientID: e.RecipientID,
		Title:       e.Title,
		Content:     e.Content,
		Status:      string(e.Status),
		CreatedAt:   e.CreatedAt,
		SharedAt:    e.SharedAt,
		ReadAt:      e.ReadAt,
		Weather:     e.Weather,
		Mood:        e.Mood,
		CoverStyle:  e.CoverStyle,
		ImageCount:  len(e.Images),
	}
	if viewerID != e.AuthorID && (e.Status == model.DiaryStatusWriting || e.Status == model.DiaryStatusLocked) {
		resp.Content = ""
	}
	return resp
}

type positionRequest struct {
	Latitude     float64  `json:"latitude"`
	Longitude    float64  `json:"longitude"`
	Accuracy     float64  `json:"accuracy"`
	BatteryLevel *float64 `json:"battery_level,omitempty"`
	Duration     string   `json:"duration,omitempty"`
}

func (p positionRequest) coordinates() model.Coordinates {
	return model.Coordinates{Latitude: p.Latitude, Longitude: p.Longitude}
}

type durationRequest struct {
	Duration string `json:"duration"`
}

type locationResponse struct {
	ID           string     `json:"id"`
	UserID       string     `json:"user_id"`
	PartnerID    string     `json:"partner_id"`
	Latitude     float64    `json:"latitude"`
	Longitude    float64    `json:"longitude"`
	Accuracy     float64    `json:"accuracy"`
	BatteryLevel *float64   `json:"battery_level,omitempty"`
	Timestamp    time.Time  `json:"timestamp"`
	Duration     string     `json:"duration"`
	ExpiresAt    *time.Time `json:"expires_at,omitempty"`
	Active       bool       `json:"active"`
}

func toLocationResponse(s *model.LocationShare, active bool) locationResponse {
	return locationResponse{
		ID:           s.ID,
		UserID:       s.UserID,
		PartnerID:    s.PartnerID,
		Latitude:     s.Coordinates.Latitude,
		Longitude:    s.Coordinates.Longitude,
		Accuracy:     s.Accuracy,
		BatteryLevel: s.BatteryLevel,
		Timestamp:    s.Timestamp,
		Duration:     string(s.SharingDuration),
		ExpiresAt:    s.ExpiresAt,
		Active:       active,
	}
}

type createEventRequest struct {
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	Type         string     `json:"type"`
	StartDate    time.Time  `json:"start_date"`
	EndDate      *time.Time `json:"end_date,omitempty"`
	IsAllDay     bool       `json:"is_all_day"`
	IsRecurring  bool       `json:"is_recurring"`
	ReminderTime *time.Time `json:"reminder_time,omitempty"`
	Color        string     `json:"color"`
	Location     *string    `json:"location,omitempty"`
}

type eventResponse struct {
	ID             string     `json:"id"`
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	Type           string     `json:"type"`
	StartDate      time.Time  `json:"start_date"`
	EndDate        *time.Time `json:"end_date,omitempty"`
	IsAllDay       bool       `json:"is_all_day"`
	IsRecurring    bool       `json:"is_recurring"`
	ReminderTime   *time.Time `json:"reminder_time,omitempty"`
	CreatedBy      string     `json:"created_by"`
	ParticipantIDs []string   `json:"participant_ids"`
	Color          string     `json:"color"`
	Location       *string    `json:"location,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	DaysUntil      *int       `json:"days_until,omitempty"`
	ReminderHandle string     `json:"reminder_handle,omitempty"`
}

func toEventResponse(e *model.CalendarEvent) eventResponse {
	return eventResponse{
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

func toEventResponses(events []*model.CalendarEvent) []eventResponse {
	out := make([]eventResponse, len(events))
	for i, e := range events {
		out[i] = toEventResponse(e)
	}
	return out
}

type reminderResponse struct {
	Handle      string                      `json:"handle"`
	Type        string                      `json:"type"`
	Header      string                      `json:"header"`
	Content     string                      `json:"content"`
	Status      string                      `json:"status"`
	ScheduledAt time.Time                   `json:"scheduled_at"`
	SentAt      *time.Time                  `json:"sent_at,omitempty"`
	Metadata    common.NotificationMetadata `json:"metadata,omitempty"`
}

func toReminderResponses(reminders []*common.Reminder) []reminderResponse {
	out := make([]reminderResponse, len(reminders))
	for i, r := range reminders {
		out[i] = reminderResponse{
			Handle:      r.Handle,
			Type:        string(r.Type),
			Header:      r.Header,
			Content:     r.Content,
			Status:      string(r.Status),
			ScheduledAt: r.ScheduledAt,
			SentAt:      r.SentAt,
			Metadata:    r.Metadata,
		}
	}
	return out
}
