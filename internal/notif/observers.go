package notif

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"parallel/internal/common"
)

// LogObserver writes every dispatched reminder to the log.
type LogObserver struct {
	logger *slog.Logger
}

func NewLogObserver(logger *slog.Logger) *LogObserver {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogObserver{logger: logger}
}

func (l *LogObserver) Name() string {
	return "log_observer"
}

func (l *LogObserver) Update(event common.NotificationEvent) error {
	l.logger.Info("notification dispatched",
		"handle", event.Handle,
		"type", event.Type,
		"user_id", event.UserID,
		"header", event.Header,
	)
	return nil
}

// Publisher is satisfied by *nats.Conn.
type Publisher interface {
	Publish(subject string, data []byte) error
}

// PushObserver publishes reminders to the user's notification subject, where
// the user's devices are subscribed.
type PushObserver struct {
	publisher Publisher
	prefix    string
}

type pushMessage struct {
	Handle      string                      `json:"handle"`
	Type        string                      `json:"type"`
	Header      string                      `json:"header"`
	Content     string                      `json:"content"`
	ScheduledAt *time.Time                  `json:"scheduled_at,omitempty"`
	Data        common.NotificationMetadata `json:"data,omitempty"`
}

func NewPushObserver(publisher Publisher, subjectPrefix string) *PushObserver {
	if subjectPrefix == "" {
		subjectPrefix = "parallel"
	}
	return &PushObserver{publisher: publisher, prefix: subjectPrefix}
}

func (p *PushObserver) Name() string {
	return "push_observer"
}

func (p *PushObserver) Subject(userID string) string {
	return fmt.Sprintf("%s.users.%s.notifications", p.prefix, userID)
}

func (p *PushObserver) Update(event common.NotificationEvent) error {
	data, err := json.Marshal(pushMessage{
		Handle:      event.Handle,
		Type:        string(event.Type),
		Header:      event.Header,
		Content:     event.Content,
		ScheduledAt: event.ScheduledAt,
		Data:        event.Metadata,
	})
	if err != nil {
		return fmt.Errorf("failed to encode push: %w", err)
	}

	if err := p.publisher.Publish(p.Subject(event.UserID), data); err != nil {
		return fmt.Errorf("failed to publish push: %w", err)
	}
	return nil
}
