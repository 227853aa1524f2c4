// Package relay carries messages and location fixes to the partner's devices
// over NATS and feeds delivery acknowledgements back into the chat service.
package relay

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"parallel/internal/common"
	"parallel/internal/model"
)

// Conn is the part of *nats.Conn the transport needs.
type Conn interface {
	Publish(subject string, data []byte) error
	Subscribe(subject string, cb nats.MsgHandler) (*nats.Subscription, error)
}

// Envelope is the JSON body published for each message.
type Envelope struct {
	Token       string    `json:"token"`
	ID          string    `json:"id"`
	SenderID    string    `json:"sender_id"`
	RecipientID string    `json:"recipient_id"`
	Content     string    `json:"content"`
	Type        string    `json:"type"`
	Timestamp   time.Time `json:"timestamp"`
	MediaURL    *string   `json:"media_url,omitempty"`
}

// Ack is what a partner device publishes after receiving or reading a message.
type Ack struct {
	Token  string `json:"token"`
	Status string `json:"status"`
}

type LocationUpdate struct {
	UserID       string     `json:"user_id"`
	Latitude     float64    `json:"latitude"`
	Longitude    float64    `json:"longitude"`
	Accuracy     float64    `json:"accuracy"`
	BatteryLevel *float64   `json:"battery_level,omitempty"`
	Timestamp    time.Time  `json:"timestamp"`
	ExpiresAt    *time.Time `json:"expires_at,omitempty"`
	Active       bool       `json:"active"`
}

type Transport struct {
	conn   Conn
	prefix string
	logger *slog.Logger

	mu   sync.Mutex
	subs []*nats.Subscription
}

var _ common.SyncTransport = (*Transport)(nil)

func NewTransport(conn Conn, subjectPrefix string, logger *slog.Logger) *Transport {
	if subjectPrefix == "" {
		subjectPrefix = "parallel"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Transport{conn: conn, prefix: subjectPrefix, logger: logger}
}

func (t *Transport) MessageSubject(recipientID string) string {
	return fmt.Sprintf("%s.users.%s.messages", t.prefix, recipientID)
}

func (t *Transport) LocationSubject(partnerID string) string {
	return fmt.Sprintf("%s.users.%s.location", t.prefix, partnerID)
}

func (t *Transport) AckSubject() string {
	return t.prefix + ".acks"
}

// Send publishes msg to the recipient's subject and returns the token the
// recipient echoes back in its acks. A token already set on msg is reused.
func (t *Transport) Send(ctx context.Context, msg *model.Message) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("context cancelled before publish: %w", err)
	}

	token := uuid.New().String()
	if msg.CorrelationToken != nil && *msg.CorrelationToken != "" {
		token = *msg.CorrelationToken
	}
	data, err := json.Marshal(Envelope{
		Token:       token,
		ID:          msg.ID,
		SenderID:    msg.SenderID,
		RecipientID: msg.RecipientID,
		Content:     msg.Content,
		Type:        string(msg.Type),
		Timestamp:   msg.Timestamp,
		MediaURL:    msg.MediaURL,
	})
	if err != nil {
		return "", fmt.Errorf("marshal message: %w", err)
	}

	if err := t.conn.Publish(t.MessageSubject(msg.RecipientID), data); err != nil {
		return "", fmt.Errorf("publish message: %w", err)
	}
	return token, nil
}

// PublishLocation pushes a position fix to the partner. active is the derived
// state at publish time.
func (t *Transport) PublishLocation(ctx context.Context, share *model.LocationShare, active bool) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context cancelled before publish: %w", err)
	}

	data, err := json.Marshal(LocationUpdate{
		UserID:       share.UserID,
		Latitude:     share.Coordinates.Latitude,
		Longitude:    share.Coordinates.Longitude,
		Accuracy:     share.Accuracy,
		BatteryLevel: share.BatteryLevel,
		Timestamp:    share.Timestamp,
		ExpiresAt:    share.ExpiresAt,
		Active:       active,
	})
	if err != nil {
		return fmt.Errorf("marshal location: %w", err)
	}
	return t.conn.Publish(t.LocationSubject(share.PartnerID), data)
}

// OnStatusAck subscribes handler to the ack subject. Malformed acks are
// logged and dropped.
func (t *Transport) OnStatusAck(handler common.StatusAckHandler) error {
	sub, err := t.conn.Subscribe(t.AckSubject(), func(msg *nats.Msg) {
		var ack Ack
		if err := json.Unmarshal(msg.Data, &ack); err != nil {
			t.logger.Warn("dropping malformed ack", "subject", msg.Subject, "error", err)
			return
		}
		status := model.MessageStatus(ack.Status)
		if ack.Token == "" || !status.IsValid() {
			t.logger.Warn("dropping invalid ack", "token", ack.Token, "status", ack.Status)
			return
		}
		handler(context.Background(), ack.Token, status)
	})
	if err != nil {
		return fmt.Errorf("subscribe to %s: %w", t.AckSubject(), err)
	}

	t.mu.Lock()
	t.subs = append(t.subs, sub)
	t.mu.Unlock()
	return nil
}

func (t *Transport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	var firstErr error
	for _, sub := range t.subs {
		if sub == nil {
			continue
		}
		if err := sub.Unsubscribe(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	t.subs = nil
	return firstErr
}

// Connect dials NATS with reconnects enabled.
func Connect(url, name string) (*nats.Conn, error) {
	conn, err := nats.Connect(url,
		nats.Name(name),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}
	return conn, nil
}
