package service

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/google/uuid"

	"parallel/internal/common"
	"parallel/internal/model"
)

const missYouContent = "想你 ❤️"

// ChatService owns the delivery status of a message. Status only moves forward
// along sending < sent < delivered < read, which makes duplicate or reordered
// acknowledgements from the transport harmless.
type ChatService interface {
	CreateMessage(ctx context.Context, senderID, recipientID, content string, msgType model.MessageType, media []byte) (*model.Message, error)
	SendMissYou(ctx context.Context, senderID, recipientID string) (*model.Message, error)
	Send(ctx context.Context, msg *model.Message) (*model.Message, error)
	Advance(ctx context.Context, msg *model.Message, target model.MessageStatus) (*model.Message, error)
	HandleAck(ctx context.Context, correlationToken string, status model.MessageStatus) (*model.Message, error)
	GetMessage(ctx context.Context, id string) (*model.Message, error)
	GetMessageHistory(ctx context.Context, userID, partnerID string, limit int) ([]*model.Message, error)
}

type Option func(*chatService)

func WithClock(c common.Clock) Option {
	return func(s *chatService) { s.clock = c }
}

func WithUploader(u common.MediaUploader) Option {
	return func(s *chatService) { s.uploader = u }
}

func WithRecorder(r common.TransitionRecorder) Option {
	return func(s *chatService) { s.recorder = r }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *chatService) { s.logger = l }
}

type chatService struct {
	store     common.RelationshipStore
	transport common.SyncTransport
	uploader  common.MediaUploader
	clock     common.Clock
	recorder  common.TransitionRecorder
	logger    *slog.Logger
}

// Constructor used in DI/wire. transport may be nil when messages are only stored.
func NewChatService(store common.RelationshipStore, transport common.SyncTransport, opts ...Option) ChatService {
	s := &chatService{
		store:     store,
		transport: transport,
		clock:     common.SystemClock,
		recorder:  common.NopRecorder,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateMessage validates input and persists a new message in the sending status.
func (s *chatService) CreateMessage(
	ctx context.Context,
	senderID, recipientID, content string,
	msgType model.MessageType,
	media []byte,
) (*model.Message, error) {
	content = strings.TrimSpace(content)

	if err := common.ValidatePair(senderID, recipientID); err != nil {
		return nil, err
	}
	if !msgType.IsValid() {
		return nil, common.Validationf("unknown message type %q", msgType)
	}
	if msgType.IsTextual() && content == "" {
		return nil, common.Validationf("message content cannot be empty")
	}
	if !msgType.IsTextual() && len(media) == 0 {
		return nil, common.Validationf("%s message requires a media payload", msgType)
	}

	msg := &model.Message{
		ID:          uuid.New().String(),
		SenderID:    senderID,
		RecipientID: recipientID,
		Content:     content,
		Type:        msgType,
		Status:      model.MessageStatusSending,
		Timestamp:   s.clock.Now().UTC(),
		IsEncrypted: true,
	}

	if len(media) > 0 {
		if s.uploader != nil {
			url, err := s.uploader.Upload(ctx, senderID, common.MediaFileTypeFor(msgType), media)
			if err != nil {
				return nil, common.WrapStorage("upload message media", err)
			}
			msg.MediaURL = &url
		} else {
			msg.MediaData = media
		}
	}

	if err := s.store.Insert(ctx, msg); err != nil {
		if msg.MediaURL != nil {
			if rerr := s.uploader.Remove(ctx, *msg.MediaURL); rerr != nil {
				s.logger.WarnContext(ctx, "failed to remove orphaned media", "url", *msg.MediaURL, "error", rerr)
			}
		}
		return nil, common.WrapStorage("insert message", err)
	}

	s.recorder.Transition("message", string(msg.Status))
	s.logger.DebugContext(ctx, "message created", "id", msg.ID, "type", msg.Type)
	return msg, nil
}

func (s *chatService) SendMissYou(ctx context.Context, senderID, recipientID string) (*model.Message, error) {
	return s.CreateMessage(ctx, senderID, recipientID, missYouContent, model.MessageTypeMissYou, nil)
}

// Send records a fresh correlation token on msg and then hands it to the
// transport. The token is stored before anything is published.
func (s *chatService) Send(ctx context.Context, msg *model.Message) (*model.Message, error) {
	if msg == nil {
		return nil, common.Validationf("message is required")
	}
	if s.transport == nil {
		return nil, fmt.Errorf("send message %s: no transport configured", msg.ID)
	}
	if msg.CorrelationToken != nil {
		return nil, common.Transitionf("message %s was already handed to the transport", msg.ID)
	}

	token := uuid.New().String()
	pending := *msg
	pending.CorrelationToken = &token
	if err := s.store.Save(ctx, &pending); err != nil {
		return nil, common.WrapStorage("save message", err)
	}

	published, err := s.transport.Send(ctx, &pending)
	if err != nil {
		if rerr := s.store.Save(ctx, msg); rerr != nil {
			s.logger.ErrorContext(ctx, "failed to clear correlation token", "id", msg.ID, "error", rerr)
		}
		return nil, fmt.Errorf("send message %s: %w", msg.ID, err)
	}
	if published != token {
		return nil, fmt.Errorf("send message %s: transport replaced correlation token", msg.ID)
	}

	s.logger.DebugContext(ctx, "message handed to transport", "id", msg.ID, "token", token)
	return &pending, nil
}

// Advance moves msg to target when target is strictly later than the current
// status. The caller's value is left untouched; the persisted copy is returned.
func (s *chatService) Advance(ctx context.Context, msg *model.Message, target model.MessageStatus) (*model.Message, error) {
	if msg == nil {
		return nil, common.Validationf("message is required")
	}
	if !target.IsValid() {
		return nil, common.Validationf("unknown message status %q", target)
	}
	if !target.After(msg.Status) {
		err := common.Transitionf("message %s cannot move from %s to %s", msg.ID, msg.Status, target)
		s.recorder.Rejected("message", err)
		return nil, err
	}

	updated := *msg
	updated.Status = target
	if err := s.store.Save(ctx, &updated); err != nil {
		return nil, common.WrapStorage("save message", err)
	}

	s.recorder.Transition("message", string(target))
	return &updated, nil
}

// HandleAck routes a transport acknowledgement into Advance.
func (s *chatService) HandleAck(ctx context.Context, correlationToken string, status model.MessageStatus) (*model.Message, error) {
	if correlationToken == "" {
		return nil, common.Validationf("correlation token is required")
	}

	msg, err := s.fetchOne(ctx, common.Filter{
		Equals: map[string]interface{}{"correlation_token": correlationToken},
		Limit:  1,
	})
	if err != nil {
		return nil, err
	}

	return s.Advance(ctx, msg, status)
}

func (s *chatService) GetMessage(ctx context.Context, id string) (*model.Message, error) {
	if id == "" {
		return nil, common.Validationf("message ID is required")
	}
	return s.fetchOne(ctx, common.Filter{Equals: map[string]interface{}{"id": id}, Limit: 1})
}

// GetMessageHistory returns the latest limit messages between two users,
// oldest first.
func (s *chatService) GetMessageHistory(ctx context.Context, userID, partnerID string, limit int) ([]*model.Message, error) {
	if err := common.ValidatePair(userID, partnerID); err != nil {
		return nil, err
	}

	rows, err := s.store.Fetch(ctx, common.KindMessage, common.Filter{
		AnyOf: []map[string]interface{}{
			{"sender_id": userID, "recipient_id": partnerID},
			{"sender_id": partnerID, "recipient_id": userID},
		},
		Descending: true,
		Limit:      limit,
	})
	if err != nil {
		return nil, common.WrapStorage("fetch messages", err)
	}

	messages, err := toMessages(rows)
	if err != nil {
		return nil, err
	}
	slices.Reverse(messages)
	return messages, nil
}

func (s *chatService) fetchOne(ctx context.Context, filter common.Filter) (*model.Message, error) {
	rows, err := s.store.Fetch(ctx, common.KindMessage, filter)
	if err != nil {
		return nil, common.WrapStorage("fetch message", err)
	}
	messages, err := toMessages(rows)
	if err != nil {
		return nil, err
	}
	if len(messages) == 0 {
		return nil, fmt.Errorf("message %w", common.ErrNotFound)
	}
	return messages[0], nil
}

func toMessages(rows []interface{}) ([]*model.Message, error) {
	messages := make([]*model.Message, 0, len(rows))
	for _, row := range rows {
		msg, ok := row.(*model.Message)
		if !ok {
			return nil, common.WrapStorage("fetch message", fmt.Errorf("unexpected row type %T", row))
		}
		messages = append(messages, msg)
	}
	return messages, nil
}
