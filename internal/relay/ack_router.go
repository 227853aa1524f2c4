package relay

import (
	"context"
	"errors"
	"log/slog"

	"parallel/internal/common"
	"parallel/internal/model"
)

// AckHandler is implemented by the chat service.
type AckHandler interface {
	HandleAck(ctx context.Context, correlationToken string, status model.MessageStatus) (*model.Message, error)
}

// AckRouter applies transport acknowledgements to stored messages. Stale and
// duplicate acks are expected and only logged.
type AckRouter struct {
	chat   AckHandler
	logger *slog.Logger
}

func NewAckRouter(chat AckHandler, logger *slog.Logger) *AckRouter {
	if logger == nil {
		logger = slog.Default()
	}
	return &AckRouter{chat: chat, logger: logger}
}

// Start registers the router on transport.
func (r *AckRouter) Start(transport common.SyncTransport) error {
	return transport.OnStatusAck(r.Handle)
}

func (r *AckRouter) Handle(ctx context.Context, token string, status model.MessageStatus) {
	msg, err := r.chat.HandleAck(ctx, token, status)
	switch {
	case err == nil:
		r.logger.DebugContext(ctx, "message advanced", "id", msg.ID, "status", msg.Status)
	case errors.Is(err, common.ErrInvalidStateTransition):
		r.logger.DebugContext(ctx, "ignoring stale ack", "token", token, "status", status)
	case errors.Is(err, common.ErrNotFound):
		r.logger.WarnContext(ctx, "ack for unknown message", "token", token)
	default:
		r.logger.ErrorContext(ctx, "failed to apply ack", "token", token, "status", status, "error", err)
	}
}
