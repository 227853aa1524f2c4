// Package session carries the signed-in user through a request. A Session is
// built once per request (or once per process for the CLI) and passed in the
// context; nothing here is global.
package session

import (
	"context"
	"errors"
)

var ErrNoSession = errors.New("no session in context")

type Session struct {
	UserID      string
	PartnerID   string
	FirstLaunch bool
}

// Paired reports whether the user has a partner to talk to.
func (s Session) Paired() bool {
	return s.PartnerID != "" && s.PartnerID != s.UserID
}

type ctxKey struct{}

func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

func FromContext(ctx context.Context) (Session, error) {
	s, ok := ctx.Value(ctxKey{}).(Session)
	if !ok || s.UserID == "" {
		return Session{}, ErrNoSession
	}
	return s, nil
}
