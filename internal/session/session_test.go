package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromContext(t *testing.T) {
	_, err := FromContext(context.Background())
	assert.ErrorIs(t, err, ErrNoSession)

	ctx := WithSession(context.Background(), Session{UserID: "u1", PartnerID: "u2", FirstLaunch: true})
	s, err := FromContext(ctx)
	require.NoError(t, err)
	assert.Equal(t, "u1", s.UserID)
	assert.Equal(t, "u2", s.PartnerID)
	assert.True(t, s.FirstLaunch)
	assert.True(t, s.Paired())

	_, err = FromContext(WithSession(context.Background(), Session{}))
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestPaired(t *testing.T) {
	assert.False(t, Session{UserID: "u1"}.Paired())
	assert.False(t, Session{UserID: "u1", PartnerID: "u1"}.Paired())
}
