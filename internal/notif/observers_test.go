package notif

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(subject string, data []byte) error {
	args := m.Called(subject, data)
	return args.Error(0)
}

func TestLogObserver_Update(t *testing.T) {
	var buf bytes.Buffer
	obs := NewLogObserver(slog.New(slog.NewTextHandler(&buf, nil)))

	assert.Equal(t, "log_observer", obs.Name())
	assert.NoError(t, obs.Update(testEvent()))
	assert.Contains(t, buf.String(), "notification dispatched")
	assert.Contains(t, buf.String(), "user_id=user1")
}

func TestPushObserver_Update(t *testing.T) {
	pub := new(MockPublisher)
	obs := NewPushObserver(pub, "couple")

	at := time.Date(2025, 8, 1, 9, 0, 0, 0, time.UTC)
	event := testEvent()
	event.ScheduledAt = &at

	var sent []byte
	pub.On("Publish", "couple.users.user1.notifications", mock.Anything).
		Run(func(args mock.Arguments) { sent = args.Get(1).([]byte) }).
		Return(nil)

	require.NoError(t, obs.Update(event))
	assert.Equal(t, "push_observer", obs.Name())

	var got pushMessage
	require.NoError(t, json.Unmarshal(sent, &got))
	assert.Equal(t, "h1", got.Handle)
	assert.Equal(t, "event_reminder", got.Type)
	assert.Equal(t, "e1", got.Data["event_id"])
	assert.True(t, at.Equal(*got.ScheduledAt))
	pub.AssertExpectations(t)
}

func TestPushObserver_PublishError(t *testing.T) {
	pub := new(MockPublisher)
	pub.On("Publish", "parallel.users.user1.notifications", mock.Anything).Return(errors.New("no responders"))

	err := NewPushObserver(pub, "").Update(testEvent())
	assert.ErrorContains(t, err, "failed to publish push")
}
