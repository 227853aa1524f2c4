package notif

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"parallel/internal/common"
)

type MockTestObserver struct {
	mock.Mock
	updateCount int
	mu          sync.Mutex
}

func (m *MockTestObserver) Name() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockTestObserver) Update(event common.NotificationEvent) error {
	m.mu.Lock()
	m.updateCount++
	m.mu.Unlock()
	args := m.Called(event)
	return args.Error(0)
}

func (m *MockTestObserver) GetUpdateCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.updateCount
}

func createMockObserver(name string) *MockTestObserver {
	obs := &MockTestObserver{}
	obs.On("Name").Return(name)
	return obs
}

func testEvent() common.NotificationEvent {
	return common.NotificationEvent{
		Handle:  "h1",
		Type:    common.EventReminderType,
		UserID:  "user1",
		Header:  "Anniversary",
		Content: "One year today",
		Metadata: common.NotificationMetadata{
			"event_id": "e1",
		},
	}
}

func TestNewNotificationManager(t *testing.T) {
	nm := NewNotificationManager(3, 10, nil)

	assert.NotNil(t, nm.observers)
	assert.Equal(t, 3, nm.workerPool)
	assert.Equal(t, 10, cap(nm.eventChannel))

	nm.Shutdown()
}

func TestNewNotificationManager_Defaults(t *testing.T) {
	nm := NewNotificationManager(0, 0, nil)
	defer nm.Shutdown()

	assert.Equal(t, 1, nm.workerPool)
	assert.Equal(t, 1000, cap(nm.eventChannel))
}

func TestNotificationManager_SubscribeUnsubscribe(t *testing.T) {
	nm := NewNotificationManager(1, 10, nil)
	defer nm.Shutdown()

	obs1 := createMockObserver("Observer1")
	obs2 := createMockObserver("Observer2")

	nm.Subscribe(obs1)
	nm.Subscribe(obs2)
	assert.Len(t, nm.observers, 2)

	nm.Unsubscribe(obs1)
	assert.Len(t, nm.observers, 1)
	assert.Equal(t, obs2, nm.observers["Observer2"])
}

func TestNotificationManager_Dispatch(t *testing.T) {
	nm := NewNotificationManager(1, 10, nil)
	defer nm.Shutdown()

	event := testEvent()

	ok := createMockObserver("ok")
	ok.On("Update", event).Return(nil)
	failing := createMockObserver("failing")
	failing.On("Update", event).Return(errors.New("publish refused"))

	nm.Subscribe(ok)
	assert.NoError(t, nm.Dispatch(event))

	nm.Subscribe(failing)
	err := nm.Dispatch(event)
	assert.ErrorContains(t, err, "failing: publish refused")

	ok.AssertExpectations(t)
	failing.AssertExpectations(t)
}

func TestNotificationManager_DispatchWithoutObservers(t *testing.T) {
	nm := NewNotificationManager(1, 10, nil)
	defer nm.Shutdown()

	assert.Error(t, nm.Dispatch(testEvent()))
}

func TestNotificationManager_Submit(t *testing.T) {
	nm := NewNotificationManager(2, 10, nil)
	defer nm.Shutdown()

	event := testEvent()
	obs := createMockObserver("TestObserver")
	obs.On("Update", event).Return(errors.New("observer error")).Once()
	obs.On("Update", event).Return(nil).Once()
	nm.Subscribe(obs)

	results := make(chan error, 2)
	report := func(err error) { results <- err }
	assert.NoError(t, nm.Submit(context.Background(), event, report))
	assert.NoError(t, nm.Submit(context.Background(), event, report))

	var failures int
	for i := 0; i < 2; i++ {
		select {
		case err := <-results:
			if err != nil {
				failures++
				assert.ErrorContains(t, err, "observer error")
			}
		case <-time.After(time.Second):
			t.Fatal("worker did not report")
		}
	}
	assert.Equal(t, 1, failures)
	assert.Equal(t, 2, obs.GetUpdateCount())
}

func TestNotificationManager_SubmitWithoutCallback(t *testing.T) {
	nm := NewNotificationManager(1, 10, nil)
	defer nm.Shutdown()

	obs := createMockObserver("TestObserver")
	obs.On("Update", mock.Anything).Return(nil)
	nm.Subscribe(obs)

	assert.NoError(t, nm.Submit(context.Background(), testEvent(), nil))
	assert.Eventually(t, func() bool { return obs.GetUpdateCount() == 1 }, time.Second, 10*time.Millisecond)
}

func TestNotificationManager_SubmitAfterShutdown(t *testing.T) {
	nm := NewNotificationManager(1, 1, nil)
	nm.Shutdown()

	assert.ErrorIs(t, nm.Submit(context.Background(), testEvent(), nil), ErrManagerClosed)
	select {
	case <-nm.Done():
	default:
		t.Fatal("Done not closed after Shutdown")
	}
	nm.Shutdown()
}

func TestNotificationManager_SubmitRespectsContext(t *testing.T) {
	nm := NewNotificationManager(1, 1, nil)
	defer nm.Shutdown()

	block := make(chan struct{})
	obs := createMockObserver("slow")
	obs.On("Update", mock.Anything).Run(func(mock.Arguments) { <-block }).Return(nil)
	nm.Subscribe(obs)
	defer close(block)

	// one event occupies the worker, one fills the queue
	require.NoError(t, nm.Submit(context.Background(), testEvent(), nil))
	require.Eventually(t, func() bool { return obs.GetUpdateCount() == 1 }, time.Second, 5*time.Millisecond)
	require.NoError(t, nm.Submit(context.Background(), testEvent(), nil))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, nm.Submit(ctx, testEvent(), nil), context.DeadlineExceeded)
}

func TestNotificationManager_ConcurrentOperations(t *testing.T) {
	nm := NewNotificationManager(4, 100, nil)
	defer nm.Shutdown()

	var wg sync.WaitGroup

	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			obs := createMockObserver(fmt.Sprintf("Observer%d", id))
			obs.On("Update", mock.Anything).Return(nil).Maybe()

			nm.Subscribe(obs)
			time.Sleep(5 * time.Millisecond)
			nm.Unsubscribe(obs)
		}(i)
	}

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = nm.Submit(context.Background(), testEvent(), nil)
		}()
	}

	wg.Wait()
}
