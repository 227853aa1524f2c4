package notif

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"parallel/internal/common"
)

// ErrManagerClosed is returned for work submitted after Shutdown.
var ErrManagerClosed = errors.New("notification manager is shut down")

// NotificationManager fans events out to subscribed observers through a fixed
// pool of workers.
type NotificationManager struct {
	observers    map[string]common.Observer
	eventChannel chan delivery
	workerPool   int
	logger       *slog.Logger
	ctx          context.Context
	cancel       context.CancelFunc
	mu           sync.RWMutex
	wg           sync.WaitGroup
	shutdown     sync.Once
}

var _ common.Subject = (*NotificationManager)(nil)

type delivery struct {
	event common.NotificationEvent
	done  func(error)
}

func NewNotificationManager(workerPoolSize, bufferSize int, logger *slog.Logger) *NotificationManager {
	if workerPoolSize <= 0 {
		workerPoolSize = 1
	}
	if bufferSize <= 0 {
		bufferSize = 1000
	}
	if logger == nil {
		logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())

	nm := &NotificationManager{
		observers:    make(map[string]common.Observer),
		eventChannel: make(chan delivery, bufferSize),
		workerPool:   workerPoolSize,
		logger:       logger,
		ctx:          ctx,
		cancel:       cancel,
	}

	for i := 0; i < workerPoolSize; i++ {
		nm.wg.Add(1)
		go nm.processEvents()
	}

	return nm
}

func (nm *NotificationManager) Subscribe(observer common.Observer) {
	nm.mu.Lock()
	defer nm.mu.Unlock()
	nm.observers[observer.Name()] = observer
	nm.logger.Debug("observer subscribed", "observer", observer.Name())
}

func (nm *NotificationManager) Unsubscribe(observer common.Observer) {
	nm.mu.Lock()
	defer nm.mu.Unlock()
	delete(nm.observers, observer.Name())
	nm.logger.Debug("observer unsubscribed", "observer", observer.Name())
}

// Dispatch delivers event to every observer and joins their failures.
func (nm *NotificationManager) Dispatch(event common.NotificationEvent) error {
	nm.mu.RLock()
	observers := make([]common.Observer, 0, len(nm.observers))
	for _, obs := range nm.observers {
		observers = append(observers, obs)
	}
	nm.mu.RUnlock()

	if len(observers) == 0 {
		return fmt.Errorf("no observers for %s", event.Type)
	}

	var errs []error
	for _, observer := range observers {
		if err := observer.Update(event); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", observer.Name(), err))
		}
	}
	return errors.Join(errs...)
}

// Submit queues event for the worker pool, waiting while the queue is full.
// done, when not nil, is called by the worker with the result of Dispatch.
func (nm *NotificationManager) Submit(ctx context.Context, event common.NotificationEvent, done func(error)) error {
	select {
	case <-nm.ctx.Done():
		return ErrManagerClosed
	default:
	}

	select {
	case nm.eventChannel <- delivery{event: event, done: done}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-nm.ctx.Done():
		return ErrManagerClosed
	}
}

// Done is closed once Shutdown has been called.
func (nm *NotificationManager) Done() <-chan struct{} {
	return nm.ctx.Done()
}

func (nm *NotificationManager) processEvents() {
	defer nm.wg.Done()

	for {
		select {
		case d := <-nm.eventChannel:
			err := nm.Dispatch(d.event)
			if err != nil {
				nm.logger.Warn("observer update failed", "handle", d.event.Handle, "user_id", d.event.UserID, "error", err)
			}
			if d.done != nil {
				d.done(err)
			}
		case <-nm.ctx.Done():
			return
		}
	}
}

// Shutdown stops the workers. Queued events that were not picked up are
// discarded. Safe to call more than once.
func (nm *NotificationManager) Shutdown() {
	nm.shutdown.Do(func() {
		nm.cancel()
		nm.wg.Wait()
		nm.logger.Info("notification manager shutdown complete")
	})
}
