package eventlogger

import (
	"context"
	"sync"

	log "github.com/sirupsen/logrus"
)

// Worker persists events on a single goroutine so request handlers never
// wait on the event store.
type Worker struct {
	eventCh chan Event
	logger  EventLogger
	wg      sync.WaitGroup
	ctx     context.Context
	cancel  context.CancelFunc

	mu     sync.RWMutex
	closed bool
}

func NewWorker(logger EventLogger, bufferSize int) *Worker {
	ctx, cancel := context.WithCancel(context.Background())
	return &Worker{
		eventCh: make(chan Event, bufferSize),
		logger:  logger,
		ctx:     ctx,
		cancel:  cancel,
	}
}

func (w *Worker) save(event Event) {
	if err := w.logger.Save(w.ctx, event); err != nil {
		log.WithError(err).WithField("event_type", event.Type).Error("failed to save event")
	}
}

// Start saves events until Shutdown closes the channel and the buffer is empty.
func (w *Worker) Start() {
	w.wg.Go(func() {
		for event := range w.eventCh {
			w.save(event)
		}
	})
}

// Log queues an event. It drops the event when the buffer is full or the
// worker has been shut down.
func (w *Worker) Log(event Event) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if w.closed {
		log.WithField("event_type", event.Type).Warn("event worker stopped, dropping event")
		return
	}
	select {
	case w.eventCh <- event:
	default:
		log.WithField("event_type", event.Type).Warn("event channel full, dropping event")
	}
}

// Shutdown stops accepting events and returns once everything queued before
// it is saved. Later calls are no-ops.
func (w *Worker) Shutdown() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.closed = true
	close(w.eventCh)
	w.mu.Unlock()

	log.WithField("remaining_events", len(w.eventCh)).Info("draining events before shutdown")
	w.wg.Wait()
	w.cancel()
}
