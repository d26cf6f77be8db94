package emitter

import (
	"context"
	"sync"
	"time"

	"account-service/internal/domains/account/model"
	"account-service/internal/infrastructure/broker"
	"account-service/pkg/logger"
)

// publishTimeout bounds each broker send inside the worker. A timed-out
// send is logged and dropped, never retried.
const publishTimeout = 5 * time.Second

// Emitter turns committed state transitions into account events and hands
// them to the broker, fire-and-forget. Emit never blocks the caller: events
// go onto a bounded queue drained by a single worker goroutine, and a full
// queue drops the event with a warning. Publish failures are logged and
// never reported back; they must not unwind the already-committed mutation.
type Emitter struct {
	publisher broker.Publisher
	queue     chan *model.AccountEvent
	wg        sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

// New creates an Emitter and starts its worker.
func New(publisher broker.Publisher, queueSize int) *Emitter {
	e := &Emitter{
		publisher: publisher,
		queue:     make(chan *model.AccountEvent, queueSize),
	}
	e.wg.Add(1)
	go e.run()
	return e
}

func (e *Emitter) EmitCreated(accountID, name, description string) {
	e.enqueue(model.NewCreatedEvent(accountID, name, description))
}

func (e *Emitter) EmitUpdated(accountID, name, description string) {
	e.enqueue(model.NewUpdatedEvent(accountID, name, description))
}

func (e *Emitter) EmitInactivated(accountID, reason string) {
	e.enqueue(model.NewInactivatedEvent(accountID, reason))
}

func (e *Emitter) EmitReactivated(accountID, reason string) {
	e.enqueue(model.NewReactivatedEvent(accountID, reason))
}

func (e *Emitter) enqueue(ev *model.AccountEvent) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		logger.Warn("account event dropped: emitter closed", map[string]interface{}{
			"account_id": ev.AccountID, "type": ev.Type,
		})
		return
	}

	select {
	case e.queue <- ev:
	default:
		logger.Warn("account event dropped: queue full", map[string]interface{}{
			"account_id": ev.AccountID, "type": ev.Type,
		})
	}
}

// run drains the queue. Each send gets its own timeout context, detached
// from any caller's request so cancellation upstream cannot abort a send.
func (e *Emitter) run() {
	defer e.wg.Done()
	for ev := range e.queue {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		err := e.publisher.Publish(ctx, ev.OrderingKey(), ev)
		cancel()

		if err != nil {
			logger.Error("failed to publish account event", err)
			continue
		}
		logger.Info("account event published", map[string]interface{}{
			"account_id": ev.AccountID,
			"type":       ev.Type,
			"event_id":   ev.EventID,
		})
	}
}

// Close stops accepting events, drains the queue and closes the publisher.
func (e *Emitter) Close() error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil
	}
	e.closed = true
	close(e.queue)
	e.mu.Unlock()

	e.wg.Wait()
	return e.publisher.Close()
}
