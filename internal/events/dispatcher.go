package events

import (
	"context"
	"log/slog"
	"sync"
)

// Sink consumes domain events. Notification gateways and the audit sink both
// implement it; a failing sink is logged and skipped, never retried.
type Sink interface {
	Name() string
	Deliver(ctx context.Context, event Event) error
}

// Publisher is the narrow contract the workflow services publish through.
type Publisher interface {
	Publish(event Event)
}

// Dispatcher fans events out to the configured sinks from a single listener
// goroutine. Publish never blocks the caller: if the buffer is full the
// event is dropped with a warning, so a slow sink cannot stall a transition.
type Dispatcher struct {
	ch     chan Event
	sinks  []Sink
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewDispatcher creates a dispatcher with the given buffer size and sinks.
func NewDispatcher(bufferSize int, sinks ...Sink) *Dispatcher {
	ctx, cancel := context.WithCancel(context.Background())
	return &Dispatcher{
		ch:     make(chan Event, bufferSize),
		sinks:  sinks,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Start launches the listener goroutine.
func (d *Dispatcher) Start() {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		for {
			select {
			case <-d.ctx.Done():
				slog.Info("event dispatcher stopped")
				return
			case event := <-d.ch:
				d.deliver(event)
			}
		}
	}()
}

// Stop cancels the listener and waits for it to exit. Buffered events that
// have not been picked up yet are discarded.
func (d *Dispatcher) Stop() {
	d.cancel()
	d.wg.Wait()
}

// Publish enqueues an event for asynchronous delivery.
func (d *Dispatcher) Publish(event Event) {
	select {
	case d.ch <- event:
	default:
		slog.Warn("event buffer full, dropping event",
			"type", event.Type,
			"workflowID", event.WorkflowID,
		)
	}
}

func (d *Dispatcher) deliver(event Event) {
	for _, sink := range d.sinks {
		if err := sink.Deliver(d.ctx, event); err != nil {
			slog.Error("event delivery failed",
				"sink", sink.Name(),
				"type", event.Type,
				"workflowID", event.WorkflowID,
				"error", err,
			)
		}
	}
}
