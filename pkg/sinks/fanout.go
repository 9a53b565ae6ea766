package sinks

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/samvad-hq/catalog-sdk/internal/logger"
	"github.com/samvad-hq/catalog-sdk/pkg/httpclient"
)

// defaultQueueSize bounds the events waiting for delivery.
const defaultQueueSize = 256

type queuedEvent struct {
	ctx   context.Context
	evt   httpclient.Event
	flush chan struct{}
}

// Fanout dispatches events to all configured sinks. It implements
// httpclient.Observer by queueing events for a background worker, so slow
// sinks never hold up a catalog call. Delivery failures are logged and never
// reach the caller. Close drains the queue.
type Fanout struct {
	sinks []Sink
	log   logger.Logger

	mu      sync.RWMutex
	closed  bool
	queue   chan queuedEvent
	stopped chan struct{}
}

// NewFanout builds a dispatcher that fans out events across sinks.
func NewFanout(sinks []Sink, log logger.Logger) *Fanout {
	cp := make([]Sink, 0, len(sinks))
	for _, s := range sinks {
		if s == nil {
			continue
		}
		cp = append(cp, s)
	}
	f := &Fanout{
		sinks:   cp,
		log:     ensureLogger(log),
		queue:   make(chan queuedEvent, defaultQueueSize),
		stopped: make(chan struct{}),
	}
	go f.run()
	return f
}

// Publish forwards the event to every registered sink synchronously.
// It returns the number of sinks that successfully handled the event.
func (f *Fanout) Publish(ctx context.Context, evt httpclient.Event) (int, error) {
	if f == nil || len(f.sinks) == 0 {
		return 0, nil
	}

	var errs []error
	successful := 0
	for _, s := range f.sinks {
		if err := s.Publish(ctx, evt); err != nil {
			errs = append(errs, fmt.Errorf("%s sink[%s]: %w", s.Type(), s.ID(), err))
		} else {
			successful++
		}
	}
	return successful, errors.Join(errs...)
}

// Observe implements httpclient.Observer. It only enqueues; when the queue is
// full the event is dropped with a warning.
func (f *Fanout) Observe(ctx context.Context, evt httpclient.Event) {
	if f == nil || len(f.sinks) == 0 {
		return
	}

	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.closed {
		return
	}
	select {
	case f.queue <- queuedEvent{ctx: context.WithoutCancel(ctx), evt: evt}:
	default:
		f.log.WarnObj("event queue full, dropping event", "sink_queue", map[string]any{
			"event_kind": evt.Kind,
			"request_id": evt.RequestID,
		})
	}
}

// Flush blocks until every event queued before the call has been delivered,
// or ctx is done.
func (f *Fanout) Flush(ctx context.Context) error {
	if f == nil {
		return nil
	}

	done := make(chan struct{})
	f.mu.RLock()
	if f.closed {
		f.mu.RUnlock()
		return nil
	}
	select {
	case f.queue <- queuedEvent{flush: done}:
	case <-ctx.Done():
		f.mu.RUnlock()
		return ctx.Err()
	}
	f.mu.RUnlock()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (f *Fanout) run() {
	defer close(f.stopped)
	for q := range f.queue {
		if q.flush != nil {
			close(q.flush)
			continue
		}
		f.deliver(q.ctx, q.evt)
	}
}

func (f *Fanout) deliver(ctx context.Context, evt httpclient.Event) {
	if _, err := f.Publish(ctx, evt); err != nil {
		f.log.WarnObj("event delivery failed", "sink_error", map[string]any{
			"event_kind": evt.Kind,
			"request_id": evt.RequestID,
			"error":      err.Error(),
		})
	}
}

// Size returns the number of active sinks.
func (f *Fanout) Size() int {
	if f == nil {
		return 0
	}
	return len(f.sinks)
}

// Close stops accepting events, delivers what is queued, then releases sinks
// that hold resources (clients, files). Later calls are no-ops.
func (f *Fanout) Close() error {
	if f == nil {
		return nil
	}

	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return nil
	}
	f.closed = true
	close(f.queue)
	f.mu.Unlock()

	<-f.stopped
	return closeAll(f.sinks)
}

func closeAll(sinks []Sink) error {
	var errs []error
	for _, s := range sinks {
		if err := closeSink(s); err != nil {
			errs = append(errs, fmt.Errorf("close %s sink[%s]: %w", s.Type(), s.ID(), err))
		}
	}
	return errors.Join(errs...)
}

func closeSink(s Sink) error {
	if c, ok := s.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
