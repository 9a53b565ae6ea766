package sinks

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/samvad-hq/catalog-sdk/internal/logger"
	"github.com/samvad-hq/catalog-sdk/pkg/httpclient"
)

type stubSink struct {
	id     string
	typ    string
	err    error
	calls  int
	closed bool
	events []httpclient.Event
}

func (s *stubSink) ID() string   { return s.id }
func (s *stubSink) Type() string { return s.typ }
func (s *stubSink) Publish(_ context.Context, evt httpclient.Event) error {
	s.calls++
	s.events = append(s.events, evt)
	return s.err
}
func (s *stubSink) Close() error {
	s.closed = true
	return nil
}

type recordingLogger struct {
	logger.NopLogger
	warnings int
	errs     int
}

func (r *recordingLogger) WarnObj(string, string, interface{})  { r.warnings++ }
func (r *recordingLogger) ErrorObj(string, string, interface{}) { r.errs++ }

// slowSink blocks every delivery for delay.
type slowSink struct {
	stubSink
	delay time.Duration
}

func (s *slowSink) Publish(ctx context.Context, evt httpclient.Event) error {
	time.Sleep(s.delay)
	return s.stubSink.Publish(ctx, evt)
}

func TestFanoutPublishAggregatesErrors(t *testing.T) {
	fanout := NewFanout([]Sink{
		&stubSink{id: "ok", typ: TypeLog},
		&stubSink{id: "bad", typ: TypeHTTP, err: errors.New("failed")},
		nil,
	}, nil)

	count, err := fanout.Publish(context.Background(), httpclient.Event{})
	if count != 1 {
		t.Fatalf("expected 1 success, got %d", count)
	}
	if err == nil {
		t.Fatalf("expected aggregated error")
	}
	if fanout.Size() != 2 {
		t.Fatalf("nil sinks should be dropped, size=%d", fanout.Size())
	}
}

func TestFanoutObserveSwallowsErrors(t *testing.T) {
	log := &recordingLogger{}
	bad := &stubSink{id: "bad", typ: TypeHTTP, err: errors.New("failed")}
	fanout := NewFanout([]Sink{bad}, log)

	fanout.Observe(context.Background(), httpclient.Event{Kind: httpclient.EventError})
	if err := fanout.Flush(context.Background()); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if bad.calls != 1 {
		t.Fatalf("sink not called")
	}
	if log.warnings != 1 {
		t.Fatalf("expected delivery failure to be logged once, got %d", log.warnings)
	}
}

func TestFanoutObserveDeliversAfterCancel(t *testing.T) {
	sink := &stubSink{id: "ok", typ: TypeLog}
	fanout := NewFanout([]Sink{sink}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	fanout.Observe(ctx, httpclient.Event{Kind: httpclient.EventError})
	if err := fanout.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if sink.calls != 1 {
		t.Fatalf("error event dropped for a cancelled call")
	}
}

func TestFilteredSinkForwardsConfiguredKinds(t *testing.T) {
	inner := &stubSink{id: "errors-only", typ: TypeLog}
	reg := NewRegistry(map[string]Builder{
		TypeLog: func(context.Context, SinkConfig, Deps) (Sink, error) { return inner, nil },
	})

	sink, err := reg.SinkFor(context.Background(), SinkConfig{ID: "errors-only", Type: TypeLog, Events: []string{"error"}}, Deps{})
	if err != nil {
		t.Fatalf("SinkFor: %v", err)
	}
	for _, kind := range []httpclient.EventKind{httpclient.EventRequest, httpclient.EventResponse, httpclient.EventError} {
		if err := sink.Publish(context.Background(), httpclient.Event{Kind: kind}); err != nil {
			t.Fatalf("Publish: %v", err)
		}
	}
	if inner.calls != 1 || inner.events[0].Kind != httpclient.EventError {
		t.Fatalf("unexpected forwarded events %#v", inner.events)
	}

	if err := NewFanout([]Sink{sink}, nil).Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !inner.closed {
		t.Fatalf("close not forwarded through filter")
	}
}

func TestBuildAllWithDefaultRegistry(t *testing.T) {
	pubs, err := BuildAll(context.Background(), DefaultRegistry(), []SinkConfig{
		{ID: "console", Type: TypeLog},
		{ID: "hook", Type: TypeHTTP, HTTP: &HTTPSinkConfig{URL: "https://example.com", Method: "POST", TimeoutSeconds: 1}},
	}, Deps{})
	if err != nil {
		t.Fatalf("BuildAll: %v", err)
	}
	if len(pubs) != 2 {
		t.Fatalf("expected 2 sinks, got %d", len(pubs))
	}
}

func TestBuildAllJournalNeedsStore(t *testing.T) {
	_, err := BuildAll(context.Background(), DefaultRegistry(), []SinkConfig{{ID: "j", Type: TypeJournal}}, Deps{})
	if err == nil {
		t.Fatalf("expected error when no journal store is wired")
	}
}

func TestFanoutKeepsSlowSinksOffTheCallPath(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"success":true}`))
	}))
	defer srv.Close()

	sink := &slowSink{stubSink: stubSink{id: "hook", typ: TypeHTTP}, delay: 300 * time.Millisecond}
	fanout := NewFanout([]Sink{sink}, nil)
	exec := httpclient.NewExecutor(httpclient.WithObserver(fanout))

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	res, err := exec.Execute(ctx, httpclient.RequestSpec{Method: httpclient.MethodDelete, URL: srv.URL + "/products/4"})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !res.Success {
		t.Fatalf("slow sink changed the result: %s %s", res.Kind, res.Message)
	}
	if res.DurationMs >= sink.delay.Milliseconds() {
		t.Fatalf("duration %dms includes sink time", res.DurationMs)
	}

	flushCtx, flushCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer flushCancel()
	if err := fanout.Flush(flushCtx); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if sink.calls != 2 {
		t.Fatalf("expected request and response events, got %d", sink.calls)
	}
	if sink.events[0].Kind != httpclient.EventRequest || sink.events[1].Kind != httpclient.EventResponse {
		t.Fatalf("unexpected order %s, %s", sink.events[0].Kind, sink.events[1].Kind)
	}
	if err := fanout.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestFanoutDropsEventsAfterClose(t *testing.T) {
	sink := &stubSink{id: "ok", typ: TypeLog}
	fanout := NewFanout([]Sink{sink}, nil)
	if err := fanout.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	fanout.Observe(context.Background(), httpclient.Event{Kind: httpclient.EventRequest})
	if err := fanout.Flush(context.Background()); err != nil {
		t.Fatalf("Flush after close: %v", err)
	}
	if err := fanout.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
	if sink.calls != 0 {
		t.Fatalf("event delivered after close")
	}
}
