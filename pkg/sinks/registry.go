package sinks

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/samvad-hq/catalog-sdk/internal/logger"
	"github.com/samvad-hq/catalog-sdk/pkg/httpclient"
)

// Deps carries the shared collaborators sink builders may need.
type Deps struct {
	Log     logger.Logger
	Journal JournalWriter
}

// Builder creates a Sink from a config entry.
type Builder func(ctx context.Context, cfg SinkConfig, deps Deps) (Sink, error)

// Registry maps sink types to builders.
type Registry interface {
	Register(typ string, builder Builder)
	SinkFor(ctx context.Context, cfg SinkConfig, deps Deps) (Sink, error)
}

type registry struct {
	mu       sync.RWMutex
	builders map[string]Builder
}

// NewRegistry returns a registry with optional pre-registered builders.
func NewRegistry(builders map[string]Builder) Registry {
	r := &registry{
		builders: make(map[string]Builder),
	}
	for typ, b := range builders {
		r.Register(typ, b)
	}
	return r
}

// Register associates a builder with a sink type.
func (r *registry) Register(typ string, builder Builder) {
	if typ = strings.TrimSpace(strings.ToLower(typ)); typ == "" || builder == nil {
		return
	}

	r.mu.Lock()
	r.builders[typ] = builder
	r.mu.Unlock()
}

// SinkFor returns the sink built for the provided config.
func (r *registry) SinkFor(ctx context.Context, cfg SinkConfig, deps Deps) (Sink, error) {
	if cfg.Type == "" {
		return nil, fmt.Errorf("sink %q has no type configured", cfg.ID)
	}

	r.mu.RLock()
	builder := r.builders[strings.ToLower(cfg.Type)]
	r.mu.RUnlock()

	if builder == nil {
		return nil, fmt.Errorf("no sink registered for type %q", cfg.Type)
	}
	sink, err := builder(ctx, cfg, deps)
	if err != nil {
		return nil, err
	}
	if len(cfg.Events) > 0 {
		sink = newFilteredSink(sink, cfg.Events)
	}
	return sink, nil
}

// DefaultRegistry wires up known sinks.
func DefaultRegistry() Registry {
	builders := map[string]Builder{
		TypeLog:     newLogSink,
		TypeJournal: newJournalSink,
		TypeHTTP:    newHTTPSink,
		TypeSQS:     newSQSSink,
		TypeSNS:     newSNSSink,
		TypePubSub:  newPubSubSink,
	}
	return NewRegistry(builders)
}

// BuildAll instantiates sinks for configs using the registry.
func BuildAll(ctx context.Context, reg Registry, cfgs []SinkConfig, deps Deps) ([]Sink, error) {
	if reg == nil || len(cfgs) == 0 {
		return nil, nil
	}

	var out []Sink
	for _, cfg := range cfgs {
		sink, err := reg.SinkFor(ctx, cfg, deps)
		if err != nil {
			closeAll(out)
			return nil, err
		}
		out = append(out, sink)
	}
	return out, nil
}

// filteredSink only forwards the configured event kinds.
type filteredSink struct {
	Sink
	kinds map[httpclient.EventKind]struct{}
}

func newFilteredSink(s Sink, events []string) Sink {
	kinds := make(map[httpclient.EventKind]struct{}, len(events))
	for _, e := range events {
		kinds[httpclient.EventKind(e)] = struct{}{}
	}
	return &filteredSink{Sink: s, kinds: kinds}
}

func (f *filteredSink) Publish(ctx context.Context, evt httpclient.Event) error {
	if _, ok := f.kinds[evt.Kind]; !ok {
		return nil
	}
	return f.Sink.Publish(ctx, evt)
}

func (f *filteredSink) Close() error { return closeSink(f.Sink) }
