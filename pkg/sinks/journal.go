package sinks

import (
	"context"
	"fmt"

	"github.com/samvad-hq/catalog-sdk/pkg/httpclient"
)

// journalSink appends events to the local journal store.
type journalSink struct {
	id      string
	journal JournalWriter
}

func newJournalSink(_ context.Context, cfg SinkConfig, deps Deps) (Sink, error) {
	if deps.Journal == nil {
		return nil, fmt.Errorf("sink %q requires a journal store (set JOURNAL_PATH)", cfg.ID)
	}
	return &journalSink{id: cfg.ID, journal: deps.Journal}, nil
}

func (j *journalSink) ID() string   { return j.id }
func (j *journalSink) Type() string { return TypeJournal }

func (j *journalSink) Publish(_ context.Context, evt httpclient.Event) error {
	if err := j.journal.Append(evt); err != nil {
		return fmt.Errorf("append journal: %w", err)
	}
	return nil
}
