package sinks

import (
	"context"

	"github.com/samvad-hq/catalog-sdk/pkg/httpclient"
)

// Sink delivers catalog call events to a destination (log, journal, queue, webhook).
type Sink interface {
	ID() string
	Type() string
	Publish(ctx context.Context, evt httpclient.Event) error
}

// JournalWriter persists events locally.
type JournalWriter interface {
	Append(evt httpclient.Event) error
}
