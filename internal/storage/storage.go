// Package storage keeps a local, expiring journal of catalog call events.
package storage

import (
	"strings"
	"time"

	"github.com/samvad-hq/catalog-sdk/pkg/httpclient"
)

// Journal persists events and lists the most recent ones.
type Journal interface {
	Close() error
	Append(evt httpclient.Event) error
	Recent(limit int) ([]httpclient.Event, error)
}

// Options controls retention characteristics for concrete journal implementations.
type Options struct {
	EventTTL        time.Duration
	CleanupInterval time.Duration
}

const (
	defaultEventTTL        = 7 * 24 * time.Hour
	defaultCleanupInterval = 6 * time.Hour
)

// NewJournal opens a bbolt journal at path. An empty path disables journaling.
func NewJournal(path string, opts Options) (Journal, error) {
	opts = normalizeOptions(opts)
	if strings.TrimSpace(path) == "" {
		return noopJournal{}, nil
	}
	store, err := openBolt(path, opts)
	if err != nil {
		return nil, err
	}
	return store, nil
}

func normalizeOptions(opts Options) Options {
	if opts.EventTTL <= 0 {
		opts.EventTTL = defaultEventTTL
	}
	if opts.CleanupInterval <= 0 {
		opts.CleanupInterval = defaultCleanupInterval
	}
	return opts
}

type noopJournal struct{}

func (noopJournal) Close() error                           { return nil }
func (noopJournal) Append(httpclient.Event) error          { return nil }
func (noopJournal) Recent(int) ([]httpclient.Event, error) { return nil, nil }
