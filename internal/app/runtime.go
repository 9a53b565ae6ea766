package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/samvad-hq/catalog-sdk/internal/config"
	"github.com/samvad-hq/catalog-sdk/internal/logger"
	"github.com/samvad-hq/catalog-sdk/internal/storage"
	"github.com/samvad-hq/catalog-sdk/pkg/catalog"
	"github.com/samvad-hq/catalog-sdk/pkg/pageimage"
	"github.com/samvad-hq/catalog-sdk/pkg/sinks"
)

// Runtime wires configuration, logging, the event journal and sinks around a
// catalog client. It owns the resources it opens; call Close when done.
type Runtime struct {
	cfg     *config.Config
	log     logger.Logger
	journal storage.Journal
	fanout  *sinks.Fanout
}

// NewRuntime opens the journal and builds the configured sinks.
func NewRuntime(ctx context.Context, cfg *config.Config, log logger.Logger) (*Runtime, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	if ctx == nil {
		ctx = context.Background()
	}

	journal, err := storage.NewJournal(cfg.JournalPath, storage.Options{
		EventTTL:        cfg.JournalTTL,
		CleanupInterval: cfg.JournalCleanupInterval,
	})
	if err != nil {
		return nil, fmt.Errorf("init journal: %w", err)
	}

	sinkCfgs, err := sinkConfigs(cfg)
	if err != nil {
		journal.Close()
		return nil, err
	}

	built, err := sinks.BuildAll(ctx, sinks.DefaultRegistry(), sinkCfgs, sinks.Deps{Log: log, Journal: journal})
	if err != nil {
		journal.Close()
		return nil, fmt.Errorf("build sinks: %w", err)
	}
	fanout := sinks.NewFanout(built, log)

	summaries := make([]map[string]string, 0, len(sinkCfgs))
	for _, c := range sinkCfgs {
		summaries = append(summaries, map[string]string{"id": c.ID, "type": c.Type})
	}
	log.DebugObj("event sinks ready", "sinks_meta", map[string]any{
		"count": fanout.Size(),
		"sinks": summaries,
	})

	return &Runtime{cfg: cfg, log: log, journal: journal, fanout: fanout}, nil
}

// sinkConfigs loads the sinks file, or falls back to logging plus the journal
// when one is configured.
func sinkConfigs(cfg *config.Config) ([]sinks.SinkConfig, error) {
	if cfg.SinksFile != "" {
		reg, err := sinks.LoadRegistry(cfg.SinksFile)
		if err != nil {
			return nil, fmt.Errorf("load sinks registry: %w", err)
		}
		return reg.Enabled(), nil
	}

	defaults := []sinks.SinkConfig{{ID: "console", Type: sinks.TypeLog}}
	if cfg.JournalPath != "" {
		defaults = append(defaults, sinks.SinkConfig{ID: "journal", Type: sinks.TypeJournal})
	}
	reg, err := sinks.NewConfigRegistry(defaults)
	if err != nil {
		return nil, err
	}
	return reg.Enabled(), nil
}

// Client builds a catalog client whose events flow to the configured sinks.
func (r *Runtime) Client() (*catalog.Client, error) {
	return catalog.New(catalog.Config{
		APIKey:  r.cfg.APIKey,
		BaseURL: r.cfg.BaseURL,
	}, catalog.WithObserver(r.fanout))
}

// Config returns the configuration the runtime was built from.
func (r *Runtime) Config() config.Config { return *r.cfg }

// Journal exposes the local event journal.
func (r *Runtime) Journal() storage.Journal { return r.journal }

// ImageResolver returns a resolver for product page images.
func (r *Runtime) ImageResolver() *pageimage.Resolver { return pageimage.NewResolver(nil) }

// Flush waits until events of finished calls have reached every sink.
func (r *Runtime) Flush(ctx context.Context) error { return r.fanout.Flush(ctx) }

// Close releases sinks and the journal, logging and returning any failures.
func (r *Runtime) Close() error {
	if r == nil {
		return nil
	}
	var errs []error
	if err := r.fanout.Close(); err != nil {
		errs = append(errs, err)
	}
	if r.journal != nil {
		if err := r.journal.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close journal: %w", err))
		}
	}
	err := errors.Join(errs...)
	if err != nil {
		r.log.ErrorObj("runtime close failed", "error", err.Error())
	}
	return err
}
