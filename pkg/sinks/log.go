package sinks

import (
	"context"

	"github.com/samvad-hq/catalog-sdk/internal/logger"
	"github.com/samvad-hq/catalog-sdk/pkg/httpclient"
)

// logSink writes events through the structured logger.
type logSink struct {
	id  string
	log logger.Logger
}

func newLogSink(_ context.Context, cfg SinkConfig, deps Deps) (Sink, error) {
	return &logSink{id: cfg.ID, log: ensureLogger(deps.Log)}, nil
}

func (l *logSink) ID() string   { return l.id }
func (l *logSink) Type() string { return TypeLog }

func (l *logSink) Publish(_ context.Context, evt httpclient.Event) error {
	switch evt.Kind {
	case httpclient.EventRequest:
		l.log.InfoObj("catalog api request", "catalog_request", evt)
	case httpclient.EventResponse:
		l.log.InfoObj("catalog api response", "catalog_response", evt)
	default:
		l.log.WarnObj("catalog api error", "catalog_error", evt)
	}
	return nil
}

func ensureLogger(log logger.Logger) logger.Logger {
	if log == nil {
		return logger.NopLogger{}
	}
	return log
}
