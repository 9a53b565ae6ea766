package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/samvad-hq/catalog-sdk/internal/storage"
	"github.com/samvad-hq/catalog-sdk/pkg/catalog"
	"github.com/samvad-hq/catalog-sdk/pkg/httpclient"
)

// tabWriter wraps tabwriter with error tracking.
type tabWriter struct {
	*tabwriter.Writer
	err error
}

func newTabWriter(w io.Writer) *tabWriter {
	return &tabWriter{Writer: tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)}
}

func (tw *tabWriter) writef(format string, args ...any) {
	if tw.err != nil {
		return
	}
	_, tw.err = fmt.Fprintf(tw.Writer, format, args...)
}

func (tw *tabWriter) finish() error {
	if tw.err != nil {
		return tw.err
	}
	return tw.Flush()
}

func tableOutput() bool {
	return outputFormat == "table"
}

func outputJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printResult writes the call result and turns a failed call into errCallFailed
// so the process exits non-zero.
func printResult(w io.Writer, res *httpclient.Result) error {
	if err := outputJSON(w, res); err != nil {
		return err
	}
	return resultErr(res)
}

func resultErr(res *httpclient.Result) error {
	if res == nil || res.Success {
		return nil
	}
	return fmt.Errorf("%w: %s (status %d)", errCallFailed, res.Kind, res.Status())
}

func printProductsTable(w io.Writer, page *catalog.ProductsPage) error {
	tw := newTabWriter(w)
	tw.writef("Showing %d of %d products\n\n", len(page.Products), page.Total)
	tw.writef("FRIENDLY ID\tSOURCE ID\tNAME\tTYPE\tACTIVE\tVARIANTS\n")
	for i := range page.Products {
		p := &page.Products[i]
		tw.writef("%d\t%s\t%s\t%s\t%v\t%d\n",
			p.FriendlyID,
			p.SourceProductID,
			truncate(p.Name, 48),
			p.ProductType,
			p.IsActive,
			len(p.Subproducts),
		)
	}
	return tw.finish()
}

func printJournalTable(w io.Writer, events []httpclient.Event) error {
	tw := newTabWriter(w)
	tw.writef("TIME\tREQUEST\tKIND\tMETHOD\tURL\tSTATUS\tDURATION\n")
	for i := range events {
		e := &events[i]
		status := "-"
		if e.StatusCode != nil {
			status = fmt.Sprintf("%d", *e.StatusCode)
		}
		tw.writef("%s\t%s\t%s\t%s\t%s\t%s\t%dms\n",
			e.Timestamp.Format("2006-01-02 15:04:05"),
			shortID(e.RequestID),
			e.Kind,
			e.Method,
			truncate(e.URL, 60),
			status,
			e.DurationMs,
		)
	}
	return tw.finish()
}

func recentEvents(j storage.Journal, limit int) ([]httpclient.Event, error) {
	events, err := j.Recent(limit)
	if err != nil {
		return nil, fmt.Errorf("read journal: %w", err)
	}
	return events, nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
