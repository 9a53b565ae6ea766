package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/samvad-hq/catalog-sdk/internal/app"
)

func journalCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "journal",
		Short: "Show recent call events from the local journal",
		Long: "Print the newest request, response and error events recorded in the\n" +
			"bbolt journal. Requires --journal-path or JOURNAL_PATH.",
		Example: `  catalogctl journal --journal-path ./data/journal.db --limit 10 -o table`,
		RunE: func(c *cobra.Command, _ []string) error {
			return withRuntime(func(_ context.Context, rt *app.Runtime) error {
				if rt.Config().JournalPath == "" {
					return errors.New("journal path is not configured")
				}
				events, err := recentEvents(rt.Journal(), limit)
				if err != nil {
					return err
				}
				if tableOutput() {
					if len(events) == 0 {
						fmt.Fprintln(c.OutOrStdout(), "No events recorded.")
						return nil
					}
					return printJournalTable(c.OutOrStdout(), events)
				}
				return outputJSON(c.OutOrStdout(), events)
			})
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "number of events to show")

	return cmd
}
