// Package cmd implements the catalogctl CLI commands.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/samvad-hq/catalog-sdk/internal/app"
	"github.com/samvad-hq/catalog-sdk/internal/config"
	"github.com/samvad-hq/catalog-sdk/internal/logger"
)

// errCallFailed marks a call that reached the API but came back with success=false.
var errCallFailed = errors.New("catalog call failed")

var (
	v            = viper.New()
	outputFormat string
	rootCmd      = &cobra.Command{
		Use:   "catalogctl",
		Short: "CLI client for the product catalog API",
		Long: "catalogctl uploads images and manages products in the product catalog\n" +
			"API. Every command prints the call result as JSON and exits non-zero\n" +
			"when the input is invalid or the call does not succeed.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

// Root returns the root cobra command for documentation generation.
func Root() *cobra.Command {
	return rootCmd
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errCallFailed) {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("api-key", "", "catalog API key (env CATALOG_API_KEY)")
	flags.String("base-url", "", "catalog API base URL (env CATALOG_BASE_URL)")
	flags.String("log-level", "", "log level: debug, info, warn, error (env LOG_LEVEL)")
	flags.String("sinks-file", "", "YAML/JSON file declaring event sinks (env SINKS_FILE)")
	flags.String("journal-path", "", "bbolt file for the local event journal (env JOURNAL_PATH)")
	flags.StringVarP(&outputFormat, "output", "o", "json", "output format: json or table")

	cobra.CheckErr(v.BindPFlag("catalog_api_key", flags.Lookup("api-key")))
	cobra.CheckErr(v.BindPFlag("catalog_base_url", flags.Lookup("base-url")))
	cobra.CheckErr(v.BindPFlag("log_level", flags.Lookup("log-level")))
	cobra.CheckErr(v.BindPFlag("sinks_file", flags.Lookup("sinks-file")))
	cobra.CheckErr(v.BindPFlag("journal_path", flags.Lookup("journal-path")))

	rootCmd.AddCommand(uploadImageCmd())
	rootCmd.AddCommand(addProductCmd())
	rootCmd.AddCommand(listProductsCmd())
	rootCmd.AddCommand(deleteProductCmd())
	rootCmd.AddCommand(journalCmd())
}

// withRuntime loads config, starts logging and runs fn against a ready runtime.
func withRuntime(fn func(ctx context.Context, rt *app.Runtime) error) error {
	cfg, err := config.LoadFrom(v)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.Init(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Close()

	log.DebugObj("catalogctl starting", "config", cfg.Redacted())

	ctx := context.Background()
	rt, err := app.NewRuntime(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer rt.Close()

	logger.InfoObj("catalogctl run", "target", map[string]any{
		"base_url": cfg.BaseURL,
		"journal":  cfg.JournalPath != "",
	})
	if err := fn(ctx, rt); err != nil {
		if !errors.Is(err, errCallFailed) {
			logger.ErrorObj("command failed", "error", err.Error())
		}
		return err
	}
	return nil
}
