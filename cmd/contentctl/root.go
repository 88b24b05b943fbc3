package main

import (
	"context"
	"encoding/json"
	"io"
	"os"

	"github.com/akolanti/ContentAPI/internal/app"
	"github.com/akolanti/ContentAPI/internal/config"
	"github.com/akolanti/ContentAPI/pkg/logger_i"
	"github.com/spf13/cobra"
)

var (
	envFile string
	backend string
	verbose bool

	settings config.Settings
)

var rootCmd = &cobra.Command{
	Use:   "contentctl",
	Short: "Ingest and inspect learning content from the command line",
	Long: `contentctl runs the same ingestion pipeline as the API against the local
data directories: upload PDFs, extract single pages, inspect and delete stored
records, or start the HTTP server.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		settings = config.LoadSettings(envFile)
		if backend != "" {
			settings.RecordBackend = backend
		}
		if verbose {
			logger_i.InitTo(os.Stderr, settings.IsProd)
		} else {
			logger_i.InitTo(io.Discard, settings.IsProd)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "optional dotenv file")
	rootCmd.PersistentFlags().StringVar(&backend, "backend", "", "record backend: file, redis or memory (overrides RECORD_BACKEND)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log to stderr")
}

func build(ctx context.Context) (*app.Components, error) {
	return app.Build(ctx, settings, app.Options{})
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
