package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"sync"
	"syscall"

	"github.com/akolanti/ContentAPI/internal/adapter"
	"github.com/akolanti/ContentAPI/internal/app"
	"github.com/akolanti/ContentAPI/internal/config"
	"github.com/akolanti/ContentAPI/internal/handlers"
	"github.com/akolanti/ContentAPI/internal/ingest"
	"github.com/akolanti/ContentAPI/internal/server"
	"github.com/akolanti/ContentAPI/internal/worker"
	"github.com/akolanti/ContentAPI/pkg/logger_i"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	extractMode         string
	extractPage         int
	extractOrientations []int
	spaceVertically     bool
	scaleWeight         float64
	stripRotated        bool
	fullRecord          bool
	listenAddr          string
)

var ingestCmd = &cobra.Command{
	Use:   "ingest <file.pdf>...",
	Short: "Store and process PDF files like POST /upload-pdf",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runIngest,
}

var extractCmd = &cobra.Command{
	Use:   "extract <file.pdf>",
	Short: "Print the text of one page or every page without storing anything",
	Args:  cobra.ExactArgs(1),
	RunE:  runExtract,
}

var showCmd = &cobra.Command{
	Use:   "show <content-id>",
	Short: "Print the summary (or, with --full, the record) of stored content",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

var pageCmd = &cobra.Command{
	Use:   "page <content-id> <page-number>",
	Short: "Print one stored page",
	Args:  cobra.ExactArgs(2),
	RunE:  runPage,
}

var deleteCmd = &cobra.Command{
	Use:   "delete <content-id>",
	Short: "Remove every artifact of a content id",
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API with its worker pool",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	defaults := ingest.DefaultLayoutOptions()
	extractCmd.Flags().StringVarP(&extractMode, "mode", "m", string(ingest.ModeLayout), "extraction mode: plain or layout")
	extractCmd.Flags().IntVarP(&extractPage, "page", "p", 0, "1-based page to extract, 0 for all pages")
	extractCmd.Flags().IntSliceVar(&extractOrientations, "orientation", nil, "plain mode: keep only text in these directions (0,90,180,270)")
	extractCmd.Flags().BoolVar(&spaceVertically, "space-vertically", defaults.SpaceVertically, "layout mode: keep vertical gaps as blank lines")
	extractCmd.Flags().Float64Var(&scaleWeight, "scale-weight", defaults.ScaleWeight, "layout mode: horizontal scale factor")
	extractCmd.Flags().BoolVar(&stripRotated, "strip-rotated", defaults.StripRotated, "layout mode: drop rotated text")

	showCmd.Flags().BoolVar(&fullRecord, "full", false, "print the full record")
	serveCmd.Flags().StringVar(&listenAddr, "listen-addr", "", "server listen address, overrides LISTEN_ADDR")

	rootCmd.AddCommand(ingestCmd, extractCmd, showCmd, pageCmd, deleteCmd, serveCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	c, err := build(ctx)
	if err != nil {
		return err
	}
	for _, path := range args {
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		res, err := c.Content.UploadPDF(ctx, filepath.Base(path), data)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		if res.Failure != nil {
			if err := printJSON(cmd.OutOrStdout(), adapter.ToDegradedUpload(res)); err != nil {
				return err
			}
			continue
		}
		if err := printJSON(cmd.OutOrStdout(), adapter.ToUploadSummary(res)); err != nil {
			return err
		}
	}
	return nil
}

func extractOptions() (ingest.Options, error) {
	switch ingest.Mode(extractMode) {
	case ingest.ModePlain:
		return ingest.Options{Mode: ingest.ModePlain, Orientations: extractOrientations}, nil
	case ingest.ModeLayout:
		return ingest.Options{Mode: ingest.ModeLayout, Layout: ingest.LayoutOptions{
			SpaceVertically: spaceVertically,
			ScaleWeight:     scaleWeight,
			StripRotated:    stripRotated,
		}}, nil
	}
	return ingest.Options{}, fmt.Errorf("unknown mode %q", extractMode)
}

func runExtract(cmd *cobra.Command, args []string) error {
	opts, err := extractOptions()
	if err != nil {
		return err
	}
	raw, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	doc, err := ingest.OpenDocument(raw, args[0])
	if err != nil {
		return err
	}

	extractor := ingest.NewPageExtractor(nopLogger())
	out := cmd.OutOrStdout()
	if extractPage > 0 {
		page, err := extractor.Extract(cmd.Context(), doc, extractPage-1, opts)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, page.Text)
		return err
	}

	pages := ingest.Pages(ingest.NewWalker(extractor, config.PageWorkers, nopLogger()).Walk(cmd.Context(), doc, opts))
	for _, p := range pages {
		if _, err := fmt.Fprintf(out, "--- page %d (%d characters)\n%s\n", p.PageNumber, p.TextLength, p.Text); err != nil {
			return err
		}
	}
	return nil
}

func runShow(cmd *cobra.Command, args []string) error {
	c, err := build(cmd.Context())
	if err != nil {
		return err
	}
	rec, err := c.Content.Record(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	if fullRecord {
		return printJSON(cmd.OutOrStdout(), rec)
	}
	return printJSON(cmd.OutOrStdout(), adapter.ToContentSummary(rec))
}

func runPage(cmd *cobra.Command, args []string) error {
	n, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid page number %q", args[1])
	}
	c, err := build(cmd.Context())
	if err != nil {
		return err
	}
	page, err := c.Content.Page(cmd.Context(), args[0], n)
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), page)
}

func runDelete(cmd *cobra.Command, args []string) error {
	c, err := build(cmd.Context())
	if err != nil {
		return err
	}
	removed, err := c.Content.Delete(cmd.Context(), args[0])
	for _, item := range removed {
		fmt.Fprintln(cmd.OutOrStdout(), item)
	}
	return err
}

// runServe mirrors cmd/api: the server and the worker pool run until a
// signal arrives, then both are drained.
func runServe(cmd *cobra.Command, args []string) error {
	if listenAddr != "" {
		settings.ListenAddr = listenAddr
	}
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	c, err := app.Build(ctx, settings, app.Options{WithJobs: true})
	if err != nil {
		return err
	}
	handlers.InitContentHandler(c.Content)

	var workers sync.WaitGroup
	stopWorkers := make(chan bool)
	worker.InitServices(c.JobService)
	worker.InitWorkerPool(stopWorkers, &workers)

	srv := server.NewHTTPServer(server.Params{
		ListenAddr:     settings.ListenAddr,
		UploadDir:      settings.UploadDir,
		ImageDir:       settings.ImageDir,
		AllowedOrigins: settings.AllowedOrigins,
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.ListenAndServe(srv)
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), config.ShutdownContextTimeout)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)
		close(stopWorkers)
		workers.Wait()
		return err
	})
	return g.Wait()
}

func nopLogger() *logger_i.Logger {
	if verbose {
		return logger_i.NewLogger("extract")
	}
	return logger_i.Discard()
}
