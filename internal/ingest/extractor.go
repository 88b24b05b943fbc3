package ingest

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/akolanti/ContentAPI/internal/config"
	"github.com/akolanti/ContentAPI/internal/domain/contentModel"
	"github.com/akolanti/ContentAPI/pkg/logger_i"
)

type Mode string

const (
	ModePlain  Mode = "plain"
	ModeLayout Mode = "layout"
)

type Options struct {
	Mode Mode
	// Orientations filters plain mode to these text directions (0, 90, 180, 270).
	// Empty keeps all of them.
	Orientations []int
	Layout       LayoutOptions
	// ImageDir receives the page images. Empty skips image extraction.
	ImageDir string
	// Timeout bounds text extraction of a single page; zero uses the default.
	Timeout time.Duration
}

func DefaultLayoutOptions() LayoutOptions {
	return LayoutOptions{
		SpaceVertically: config.LayoutSpaceVertically,
		ScaleWeight:     config.LayoutScaleWeight,
		StripRotated:    config.LayoutStripRotated,
	}
}

// StoredContentOptions is what the pipeline uses for persisted records.
func StoredContentOptions(imageDir string) Options {
	return Options{
		Mode:     ModeLayout,
		Layout:   DefaultLayoutOptions(),
		ImageDir: imageDir,
	}
}

type PageExtractor struct {
	logger *logger_i.Logger
}

func NewPageExtractor(logger *logger_i.Logger) *PageExtractor {
	return &PageExtractor{logger: logger}
}

// Extract returns the text and images of the page at 0-based pageIndex.
func (e *PageExtractor) Extract(ctx context.Context, doc *Document, pageIndex int, opts Options) (contentModel.PageRecord, error) {
	if pageIndex < 0 || pageIndex >= doc.PageCount() {
		return contentModel.PageRecord{}, fmt.Errorf("%w: %d not in [0, %d)", contentModel.ErrPageOutOfRange, pageIndex, doc.PageCount())
	}
	log := e.logger.WithTrace(ctx).With("page", pageIndex)

	text, err := protectExtract(ctx, opts.Timeout, func() (string, error) {
		return pageText(doc, pageIndex, opts)
	})
	if err != nil {
		return contentModel.PageRecord{}, err
	}

	images := []contentModel.ImageRecord{}
	if opts.ImageDir != "" {
		raw, err := doc.pageImages(pageIndex + 1)
		if err != nil {
			log.Warn("images unavailable for page", "error", err)
		}
		var failures []error
		images, failures = collectImages(saveImages(raw, opts.ImageDir, pageIndex))
		for _, f := range failures {
			log.Warn("skipped image", "error", f)
		}
	}

	return contentModel.PageRecord{
		PageNumber: pageIndex + 1,
		Text:       text,
		TextLength: utf8.RuneCountInString(text),
		Images:     images,
		ImageCount: len(images),
	}, nil
}

func pageText(doc *Document, pageIndex int, opts Options) (string, error) {
	p, err := doc.page(pageIndex)
	if err != nil {
		return "", err
	}
	runs, err := pageRuns(p)
	if err != nil {
		return "", err
	}
	switch opts.Mode {
	case ModeLayout:
		return composeLayout(runs, opts.Layout), nil
	case ModePlain, "":
		return composePlain(runs, opts.Orientations), nil
	default:
		return "", fmt.Errorf("unknown extraction mode %q", opts.Mode)
	}
}

var errPageTimeout = errors.New("page extraction timed out")

// protectExtract runs fn with a deadline. A stuck parser goroutine is left
// behind; its result is dropped.
func protectExtract(ctx context.Context, timeout time.Duration, fn func() (string, error)) (string, error) {
	if timeout <= 0 {
		timeout = config.PageExtractTimeout
	}
	type result struct {
		content string
		err     error
	}
	resChan := make(chan result, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				resChan <- result{err: fmt.Errorf("page extraction panicked: %v", r)}
			}
		}()
		content, err := fn()
		resChan <- result{content, err}
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case r := <-resChan:
		return r.content, r.err
	case <-timer.C:
		return "", errPageTimeout
	case <-ctx.Done():
		return "", ctx.Err()
	}
}
