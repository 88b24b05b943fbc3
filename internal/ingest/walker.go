package ingest

import (
	"context"

	"github.com/akolanti/ContentAPI/internal/domain/contentModel"
	"github.com/akolanti/ContentAPI/pkg/logger_i"
	"golang.org/x/sync/errgroup"
)

type pageExtractor interface {
	Extract(ctx context.Context, doc *Document, pageIndex int, opts Options) (contentModel.PageRecord, error)
}

// PageResult is the outcome for one page. Page is only meaningful when Err is nil.
type PageResult struct {
	Index int
	Page  contentModel.PageRecord
	Err   error
}

type Walker struct {
	extractor pageExtractor
	workers   int
	logger    *logger_i.Logger
}

func NewWalker(extractor pageExtractor, workers int, logger *logger_i.Logger) *Walker {
	if workers < 1 {
		workers = 1
	}
	return &Walker{extractor: extractor, workers: workers, logger: logger}
}

// Walk extracts every page and returns exactly one result per page, in order.
func (w *Walker) Walk(ctx context.Context, doc *Document, opts Options) []PageResult {
	count := doc.PageCount()
	results := make([]PageResult, count)

	var g errgroup.Group
	g.SetLimit(w.workers)
	for i := 0; i < count; i++ {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i] = PageResult{Index: i, Err: err}
				return nil
			}
			page, err := w.extractor.Extract(ctx, doc, i, opts)
			results[i] = PageResult{Index: i, Page: page, Err: err}
			return nil
		})
	}
	_ = g.Wait()

	log := w.logger.WithTrace(ctx)
	for _, r := range results {
		if r.Err != nil {
			log.Warn("page degraded to empty", "page", r.Index, "error", r.Err)
		}
	}
	return results
}

// Pages turns results into page records; failed pages become empty ones.
func Pages(results []PageResult) []contentModel.PageRecord {
	pages := make([]contentModel.PageRecord, len(results))
	for i, r := range results {
		if r.Err != nil {
			pages[i] = contentModel.EmptyPage(i + 1)
			continue
		}
		page := r.Page
		page.PageNumber = i + 1
		if page.Images == nil {
			page.Images = []contentModel.ImageRecord{}
		}
		page.ImageCount = len(page.Images)
		pages[i] = page
	}
	return pages
}

// Failed counts degraded pages.
func Failed(results []PageResult) int {
	n := 0
	for _, r := range results {
		if r.Err != nil {
			n++
		}
	}
	return n
}
