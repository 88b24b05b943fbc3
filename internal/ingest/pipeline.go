package ingest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/akolanti/ContentAPI/internal/config"
	"github.com/akolanti/ContentAPI/internal/domain/contentModel"
	"github.com/akolanti/ContentAPI/internal/metrics"
	"github.com/akolanti/ContentAPI/pkg/logger_i"
)

// RecordSink is the part of the content store the pipeline writes to.
type RecordSink interface {
	Put(ctx context.Context, rec contentModel.ContentRecord) error
	ImageDir(contentID string) string
	RemoveImages(ctx context.Context, contentID string) error
}

type Pipeline struct {
	open   func(raw []byte, sourcePath string) (*Document, error)
	walker *Walker
	sink   RecordSink
	limit  int
	logger *logger_i.Logger
	now    func() time.Time
}

func NewPipeline(walker *Walker, sink RecordSink, logger *logger_i.Logger) *Pipeline {
	return &Pipeline{
		open:   OpenDocument,
		walker: walker,
		sink:   sink,
		limit:  config.MaxDocumentChars,
		logger: logger,
		now:    time.Now,
	}
}

// Ingest extracts raw and persists the record. It fails with a
// SizeLimitExceeded error when the text is over the limit, leaving rollback
// to the caller, and with ProcessingFailed for everything else.
func (p *Pipeline) Ingest(ctx context.Context, raw []byte, contentID, sourcePath string) (rec contentModel.ContentRecord, err error) {
	start := time.Now()
	log := p.logger.WithTrace(ctx).With("contentId", contentID)
	defer func() {
		metrics.CaptureIngestion(ingestOutcome(err), time.Since(start))
	}()

	doc, err := p.open(raw, sourcePath)
	if err != nil {
		log.Error("could not open document", "error", err)
		return rec, contentModel.ProcessingFailed(err)
	}

	opts := StoredContentOptions(p.sink.ImageDir(contentID))
	results := p.walker.Walk(ctx, doc, opts)
	if err := ctx.Err(); err != nil {
		p.discardImages(ctx, log, contentID)
		return rec, contentModel.ProcessingFailed(err)
	}
	pages := Pages(results)

	total := 0
	for _, page := range pages {
		total += page.TextLength
	}
	if total > p.limit {
		log.Warn("document exceeds character limit", "characters", total, "limit", p.limit)
		metrics.IncrementRejectedDocuments()
		return rec, contentModel.SizeLimitExceeded(total, p.limit)
	}
	log.Info("document within character limit", "characters", total, "pages", len(pages), "degradedPages", Failed(results))

	info := doc.Info()
	rec = contentModel.ContentRecord{
		ContentID:   contentID,
		ContentType: contentModel.PDFFile,
		PDFInfo:     &info,
		TotalPages:  len(pages),
		ProcessedAt: p.now().UTC(),
		Pages:       pages,
	}
	if err := p.sink.Put(ctx, rec); err != nil {
		log.Error("could not persist record", "error", err)
		p.discardImages(ctx, log, contentID)
		return contentModel.ContentRecord{}, contentModel.ProcessingFailed(fmt.Errorf("persist record: %w", err))
	}

	metrics.CaptureExtraction(len(pages), rec.TotalImages())
	log.Info("processed document", "pages", rec.TotalPages, "characters", total, "images", rec.TotalImages())
	return rec, nil
}

func (p *Pipeline) discardImages(ctx context.Context, log *logger_i.Logger, contentID string) {
	if err := p.sink.RemoveImages(ctx, contentID); err != nil {
		log.Error("could not remove extracted images", "error", err)
	}
}

func ingestOutcome(err error) string {
	if err == nil {
		return "processed"
	}
	var ce *contentModel.ContentError
	if errors.As(err, &ce) {
		return string(ce.Kind)
	}
	return "error"
}
