package content

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/akolanti/ContentAPI/internal/config"
	"github.com/akolanti/ContentAPI/internal/customHttpClient"
	"github.com/akolanti/ContentAPI/internal/domain/contentModel"
	"github.com/akolanti/ContentAPI/internal/domain/jobModel"
)

var pdfMagic = []byte("%PDF-")

// PDFResult describes one PDF ingestion. Failure is set when the source was
// kept but extraction failed; Record is empty in that case.
type PDFResult struct {
	ContentID  string
	Title      string
	FileSize   int64
	SourcePath string
	DataFile   string
	Record     contentModel.ContentRecord
	Failure    error
}

// UploadPDF stores and processes an uploaded PDF.
func (s *Service) UploadPDF(ctx context.Context, filename string, data []byte) (PDFResult, error) {
	if filename == "" || !strings.HasSuffix(strings.ToLower(filename), ".pdf") {
		return PDFResult{}, contentModel.InvalidInput("Only PDF files are allowed")
	}
	if int64(len(data)) > config.MaxUploadBytes {
		return PDFResult{}, contentModel.InvalidInput("File size exceeds 50MB limit")
	}

	id := s.newID()
	result, err := runJob(ctx, s, jobModel.Job{Id: id, ContentType: contentModel.PDFFile, Source: filename}, func(ctx context.Context, j *jobModel.Job) (PDFResult, error) {
		return s.processPDF(ctx, j, id, filename, data)
	})
	return s.finishPDF(ctx, result, err)
}

// IngestPDFLink downloads a PDF and processes it like an upload.
func (s *Service) IngestPDFLink(ctx context.Context, rawURL string) (PDFResult, error) {
	id := s.newID()
	result, err := runJob(ctx, s, jobModel.Job{Id: id, ContentType: contentModel.PDFLink, Source: rawURL}, func(ctx context.Context, j *jobModel.Job) (PDFResult, error) {
		j.CurrentStep = jobModel.IngestFetching
		data, filename, err := s.downloadPDF(ctx, rawURL)
		if err != nil {
			return PDFResult{}, err
		}
		j.CurrentStep = jobModel.IngestProcessing
		return s.processPDF(ctx, j, id, filename, data)
	})
	return s.finishPDF(ctx, result, err)
}

func (s *Service) processPDF(ctx context.Context, j *jobModel.Job, id, filename string, data []byte) (PDFResult, error) {
	log := s.logger.WithTrace(ctx).With("contentId", id)

	sourcePath, err := s.store.SaveSource(id, filename, data)
	if err != nil {
		return PDFResult{}, contentModel.ProcessingFailed(err)
	}
	log.Info("Saved PDF file", "path", sourcePath)

	result := PDFResult{
		ContentID:  id,
		Title:      filename,
		FileSize:   int64(len(data)),
		SourcePath: sourcePath,
		DataFile:   s.store.DataFile(id),
	}

	rec, err := s.pipeline.Ingest(ctx, data, id, sourcePath)
	if contentModel.IsKind(err, contentModel.KindSizeLimitExceeded) {
		log.Warn("Character limit exceeded", "file", filename, "error", err)
		j.CurrentStep = jobModel.IngestRollback
		s.rollback(ctx, id)
		return result, err
	}
	if err != nil {
		log.Error("Error processing PDF", "file", filename, "error", err)
		return result, err
	}

	result.Record = rec
	log.Info("Successfully processed PDF", "file", filename,
		"pages", rec.TotalPages, "characters", rec.TotalTextLength(), "images", rec.TotalImages())
	return result, nil
}

// rollback removes whatever a rejected document left behind.
func (s *Service) rollback(ctx context.Context, id string) {
	log := s.logger.WithTrace(ctx).With("contentId", id)
	removed, err := s.store.Delete(context.WithoutCancel(ctx), id)
	if err != nil {
		log.Error("rollback left artifacts behind", "error", err)
	}
	if len(removed) > 0 {
		log.Info("Cleaned up files due to character limit", "removed", removed)
	}
}

func (s *Service) finishPDF(ctx context.Context, result PDFResult, err error) (PDFResult, error) {
	switch {
	case err == nil:
		return result, nil
	case contentModel.IsKind(err, contentModel.KindSizeLimitExceeded):
		return result, err
	case result.SourcePath != "":
		// the source stays on disk; the caller gets a degraded answer
		result.Record = contentModel.ContentRecord{}
		result.Failure = err
		return result, nil
	default:
		return PDFResult{}, err
	}
}

func (s *Service) downloadPDF(ctx context.Context, rawURL string) ([]byte, string, error) {
	resp, err := customHttpClient.Get(ctx, s.client, rawURL, config.MaxUploadBytes, "pdf-link")
	if errors.Is(err, customHttpClient.ErrTooLarge) {
		return nil, "", contentModel.InvalidInput("File size exceeds 50MB limit")
	}
	if err != nil {
		return nil, "", contentModel.ProcessingFailed(fmt.Errorf("download pdf: %w", err))
	}
	if !bytes.HasPrefix(bytes.TrimLeft(resp.Body, "\x00\r\n\t "), pdfMagic) {
		return nil, "", contentModel.InvalidInput("URL does not point to a PDF file")
	}
	final := rawURL
	if resp.FinalURL != nil {
		final = resp.FinalURL.String()
	}
	return resp.Body, filenameFromURL(final), nil
}

func filenameFromURL(rawURL string) string {
	name := ""
	if u, err := url.Parse(rawURL); err == nil {
		name = path.Base(u.Path)
	}
	if name == "" || name == "." || name == "/" {
		name = "document"
	}
	if !strings.HasSuffix(strings.ToLower(name), ".pdf") {
		name += ".pdf"
	}
	return name
}
