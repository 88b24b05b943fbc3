package adapter

import (
	"github.com/akolanti/ContentAPI/internal/api"
	"github.com/akolanti/ContentAPI/internal/config"
	"github.com/akolanti/ContentAPI/internal/content"
	"github.com/akolanti/ContentAPI/internal/domain/contentModel"
	"github.com/akolanti/ContentAPI/internal/textutil"
)

func ToUploadSummary(res content.PDFResult) api.UploadSummary {
	rec := res.Record
	firstPage := ""
	if len(rec.Pages) > 0 {
		firstPage = rec.Pages[0].Text
	}
	return api.UploadSummary{
		ContentID:       res.ContentID,
		ContentType:     contentModel.PDFFile,
		Title:           res.Title,
		FileSize:        res.FileSize,
		TotalPages:      rec.TotalPages,
		TotalTextLength: rec.TotalTextLength(),
		TotalImages:     rec.TotalImages(),
		TextPreview:     content.Preview(firstPage, config.TextPreviewChars),
		Status:          contentModel.StatusProcessed,
		ProcessedAt:     rec.ProcessedAt,
		DataFile:        res.DataFile,
	}
}

func ToDegradedUpload(res content.PDFResult) api.DegradedUpload {
	msg := res.Failure.Error()
	return api.DegradedUpload{
		ContentID:   res.ContentID,
		ContentType: contentModel.PDFFile,
		Title:       res.Title,
		FileSize:    res.FileSize,
		TextPreview: "Processing failed: " + msg,
		Status:      contentModel.StatusProcessingFailed,
		Error:       msg,
	}
}

func ToTextContentSummary(rec contentModel.ContentRecord, dataFile string) api.TextContentSummary {
	return api.TextContentSummary{
		ContentID:   rec.ContentID,
		ContentType: rec.ContentType,
		Title:       rec.Title,
		URL:         rec.URL,
		SiteName:    rec.SiteName,
		TextLength:  rec.TextLength,
		TextPreview: rec.TextPreview,
		Status:      rec.Status,
		DataFile:    dataFile,
	}
}

func ToContentSummary(rec contentModel.ContentRecord) api.ContentSummary {
	pages := make([]api.PageSummary, 0, len(rec.Pages))
	for _, p := range rec.Pages {
		pages = append(pages, api.PageSummary{
			PageNumber:  p.PageNumber,
			TextLength:  p.TextLength,
			ImageCount:  p.ImageCount,
			TextPreview: content.Preview(p.Text, config.PageSummaryChars),
		})
	}
	return api.ContentSummary{
		ContentID:       rec.ContentID,
		TotalPages:      rec.TotalPages,
		ProcessedAt:     rec.ProcessedAt,
		PDFInfo:         rec.PDFInfo,
		TotalTextLength: rec.TotalTextLength(),
		TotalImages:     rec.TotalImages(),
		PagesSummary:    pages,
	}
}

// ToTopicExtractorFormat lists page texts, normalized when clean is set.
func ToTopicExtractorFormat(rec contentModel.ContentRecord, clean bool) api.TopicExtractorFormat {
	pages := make([]api.TopicPage, 0, len(rec.Pages))
	for _, p := range rec.Pages {
		text := p.Text
		if clean {
			text = textutil.FormatText(text)
		}
		pages = append(pages, api.TopicPage{PageNumber: p.PageNumber, Content: text})
	}
	return api.TopicExtractorFormat{TotalPages: rec.TotalPages, Pages: pages}
}

func ToTranscriptData(rec contentModel.ContentRecord) api.TranscriptData {
	return api.TranscriptData{
		ContentID:   rec.ContentID,
		Title:       rec.Title,
		URL:         rec.URL,
		Transcript:  rec.Transcript,
		TextLength:  rec.TextLength,
		ProcessedAt: rec.ProcessedAt,
	}
}
