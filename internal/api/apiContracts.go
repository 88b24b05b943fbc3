package api

import (
	"time"

	"github.com/akolanti/ContentAPI/internal/domain/contentModel"
)

// Envelope wraps every successful (or degraded) response.
type Envelope struct {
	Success bool   `json:"success" example:"true"`
	Message string `json:"message,omitempty" example:"PDF uploaded and processed successfully"`
	Data    any    `json:"data,omitempty"`
}

type ErrorResponse struct {
	Success bool   `json:"success" example:"false"`
	Detail  string `json:"detail" example:"Content not found"`
	Code    int    `json:"code" example:"404"`
}

type StatusMessage struct {
	Message string `json:"message" example:"Vibe Learning Content API is running!"`
}

type UploadSummary struct {
	ContentID       string                   `json:"content_id" example:"7b0e8f6a-1c44-4a55-9d4e-3f1d2b8a9c10"`
	ContentType     contentModel.ContentType `json:"content_type" example:"pdf-file"`
	Title           string                   `json:"title" example:"notes.pdf"`
	FileSize        int64                    `json:"file_size" example:"52314"`
	TotalPages      int                      `json:"total_pages" example:"12"`
	TotalTextLength int                      `json:"total_text_length" example:"18233"`
	TotalImages     int                      `json:"total_images" example:"3"`
	TextPreview     string                   `json:"text_preview"`
	Status          contentModel.Status      `json:"status" example:"processed"`
	ProcessedAt     time.Time                `json:"processed_at"`
	DataFile        string                   `json:"data_file" example:"data/7b0e8f6a-1c44-4a55-9d4e-3f1d2b8a9c10.json"`
}

// DegradedUpload is returned when the file was stored but could not be processed.
type DegradedUpload struct {
	ContentID   string                   `json:"content_id"`
	ContentType contentModel.ContentType `json:"content_type" example:"pdf-file"`
	Title       string                   `json:"title"`
	FileSize    int64                    `json:"file_size"`
	TextLength  int                      `json:"text_length" example:"0"`
	TextPreview string                   `json:"text_preview" example:"Processing failed: malformed PDF"`
	Status      contentModel.Status      `json:"status" example:"processing_failed"`
	Error       string                   `json:"error"`
}

// TextContentSummary answers youtube and website ingestion.
type TextContentSummary struct {
	ContentID   string                   `json:"content_id"`
	ContentType contentModel.ContentType `json:"content_type" example:"youtube"`
	Title       string                   `json:"title" example:"YouTube Video Transcript"`
	URL         string                   `json:"url"`
	SiteName    string                   `json:"site_name,omitempty"`
	TextLength  int                      `json:"text_length"`
	TextPreview string                   `json:"text_preview"`
	Status      contentModel.Status      `json:"status" example:"processed"`
	DataFile    string                   `json:"data_file"`
}

type PageSummary struct {
	PageNumber  int    `json:"page_number" example:"1"`
	TextLength  int    `json:"text_length" example:"1200"`
	ImageCount  int    `json:"image_count" example:"0"`
	TextPreview string `json:"text_preview"`
}

type ContentSummary struct {
	ContentID       string                `json:"content_id"`
	TotalPages      int                   `json:"total_pages"`
	ProcessedAt     time.Time             `json:"processed_at"`
	PDFInfo         *contentModel.PDFInfo `json:"pdf_info"`
	TotalTextLength int                   `json:"total_text_length"`
	TotalImages     int                   `json:"total_images"`
	PagesSummary    []PageSummary         `json:"pages_summary"`
}

type TopicPage struct {
	PageNumber int    `json:"page_number" example:"1"`
	Content    string `json:"content"`
}

// TopicExtractorFormat is the page list consumed by the topic extractor.
type TopicExtractorFormat struct {
	TotalPages int         `json:"total_pages" example:"2"`
	Pages      []TopicPage `json:"pages"`
}

type TranscriptData struct {
	ContentID   string    `json:"content_id"`
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	Transcript  string    `json:"transcript"`
	TextLength  int       `json:"text_length"`
	ProcessedAt time.Time `json:"processed_at"`
}

type DeleteResponse struct {
	Success      bool     `json:"success" example:"true"`
	Message      string   `json:"message" example:"Content deleted successfully"`
	DeletedItems []string `json:"deleted_items"`
}

type JobResponse struct {
	Id          string            `json:"id" example:"7b0e8f6a-1c44-4a55-9d4e-3f1d2b8a9c10"`
	ContentType string            `json:"content_type" example:"pdf-file"`
	Status      string            `json:"status" example:"COMPLETE"`
	CurrentStep string            `json:"current_step" example:"Complete"`
	Error       *JobOutgoingError `json:"error,omitempty"`
	StartTime   time.Time         `json:"start_time"`
	EndTime     time.Time         `json:"end_time,omitempty"`
}

type JobOutgoingError struct {
	Code    int    `json:"code" example:"400"`
	Kind    string `json:"kind,omitempty" example:"invalid_input"`
	Message string `json:"message" example:"Only PDF files are allowed"`
	Retry   bool   `json:"can_retry" example:"false"`
}
