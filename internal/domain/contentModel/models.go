package contentModel

import (
	"context"
	"time"
)

type ContentType string

const (
	PDFFile ContentType = "pdf-file"
	PDFLink ContentType = "pdf-link"
	YouTube ContentType = "youtube"
	Website ContentType = "website"
)

type Status string

const (
	StatusReceived         Status = "received"
	StatusProcessed        Status = "processed"
	StatusProcessingFailed Status = "processing_failed"
)

// ParseUploadType accepts the content types a caller may submit by url.
func ParseUploadType(s string) (ContentType, bool) {
	switch ContentType(s) {
	case PDFLink, YouTube, Website:
		return ContentType(s), true
	}
	return "", false
}

// ContentRecord is the persisted unit, one per content id.
// PDF records fill PDFInfo/TotalPages/Pages; transcript and web records fill
// the url/text fields.
type ContentRecord struct {
	ContentID   string      `json:"content_id"`
	ContentType ContentType `json:"content_type"`
	ProcessedAt time.Time   `json:"processed_at"`

	PDFInfo    *PDFInfo     `json:"pdf_info,omitempty"`
	TotalPages int          `json:"total_pages,omitempty"`
	Pages      []PageRecord `json:"pages,omitempty"`

	Title       string `json:"title,omitempty"`
	URL         string `json:"url,omitempty"`
	Transcript  string `json:"transcript,omitempty"`
	Text        string `json:"text,omitempty"`
	SiteName    string `json:"site_name,omitempty"`
	Excerpt     string `json:"excerpt,omitempty"`
	TextLength  int    `json:"text_length,omitempty"`
	TextPreview string `json:"text_preview,omitempty"`
	Status      Status `json:"status,omitempty"`
}

type PDFInfo struct {
	FilePath         string `json:"file_path"`
	NumPages         int    `json:"num_pages"`
	Title            string `json:"title"`
	Author           string `json:"author"`
	Subject          string `json:"subject"`
	Creator          string `json:"creator"`
	Producer         string `json:"producer"`
	CreationDate     string `json:"creation_date"`
	ModificationDate string `json:"modification_date"`
}

type PageRecord struct {
	PageNumber int           `json:"page_number"`
	Text       string        `json:"text"`
	TextLength int           `json:"text_length"`
	Images     []ImageRecord `json:"images"`
	ImageCount int           `json:"image_count"`
}

type ImageRecord struct {
	ImageIndex    int         `json:"image_index"`
	ImageName     string      `json:"image_name"`
	ImageFormat   string      `json:"image_format"`
	ImageSize     *Dimensions `json:"image_size,omitempty"`
	ImagePath     string      `json:"image_path"`
	Base64Preview string      `json:"base64_preview"`
}

// Dimensions is a [width, height] pair.
type Dimensions [2]int

// EmptyPage is what a failed page degrades to.
func EmptyPage(pageNumber int) PageRecord {
	return PageRecord{PageNumber: pageNumber, Images: []ImageRecord{}}
}

func (r ContentRecord) TotalTextLength() int {
	total := 0
	for _, p := range r.Pages {
		total += p.TextLength
	}
	return total
}

func (r ContentRecord) TotalImages() int {
	total := 0
	for _, p := range r.Pages {
		total += p.ImageCount
	}
	return total
}

// Page returns the page with the given 1-based number.
func (r ContentRecord) Page(pageNumber int) (PageRecord, bool) {
	for _, p := range r.Pages {
		if p.PageNumber == pageNumber {
			return p, true
		}
	}
	return PageRecord{}, false
}

// RecordBackend persists one serialized record per content id.
type RecordBackend interface {
	Write(ctx context.Context, id string, data []byte) error
	Read(ctx context.Context, id string) ([]byte, error)
	// Remove reports whether something was removed; a missing record is not an error.
	Remove(ctx context.Context, id string) (bool, error)
	// Location describes where the record for id lives, for logs and delete reports.
	Location(id string) string
}
