package ingest

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/akolanti/ContentAPI/internal/domain/contentModel"
	"github.com/ledongthuc/pdf"
)

const unknownInfo = "Unknown"

// Document is an opened PDF owned by one ingestion call. It is read-only;
// pages may be read from several goroutines.
type Document struct {
	reader     *pdf.Reader
	raw        []byte
	sourcePath string
	pageCount  int

	images imageSource
}

// OpenDocument parses raw as a PDF. The parser panics on some malformed
// input, so the panic is turned into an error here.
func OpenDocument(raw []byte, sourcePath string) (doc *Document, err error) {
	if len(raw) == 0 {
		return nil, errors.New("empty PDF content")
	}
	defer func() {
		if r := recover(); r != nil {
			doc = nil
			err = fmt.Errorf("malformed PDF: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	count := reader.NumPage()
	if count < 0 {
		count = 0
	}
	return &Document{
		reader:     reader,
		raw:        raw,
		sourcePath: sourcePath,
		pageCount:  count,
		images:     newPDFImageSource(raw),
	}, nil
}

func (d *Document) PageCount() int {
	return d.pageCount
}

// Info reads the document information dictionary. Absent fields are "Unknown".
func (d *Document) Info() (info contentModel.PDFInfo) {
	info = contentModel.PDFInfo{
		FilePath:         d.sourcePath,
		NumPages:         d.pageCount,
		Title:            unknownInfo,
		Author:           unknownInfo,
		Subject:          unknownInfo,
		Creator:          unknownInfo,
		Producer:         unknownInfo,
		CreationDate:     unknownInfo,
		ModificationDate: unknownInfo,
	}
	if d.reader == nil {
		return info
	}
	defer func() {
		// a broken Info dictionary only costs us the metadata
		_ = recover()
	}()

	dict := d.reader.Trailer().Key("Info")
	if dict.IsNull() {
		return info
	}
	fields := []struct {
		key string
		dst *string
	}{
		{"Title", &info.Title},
		{"Author", &info.Author},
		{"Subject", &info.Subject},
		{"Creator", &info.Creator},
		{"Producer", &info.Producer},
		{"CreationDate", &info.CreationDate},
		{"ModDate", &info.ModificationDate},
	}
	for _, f := range fields {
		if v := dict.Key(f.key).Text(); v != "" {
			*f.dst = v
		}
	}
	return info
}

func (d *Document) page(pageIndex int) (pdf.Page, error) {
	if d.reader == nil {
		return pdf.Page{}, errors.New("document has no page tree")
	}
	p := d.reader.Page(pageIndex + 1)
	if p.V.IsNull() {
		return pdf.Page{}, fmt.Errorf("page %d missing from page tree", pageIndex)
	}
	return p, nil
}

func (d *Document) pageImages(pageNumber int) ([]rawImage, error) {
	if d.images == nil {
		return nil, nil
	}
	return d.images.PageImages(pageNumber)
}
