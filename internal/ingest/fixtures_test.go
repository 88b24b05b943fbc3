package ingest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/akolanti/ContentAPI/internal/domain/contentModel"
)

// buildPDF writes a minimal uncompressed PDF with one Helvetica font and
// one content stream per page.
func buildPDF(t *testing.T, pageStreams []string, info map[string]string) []byte {
	t.Helper()

	var objects []string
	add := func(body string) int {
		objects = append(objects, body)
		return len(objects)
	}

	catalog := add("") // filled below
	pagesObj := add("")
	font := add("<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>")

	var kids []string
	for _, content := range pageStreams {
		stream := add(fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content))
		page := add(fmt.Sprintf("<< /Type /Page /Parent %d 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 %d 0 R >> >> /Contents %d 0 R >>", pagesObj, font, stream))
		kids = append(kids, fmt.Sprintf("%d 0 R", page))
	}
	objects[catalog-1] = fmt.Sprintf("<< /Type /Catalog /Pages %d 0 R >>", pagesObj)
	objects[pagesObj-1] = fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(kids))

	infoRef := 0
	if len(info) > 0 {
		keys := make([]string, 0, len(info))
		for k := range info {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		var b strings.Builder
		b.WriteString("<<")
		for _, k := range keys {
			fmt.Fprintf(&b, " /%s (%s)", k, info[k])
		}
		b.WriteString(" >>")
		infoRef = add(b.String())
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, body := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, body)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	trailer := fmt.Sprintf("<< /Size %d /Root %d 0 R", len(objects)+1, catalog)
	if infoRef > 0 {
		trailer += fmt.Sprintf(" /Info %d 0 R", infoRef)
	}
	trailer += " >>"
	fmt.Fprintf(&buf, "trailer\n%s\nstartxref\n%d\n%%%%EOF\n", trailer, xref)
	return buf.Bytes()
}

func textStream(lines ...string) string {
	var b strings.Builder
	b.WriteString("BT /F1 12 Tf 72 720 Td 14 TL\n")
	for i, line := range lines {
		if i > 0 {
			b.WriteString("T* ")
		}
		fmt.Fprintf(&b, "(%s) Tj\n", line)
	}
	b.WriteString("ET")
	return b.String()
}

// fakeExtractor returns canned pages and fails the listed indexes.
type fakeExtractor struct {
	mu       sync.Mutex
	text     func(pageIndex int) string
	failOn   map[int]bool
	seen     []int
	imageDir string
}

func (f *fakeExtractor) Extract(ctx context.Context, doc *Document, pageIndex int, opts Options) (contentModel.PageRecord, error) {
	f.mu.Lock()
	f.seen = append(f.seen, pageIndex)
	f.imageDir = opts.ImageDir
	f.mu.Unlock()

	if f.failOn[pageIndex] {
		return contentModel.PageRecord{}, errors.New("broken content stream")
	}
	text := ""
	if f.text != nil {
		text = f.text(pageIndex)
	}
	return contentModel.PageRecord{
		PageNumber: pageIndex + 1,
		Text:       text,
		TextLength: len([]rune(text)),
		Images: []contentModel.ImageRecord{{
			ImageIndex:  1,
			ImageName:   "Im0.png",
			ImageFormat: "PNG",
			ImagePath:   "page.png",
		}},
		ImageCount: 1,
	}, nil
}

// memorySink records what the pipeline persisted.
type memorySink struct {
	mu             sync.Mutex
	records        map[string]contentModel.ContentRecord
	putErr         error
	removedImages  []string
	imageDirPrefix string
}

func newMemorySink() *memorySink {
	return &memorySink{records: map[string]contentModel.ContentRecord{}, imageDirPrefix: "images"}
}

func (s *memorySink) Put(ctx context.Context, rec contentModel.ContentRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.putErr != nil {
		return s.putErr
	}
	s.records[rec.ContentID] = rec
	return nil
}

func (s *memorySink) ImageDir(contentID string) string {
	return s.imageDirPrefix + "/" + contentID
}

func (s *memorySink) RemoveImages(ctx context.Context, contentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removedImages = append(s.removedImages, contentID)
	return nil
}
