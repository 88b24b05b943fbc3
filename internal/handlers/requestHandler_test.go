package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/akolanti/ContentAPI/internal/content"
	"github.com/akolanti/ContentAPI/internal/data/store"
	"github.com/akolanti/ContentAPI/internal/domain/contentModel"
	"github.com/akolanti/ContentAPI/internal/website"
	"github.com/akolanti/ContentAPI/pkg/logger_i"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubIngester stores a fixed two page record, or fails with err.
type stubIngester struct {
	store *store.ContentStore
	err   error
}

func (s *stubIngester) Ingest(ctx context.Context, raw []byte, id, sourcePath string) (contentModel.ContentRecord, error) {
	if s.err != nil {
		return contentModel.ContentRecord{}, s.err
	}
	rec := contentModel.ContentRecord{
		ContentID:   id,
		ContentType: contentModel.PDFFile,
		ProcessedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		PDFInfo:     &contentModel.PDFInfo{FilePath: sourcePath, NumPages: 2, Title: "Unknown"},
		TotalPages:  2,
		Pages: []contentModel.PageRecord{
			{PageNumber: 1, Text: strings.Repeat("a", 150), TextLength: 150, Images: []contentModel.ImageRecord{}},
			{PageNumber: 2, Text: "Café   au\n\n\n\nlait", TextLength: 17, Images: []contentModel.ImageRecord{}},
		},
	}
	return rec, s.store.Put(ctx, rec)
}

type stubTranscripts struct{ err error }

func (s *stubTranscripts) Fetch(ctx context.Context, videoID string) (string, error) {
	return "never gonna  give you up", s.err
}

type stubArticles struct{}

func (stubArticles) Fetch(ctx context.Context, rawURL string) (website.Article, error) {
	return website.Article{Title: "Post", Text: "Article body", URL: rawURL}, nil
}

var (
	testIngester    *stubIngester
	testTranscripts *stubTranscripts
	testUploadDir   string
	testRouter      *chi.Mux
)

func TestMain(m *testing.M) {
	root, err := os.MkdirTemp("", "handlers")
	if err != nil {
		panic(err)
	}
	testUploadDir = filepath.Join(root, "uploads")
	cs, err := store.NewContentStore(store.InitInMemoryRecordBackend(), store.Layout{
		DataDir:   filepath.Join(root, "data"),
		UploadDir: testUploadDir,
		ImageDir:  filepath.Join(root, "images"),
	}, logger_i.Discard())
	if err != nil {
		panic(err)
	}
	testIngester = &stubIngester{store: cs}
	testTranscripts = &stubTranscripts{}
	InitContentHandler(content.NewService(content.Config{
		Store:       cs,
		Pipeline:    testIngester,
		Transcripts: testTranscripts,
		Articles:    stubArticles{},
		Client:      http.DefaultClient,
		Logger:      logger_i.Discard(),
	}))
	testRouter = newTestRouter()

	code := m.Run()
	os.RemoveAll(root)
	os.Exit(code)
}

func newTestRouter() *chi.Mux {
	r := chi.NewRouter()
	r.Get("/", RootHandler)
	r.Post("/upload-pdf", UploadPDFHandler)
	r.Post("/upload-content", UploadContentHandler)
	r.Post("/youtube-transcript", YouTubeTranscriptHandler)
	r.Get("/content/{id}", GetContentHandler)
	r.Delete("/content/{id}", DeleteContentHandler)
	r.Get("/content/{id}/page/{page}", GetPageHandler)
	r.Get("/content/{id}/summary", GetSummaryHandler)
	r.Get("/content/{id}/topic-extractor-format", GetTopicExtractorHandler)
	r.Get("/content/{id}/transcript", GetTranscriptHandler)
	r.Get("/pdf/{id}", GetPDFHandler)
	r.Head("/pdf/{id}", GetPDFHandler)
	r.Get("/status/{id}", GetStatusHandler)
	return r
}

func do(t *testing.T, req *http.Request) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	rr := httptest.NewRecorder()
	testRouter.ServeHTTP(rr, req)
	var body map[string]any
	if strings.HasPrefix(rr.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body), rr.Body.String())
	}
	return rr, body
}

func uploadRequest(t *testing.T, filename string, data []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload-pdf", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func formRequest(path string, values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func uploadPDF(t *testing.T) string {
	t.Helper()
	rr, body := do(t, uploadRequest(t, "lecture.pdf", []byte("%PDF-1.4 test")))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	return body["data"].(map[string]any)["content_id"].(string)
}

func TestRootHandler(t *testing.T) {
	rr, body := do(t, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Vibe Learning Content API is running!", body["message"])
}

func TestUploadPDF(t *testing.T) {
	rr, body := do(t, uploadRequest(t, "lecture.pdf", []byte("%PDF-1.4 test")))
	require.Equal(t, http.StatusOK, rr.Code)

	assert.Equal(t, true, body["success"])
	assert.Equal(t, "PDF uploaded and processed successfully", body["message"])
	data := body["data"].(map[string]any)
	assert.Equal(t, "pdf-file", data["content_type"])
	assert.Equal(t, "lecture.pdf", data["title"])
	assert.Equal(t, float64(13), data["file_size"])
	assert.Equal(t, float64(2), data["total_pages"])
	assert.Equal(t, float64(167), data["total_text_length"])
	assert.Equal(t, strings.Repeat("a", 150), data["text_preview"])
	assert.Equal(t, "processed", data["status"])
	assert.Equal(t, "memory:"+data["content_id"].(string), data["data_file"])
}

func TestUploadPDFRejects(t *testing.T) {
	rr, body := do(t, uploadRequest(t, "notes.docx", []byte("x")))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "Only PDF files are allowed", body["detail"])
	assert.Equal(t, false, body["success"])
	assert.Equal(t, float64(400), body["code"])

	req := httptest.NewRequest(http.MethodPost, "/upload-pdf", strings.NewReader("not multipart"))
	rr, _ = do(t, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestUploadPDFSizeLimit(t *testing.T) {
	testIngester.err = contentModel.SizeLimitExceeded(150_000, 100_000)
	defer func() { testIngester.err = nil }()

	rr, body := do(t, uploadRequest(t, "huge.pdf", []byte("%PDF-")))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "Document too large: Document exceeds 100,000 character limit (150,000 characters). Please use a smaller document.", body["detail"])
}

func TestUploadPDFDegraded(t *testing.T) {
	testIngester.err = contentModel.ProcessingFailed(errors.New("malformed PDF"))
	defer func() { testIngester.err = nil }()

	rr, body := do(t, uploadRequest(t, "broken.pdf", []byte("%PDF-")))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "PDF uploaded but processing failed: malformed PDF", body["message"])
	data := body["data"].(map[string]any)
	assert.Equal(t, "processing_failed", data["status"])
	assert.Equal(t, "Processing failed: malformed PDF", data["text_preview"])
	assert.Equal(t, float64(0), data["text_length"])
}

func TestContentEndpoints(t *testing.T) {
	id := uploadPDF(t)

	rr, body := do(t, httptest.NewRequest(http.MethodGet, "/content/"+id, nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, id, body["data"].(map[string]any)["content_id"])

	rr, body = do(t, httptest.NewRequest(http.MethodGet, "/content/"+id+"/page/2", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, float64(2), body["data"].(map[string]any)["page_number"])

	rr, body = do(t, httptest.NewRequest(http.MethodGet, "/content/"+id+"/page/3", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "Page 3 not found", body["detail"])

	rr, _ = do(t, httptest.NewRequest(http.MethodGet, "/content/"+id+"/page/two", nil))
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr, body = do(t, httptest.NewRequest(http.MethodGet, "/content/"+id+"/summary", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	summary := body["data"].(map[string]any)
	assert.Equal(t, float64(167), summary["total_text_length"])
	pages := summary["pages_summary"].([]any)
	require.Len(t, pages, 2)
	assert.Equal(t, strings.Repeat("a", 100)+"...", pages[0].(map[string]any)["text_preview"])

	rr, _ = do(t, httptest.NewRequest(http.MethodGet, "/content/missing", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestTopicExtractorFormat(t *testing.T) {
	id := uploadPDF(t)

	_, body := do(t, httptest.NewRequest(http.MethodGet, "/content/"+id+"/topic-extractor-format", nil))
	data := body["data"].(map[string]any)
	assert.Equal(t, float64(2), data["total_pages"])
	page2 := data["pages"].([]any)[1].(map[string]any)
	assert.Equal(t, "Café   au\n\n\n\nlait", page2["content"])

	_, body = do(t, httptest.NewRequest(http.MethodGet, "/content/"+id+"/topic-extractor-format?clean=true", nil))
	page2 = body["data"].(map[string]any)["pages"].([]any)[1].(map[string]any)
	assert.Equal(t, "Cafe au\n\nlait", page2["content"])
}

func TestPDFDownload(t *testing.T) {
	id := uploadPDF(t)

	rr, _ := do(t, httptest.NewRequest(http.MethodGet, "/pdf/"+id, nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/pdf", rr.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename=lecture.pdf`, rr.Header().Get("Content-Disposition"))
	assert.Equal(t, "%PDF-1.4 test", rr.Body.String())

	rr, _ = do(t, httptest.NewRequest(http.MethodHead, "/pdf/"+id, nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, rr.Body.String())

	rr, body := do(t, httptest.NewRequest(http.MethodGet, "/pdf/unknown", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "PDF file not found", body["detail"])
}

func TestDeleteIsIdempotent(t *testing.T) {
	id := uploadPDF(t)

	rr, body := do(t, httptest.NewRequest(http.MethodDelete, "/content/"+id, nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Content deleted successfully", body["message"])
	assert.Equal(t, []any{"PDF file: " + id + "_lecture.pdf", "Data file: memory:" + id}, body["deleted_items"])

	rr, body = do(t, httptest.NewRequest(http.MethodDelete, "/content/"+id, nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, []any{}, body["deleted_items"])
}

func TestYouTubeTranscript(t *testing.T) {
	rr, body := do(t, formRequest("/youtube-transcript", url.Values{"url": {"https://www.youtube.com/watch?v=dQw4w9WgXcQ"}}))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, "YouTube transcript extracted successfully", body["message"])
	data := body["data"].(map[string]any)
	assert.Equal(t, "youtube", data["content_type"])
	assert.Equal(t, float64(23), data["text_length"])
	id := data["content_id"].(string)

	rr, body = do(t, httptest.NewRequest(http.MethodGet, "/content/"+id+"/transcript", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "never gonna give you up", body["data"].(map[string]any)["transcript"])

	pdfID := uploadPDF(t)
	rr, body = do(t, httptest.NewRequest(http.MethodGet, "/content/"+pdfID+"/transcript", nil))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "Content is not a YouTube video", body["detail"])
}

func TestYouTubeTranscriptErrors(t *testing.T) {
	rr, body := do(t, formRequest("/youtube-transcript", url.Values{"url": {"https://vimeo.com/1"}}))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "Invalid YouTube URL", body["detail"])

	testTranscripts.err = contentModel.NoTranscript("dQw4w9WgXcQ", contentModel.TranscriptDisabled)
	defer func() { testTranscripts.err = nil }()
	rr, body = do(t, formRequest("/youtube-transcript", url.Values{"url": {"https://youtu.be/dQw4w9WgXcQ"}}))
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "Transcripts are disabled for this video.", body["detail"])
}

func TestUploadContent(t *testing.T) {
	rr, body := do(t, formRequest("/upload-content", url.Values{"url": {"https://example.com/post"}, "content_type": {"website"}}))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, "Website received successfully", body["message"])
	data := body["data"].(map[string]any)
	assert.Equal(t, "website", data["content_type"])
	assert.Equal(t, "Post", data["title"])

	rr, body = do(t, formRequest("/upload-content", url.Values{"url": {"https://youtu.be/dQw4w9WgXcQ"}, "content_type": {"youtube"}}))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Youtube received successfully", body["message"])

	rr, body = do(t, formRequest("/upload-content", url.Values{"url": {"https://example.com"}, "content_type": {"audio"}}))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "Invalid content type", body["detail"])

	rr, body = do(t, formRequest("/upload-content", url.Values{"url": {"not a url"}, "content_type": {"pdf-link"}}))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "Invalid URL format", body["detail"])
}

func TestStatusWithoutJobService(t *testing.T) {
	rr, body := do(t, httptest.NewRequest(http.MethodGet, "/status/anything", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "Job not found", body["detail"])
}
