package content

import (
	"context"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/akolanti/ContentAPI/internal/config"
	"github.com/akolanti/ContentAPI/internal/domain/contentModel"
	"github.com/akolanti/ContentAPI/internal/domain/jobModel"
	"github.com/akolanti/ContentAPI/internal/youtube"
)

const transcriptTitle = "YouTube Video Transcript"

// URLResult holds the outcome of IngestURL; PDF is set for pdf links,
// Record for everything else.
type URLResult struct {
	ContentType contentModel.ContentType
	PDF         PDFResult
	Record      contentModel.ContentRecord
}

// IngestURL dispatches a submitted url by its declared content type.
func (s *Service) IngestURL(ctx context.Context, contentType, rawURL string) (URLResult, error) {
	ct, ok := contentModel.ParseUploadType(contentType)
	if !ok {
		return URLResult{}, contentModel.InvalidInput("Invalid content type")
	}
	if !validURL(rawURL) {
		return URLResult{}, contentModel.InvalidInput("Invalid URL format")
	}

	result := URLResult{ContentType: ct}
	var err error
	switch ct {
	case contentModel.PDFLink:
		result.PDF, err = s.IngestPDFLink(ctx, rawURL)
	case contentModel.YouTube:
		result.Record, err = s.YouTubeTranscript(ctx, rawURL)
	case contentModel.Website:
		result.Record, err = s.IngestWebsite(ctx, rawURL)
	}
	return result, err
}

func validURL(rawURL string) bool {
	u, err := url.Parse(rawURL)
	return err == nil && u.Scheme != "" && u.Host != ""
}

// YouTubeTranscript fetches and stores the transcript of a youtube video.
func (s *Service) YouTubeTranscript(ctx context.Context, rawURL string) (contentModel.ContentRecord, error) {
	if strings.TrimSpace(rawURL) == "" {
		return contentModel.ContentRecord{}, contentModel.InvalidInput("URL is required")
	}
	if !youtube.LooksLikeYouTube(rawURL) {
		return contentModel.ContentRecord{}, contentModel.InvalidInput("Invalid YouTube URL")
	}
	videoID, ok := youtube.ExtractVideoID(rawURL)
	if !ok {
		return contentModel.ContentRecord{}, contentModel.InvalidInput("Could not extract video ID from URL")
	}

	id := s.newID()
	return runJob(ctx, s, jobModel.Job{Id: id, ContentType: contentModel.YouTube, Source: rawURL}, func(ctx context.Context, j *jobModel.Job) (contentModel.ContentRecord, error) {
		log := s.logger.WithTrace(ctx).With("contentId", id, "videoId", videoID)

		j.CurrentStep = jobModel.IngestFetching
		raw, err := s.transcripts.Fetch(ctx, videoID)
		if err != nil {
			log.Warn("transcript fetch failed", "error", err)
			if contentModel.KindOf(err) == "" {
				err = contentModel.ProcessingFailed(err)
			}
			return contentModel.ContentRecord{}, err
		}
		text := youtube.NormalizeTranscript(raw)
		if text == "" {
			return contentModel.ContentRecord{}, contentModel.NoTranscript(videoID, contentModel.TranscriptNotFound)
		}

		j.CurrentStep = jobModel.IngestProcessing
		rec := contentModel.ContentRecord{
			ContentID:   id,
			ContentType: contentModel.YouTube,
			ProcessedAt: s.now().UTC(),
			Title:       transcriptTitle,
			URL:         rawURL,
			Transcript:  text,
			TextLength:  utf8.RuneCountInString(text),
			TextPreview: preview(text, config.TextPreviewChars),
			Status:      contentModel.StatusProcessed,
		}
		if err := s.store.Put(ctx, rec); err != nil {
			return contentModel.ContentRecord{}, contentModel.ProcessingFailed(err)
		}
		log.Info("Stored transcript", "characters", rec.TextLength)
		return rec, nil
	})
}

// IngestWebsite extracts the readable text of a page and stores it.
func (s *Service) IngestWebsite(ctx context.Context, rawURL string) (contentModel.ContentRecord, error) {
	id := s.newID()
	return runJob(ctx, s, jobModel.Job{Id: id, ContentType: contentModel.Website, Source: rawURL}, func(ctx context.Context, j *jobModel.Job) (contentModel.ContentRecord, error) {
		log := s.logger.WithTrace(ctx).With("contentId", id, "url", rawURL)

		j.CurrentStep = jobModel.IngestFetching
		article, err := s.articles.Fetch(ctx, rawURL)
		if err != nil {
			log.Warn("website fetch failed", "error", err)
			return contentModel.ContentRecord{}, contentModel.ProcessingFailed(err)
		}

		j.CurrentStep = jobModel.IngestProcessing
		pageURL := article.URL
		if pageURL == "" {
			pageURL = rawURL
		}
		rec := contentModel.ContentRecord{
			ContentID:   id,
			ContentType: contentModel.Website,
			ProcessedAt: s.now().UTC(),
			Title:       article.Title,
			URL:         pageURL,
			Text:        article.Text,
			SiteName:    article.SiteName,
			Excerpt:     article.Excerpt,
			TextLength:  utf8.RuneCountInString(article.Text),
			TextPreview: preview(article.Text, config.TextPreviewChars),
			Status:      contentModel.StatusProcessed,
		}
		if err := s.store.Put(ctx, rec); err != nil {
			return contentModel.ContentRecord{}, contentModel.ProcessingFailed(err)
		}
		log.Info("Stored website", "characters", rec.TextLength)
		return rec, nil
	})
}

// preview returns the first n characters of text, with "..." when cut.
func preview(text string, n int) string {
	if utf8.RuneCountInString(text) <= n {
		return text
	}
	return string([]rune(text)[:n]) + "..."
}

// Preview is preview for callers outside the package.
func Preview(text string, n int) string {
	return preview(text, n)
}
