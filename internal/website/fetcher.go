package website

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/akolanti/ContentAPI/internal/customHttpClient"
	"github.com/akolanti/ContentAPI/internal/textutil"
	"github.com/akolanti/ContentAPI/pkg/logger_i"
	readability "github.com/go-shiori/go-readability"
)

const (
	serviceName  = "website"
	maxPageBytes = 10 << 20
)

var ErrNoReadableContent = errors.New("no readable content extracted")

// Article is the readable part of a web page.
type Article struct {
	Title    string
	SiteName string
	Excerpt  string
	Text     string
	URL      string
}

type Fetcher struct {
	client *http.Client
	logger *logger_i.Logger
}

func NewFetcher(client *http.Client, logger *logger_i.Logger) *Fetcher {
	return &Fetcher{client: client, logger: logger}
}

// Fetch downloads rawURL and extracts its main article text.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (Article, error) {
	log := f.logger.WithTrace(ctx).With("url", rawURL)

	resp, err := customHttpClient.Get(ctx, f.client, rawURL, maxPageBytes, serviceName)
	if err != nil {
		return Article{}, fmt.Errorf("could not fetch %s: %w", rawURL, err)
	}
	if ct := resp.ContentType; ct != "" && !strings.Contains(ct, "html") && !strings.HasPrefix(ct, "text/") {
		return Article{}, fmt.Errorf("unsupported content type %q", ct)
	}

	pageURL := resp.FinalURL
	if pageURL == nil {
		if pageURL, err = url.Parse(rawURL); err != nil {
			return Article{}, err
		}
	}
	article, err := readability.FromReader(bytes.NewReader(resp.Body), pageURL)
	if err != nil {
		return Article{}, fmt.Errorf("could not extract article from %s: %w", rawURL, err)
	}

	text := textutil.FormatText(article.TextContent)
	if text == "" {
		return Article{}, ErrNoReadableContent
	}
	title := strings.TrimSpace(article.Title)
	if title == "" {
		title = pageURL.Host
	}
	log.Debug("extracted article", "title", title, "characters", len(text))

	return Article{
		Title:    title,
		SiteName: article.SiteName,
		Excerpt:  strings.TrimSpace(article.Excerpt),
		Text:     text,
		URL:      rawURL,
	}, nil
}
