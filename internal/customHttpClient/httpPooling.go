package customHttpClient

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/akolanti/ContentAPI/internal/config"
	"github.com/akolanti/ContentAPI/internal/metrics"
)

var customTransport = &http.Transport{
	Proxy:               http.ProxyFromEnvironment,
	MaxIdleConns:        config.MaxIdleConns,
	MaxIdleConnsPerHost: config.MaxIdleConnsPerHost,
	IdleConnTimeout:     config.IdleConnTimeout,
}

// NewClient returns a client sharing the pooled transport.
func NewClient() *http.Client {
	return &http.Client{
		Transport: customTransport,
		Timeout:   config.OutboundTimeout,
	}
}

var ErrTooLarge = errors.New("response exceeds size limit")

// StatusError is a non-2xx answer from an outbound call.
type StatusError struct {
	StatusCode int
	URL        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %d", e.URL, e.StatusCode)
}

type Response struct {
	Body        []byte
	ContentType string
	// FinalURL is the url after redirects.
	FinalURL *url.URL
}

// Get fetches rawURL, reading at most limit bytes of body. The call is timed
// under service in the dependency latency histogram.
func Get(ctx context.Context, client *http.Client, rawURL string, limit int64, service string) (Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return Response{}, err
	}
	return do(client, req, limit, service)
}

// PostJSON sends body as application/json.
func PostJSON(ctx context.Context, client *http.Client, rawURL string, body []byte, limit int64, service string) (Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL, bytes.NewReader(body))
	if err != nil {
		return Response{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	return do(client, req, limit, service)
}

func do(client *http.Client, req *http.Request, limit int64, service string) (Response, error) {
	req.Header.Set("User-Agent", config.OutboundUserAgent)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	start := time.Now()
	defer func() {
		metrics.CaptureExecutionMetrics(service, time.Since(start))
	}()

	resp, err := client.Do(req)
	if err != nil {
		return Response{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return Response{}, &StatusError{StatusCode: resp.StatusCode, URL: req.URL.Redacted()}
	}
	if limit > 0 && resp.ContentLength > limit {
		return Response{}, ErrTooLarge
	}

	reader := resp.Body
	if limit > 0 {
		reader = io.NopCloser(io.LimitReader(resp.Body, limit+1))
	}
	body, err := io.ReadAll(reader)
	if err != nil {
		return Response{}, fmt.Errorf("read body: %w", err)
	}
	if limit > 0 && int64(len(body)) > limit {
		return Response{}, ErrTooLarge
	}
	return Response{
		Body:        body,
		ContentType: resp.Header.Get("Content-Type"),
		FinalURL:    resp.Request.URL,
	}, nil
}
