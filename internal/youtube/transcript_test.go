package youtube

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/akolanti/ContentAPI/internal/domain/contentModel"
	"github.com/akolanti/ContentAPI/pkg/logger_i"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractVideoID(t *testing.T) {
	tests := []struct {
		url    string
		wantID string
		wantOK bool
	}{
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"https://youtu.be/dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"https://www.youtube.com/embed/dQw4w9WgXcQ?start=10", "dQw4w9WgXcQ", true},
		{"https://youtube.com/v/dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"https://www.youtube.com/watch?v=short", "", false},
		{"https://www.youtube.com/channel/UCabc", "", false},
		{"https://example.com/watch?v=dQw4w9WgXcQ", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			id, ok := ExtractVideoID(tt.url)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantID, id)
		})
	}
}

func TestNormalizeTranscript(t *testing.T) {
	assert.Equal(t, "hello world again", NormalizeTranscript("  hello\n\tworld   again "))
	assert.Equal(t, "", NormalizeTranscript(" \n "))
}

// fakeYouTube serves the three endpoints the fetcher talks to.
type fakeYouTube struct {
	watchBody  string
	playerBody func(base string) string
	captions   string
}

func (f *fakeYouTube) server(t *testing.T) *httptest.Server {
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/watch":
			_, _ = io.WriteString(w, f.watchBody)
		case "/youtubei/v1/player":
			assert.Equal(t, "KEY123", r.URL.Query().Get("key"))
			_, _ = io.WriteString(w, f.playerBody(srv.URL))
		case "/api/timedtext":
			assert.Empty(t, r.URL.Query().Get("fmt"))
			_, _ = io.WriteString(w, f.captions)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

const watchPage = `<html><script>ytcfg.set({"INNERTUBE_API_KEY": "KEY123"})</script></html>`

func tracksJSON(tracks ...string) func(string) string {
	return func(base string) string {
		items := make([]string, len(tracks))
		for i, tr := range tracks {
			items[i] = strings.ReplaceAll(tr, "BASE", base)
		}
		return fmt.Sprintf(`{"playabilityStatus":{"status":"OK"},"captions":{"playerCaptionsTracklistRenderer":{"captionTracks":[%s]}}}`, strings.Join(items, ","))
	}
}

func TestFetchTranscript(t *testing.T) {
	fake := &fakeYouTube{
		watchBody: watchPage,
		playerBody: tracksJSON(
			`{"baseUrl":"BASE/api/timedtext?lang=de","languageCode":"de"}`,
			`{"baseUrl":"BASE/api/timedtext?lang=en&kind=asr&fmt=srv3","languageCode":"en","kind":"asr"}`,
			`{"baseUrl":"BASE/api/timedtext?lang=en","languageCode":"en"}`,
		),
		captions: `<?xml version="1.0" encoding="utf-8" ?><transcript>` +
			`<text start="0" dur="1.5">Hello &amp;amp; welcome</text>` +
			`<text start="1.5" dur="2">to the &lt;b&gt;course&lt;/b&gt;</text>` +
			`<text start="3.5" dur="1"></text>` +
			`</transcript>`,
	}
	srv := fake.server(t)

	fetcher := NewTranscriptFetcher(srv.Client(), srv.URL, logger_i.Discard())
	text, err := fetcher.Fetch(context.Background(), "dQw4w9WgXcQ")
	require.NoError(t, err)
	assert.Equal(t, "Hello & welcome to the course", NormalizeTranscript(text))
}

func TestFetchTranscriptFailures(t *testing.T) {
	tests := []struct {
		name      string
		fake      fakeYouTube
		wantCause contentModel.TranscriptCause
	}{
		{
			name:      "captions disabled",
			fake:      fakeYouTube{watchBody: watchPage, playerBody: func(string) string { return `{"playabilityStatus":{"status":"OK"}}` }},
			wantCause: contentModel.TranscriptDisabled,
		},
		{
			name:      "no tracks",
			fake:      fakeYouTube{watchBody: watchPage, playerBody: tracksJSON()},
			wantCause: contentModel.TranscriptNotFound,
		},
		{
			name: "video unavailable",
			fake: fakeYouTube{watchBody: watchPage, playerBody: func(string) string {
				return `{"playabilityStatus":{"status":"ERROR","reason":"Video unavailable"}}`
			}},
			wantCause: contentModel.TranscriptUnavailable,
		},
		{
			name:      "no api key on watch page",
			fake:      fakeYouTube{watchBody: "<html></html>"},
			wantCause: contentModel.TranscriptUnavailable,
		},
		{
			name: "empty caption document",
			fake: fakeYouTube{
				watchBody:  watchPage,
				playerBody: tracksJSON(`{"baseUrl":"BASE/api/timedtext?lang=en","languageCode":"en"}`),
				captions:   `<transcript></transcript>`,
			},
			wantCause: contentModel.TranscriptNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := tt.fake.server(t)
			_, err := NewTranscriptFetcher(srv.Client(), srv.URL, logger_i.Discard()).Fetch(context.Background(), "dQw4w9WgXcQ")

			require.True(t, contentModel.IsKind(err, contentModel.KindNoTranscript), "err = %v", err)
			var nt *contentModel.NoTranscriptError
			require.True(t, errors.As(err, &nt))
			assert.Equal(t, tt.wantCause, nt.Cause)
			assert.Equal(t, "dQw4w9WgXcQ", nt.VideoID)
		})
	}
}

func TestPickTrack(t *testing.T) {
	tracks := []captionTrack{
		{LanguageCode: "fr"},
		{LanguageCode: "en-GB", Generated: true},
	}
	assert.Equal(t, "en-GB", pickTrack(tracks).LanguageCode)
	assert.Equal(t, "fr", pickTrack(tracks[:1]).LanguageCode)
}
