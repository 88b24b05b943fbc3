package youtube

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"html"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/akolanti/ContentAPI/internal/customHttpClient"
	"github.com/akolanti/ContentAPI/internal/domain/contentModel"
	"github.com/akolanti/ContentAPI/pkg/logger_i"
	"github.com/tidwall/gjson"
)

const (
	DefaultBaseURL = "https://www.youtube.com"

	serviceName   = "youtube"
	maxPageBytes  = 8 << 20
	clientName    = "ANDROID"
	clientVersion = "20.10.38"
)

var (
	apiKeyPattern = regexp.MustCompile(`"INNERTUBE_API_KEY":\s*"([a-zA-Z0-9_-]+)"`)
	tagPattern    = regexp.MustCompile(`<[^>]*>`)
)

// TranscriptFetcher returns the raw transcript text of a video.
type TranscriptFetcher interface {
	Fetch(ctx context.Context, videoID string) (string, error)
}

// HTTPTranscriptFetcher reads caption tracks the way the web player does:
// watch page for the api key, player endpoint for the track list, then the
// timedtext document of the chosen track.
type HTTPTranscriptFetcher struct {
	client  *http.Client
	baseURL string
	logger  *logger_i.Logger
}

func NewTranscriptFetcher(client *http.Client, baseURL string, logger *logger_i.Logger) *HTTPTranscriptFetcher {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &HTTPTranscriptFetcher{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
	}
}

type captionTrack struct {
	BaseURL      string
	LanguageCode string
	Generated    bool
}

func (f *HTTPTranscriptFetcher) Fetch(ctx context.Context, videoID string) (string, error) {
	log := f.logger.WithTrace(ctx).With("videoId", videoID)

	key, err := f.apiKey(ctx, videoID)
	if err != nil {
		return "", err
	}
	tracks, err := f.captionTracks(ctx, videoID, key)
	if err != nil {
		return "", err
	}
	track := pickTrack(tracks)
	log.Debug("selected caption track", "language", track.LanguageCode, "generated", track.Generated)

	text, err := f.timedText(ctx, track.BaseURL)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", contentModel.NoTranscript(videoID, contentModel.TranscriptNotFound)
	}
	return text, nil
}

func (f *HTTPTranscriptFetcher) apiKey(ctx context.Context, videoID string) (string, error) {
	watch := f.baseURL + "/watch?v=" + url.QueryEscape(videoID)
	resp, err := customHttpClient.Get(ctx, f.client, watch, maxPageBytes, serviceName)
	if err != nil {
		var statusErr *customHttpClient.StatusError
		if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound {
			return "", contentModel.NoTranscript(videoID, contentModel.TranscriptUnavailable)
		}
		return "", fmt.Errorf("fetch watch page: %w", err)
	}
	m := apiKeyPattern.FindSubmatch(resp.Body)
	if m == nil {
		if strings.Contains(string(resp.Body), `class="g-recaptcha"`) {
			return "", errors.New("youtube is rate limiting requests from this address")
		}
		return "", contentModel.NoTranscript(videoID, contentModel.TranscriptUnavailable)
	}
	return string(m[1]), nil
}

func (f *HTTPTranscriptFetcher) captionTracks(ctx context.Context, videoID, key string) ([]captionTrack, error) {
	body, err := json.Marshal(map[string]any{
		"context": map[string]any{
			"client": map[string]string{
				"clientName":    clientName,
				"clientVersion": clientVersion,
			},
		},
		"videoId": videoID,
	})
	if err != nil {
		return nil, err
	}
	player := f.baseURL + "/youtubei/v1/player?key=" + url.QueryEscape(key)
	resp, err := customHttpClient.PostJSON(ctx, f.client, player, body, maxPageBytes, serviceName)
	if err != nil {
		return nil, fmt.Errorf("fetch player data: %w", err)
	}
	if !gjson.ValidBytes(resp.Body) {
		return nil, errors.New("player response is not json")
	}
	data := gjson.ParseBytes(resp.Body)

	if status := data.Get("playabilityStatus.status").String(); status != "" && status != "OK" {
		f.logger.WithTrace(ctx).Info("video not playable", "videoId", videoID, "status", status,
			"reason", data.Get("playabilityStatus.reason").String())
		return nil, contentModel.NoTranscript(videoID, contentModel.TranscriptUnavailable)
	}

	renderer := data.Get("captions.playerCaptionsTracklistRenderer")
	if !renderer.Exists() {
		return nil, contentModel.NoTranscript(videoID, contentModel.TranscriptDisabled)
	}

	var tracks []captionTrack
	renderer.Get("captionTracks").ForEach(func(_, t gjson.Result) bool {
		base := t.Get("baseUrl").String()
		if base == "" {
			return true
		}
		tracks = append(tracks, captionTrack{
			BaseURL:      strings.Replace(base, "&fmt=srv3", "", 1),
			LanguageCode: t.Get("languageCode").String(),
			Generated:    t.Get("kind").String() == "asr",
		})
		return true
	})
	if len(tracks) == 0 {
		return nil, contentModel.NoTranscript(videoID, contentModel.TranscriptNotFound)
	}
	return tracks, nil
}

// pickTrack prefers manual English, then any English, then the first track.
func pickTrack(tracks []captionTrack) captionTrack {
	isEnglish := func(t captionTrack) bool {
		return t.LanguageCode == "en" || strings.HasPrefix(t.LanguageCode, "en-")
	}
	for _, t := range tracks {
		if isEnglish(t) && !t.Generated {
			return t
		}
	}
	for _, t := range tracks {
		if isEnglish(t) {
			return t
		}
	}
	return tracks[0]
}

type timedTextDoc struct {
	Texts []struct {
		Body string `xml:",chardata"`
	} `xml:"text"`
}

func (f *HTTPTranscriptFetcher) timedText(ctx context.Context, trackURL string) (string, error) {
	resp, err := customHttpClient.Get(ctx, f.client, trackURL, maxPageBytes, serviceName)
	if err != nil {
		return "", fmt.Errorf("fetch captions: %w", err)
	}
	var doc timedTextDoc
	if err := xml.Unmarshal(resp.Body, &doc); err != nil {
		return "", fmt.Errorf("parse captions: %w", err)
	}

	var b strings.Builder
	for _, t := range doc.Texts {
		snippet := tagPattern.ReplaceAllString(html.UnescapeString(t.Body), "")
		if snippet == "" {
			continue
		}
		b.WriteByte(' ')
		b.WriteString(snippet)
	}
	return b.String(), nil
}
