package contentModel

import (
	"errors"
	"fmt"
	"net/http"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

type ErrorKind string

const (
	KindInvalidInput      ErrorKind = "invalid_input"
	KindSizeLimitExceeded ErrorKind = "size_limit_exceeded"
	KindProcessingFailed  ErrorKind = "processing_failed"
	KindNotFound          ErrorKind = "not_found"
	KindNoTranscript      ErrorKind = "no_transcript"
)

// HTTPStatus is the response code for an error of this kind. Upload
// handlers answer ProcessingFailed with a degraded 200 instead.
func (k ErrorKind) HTTPStatus() int {
	switch k {
	case KindInvalidInput, KindSizeLimitExceeded:
		return http.StatusBadRequest
	case KindNotFound, KindNoTranscript:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

var ErrPageOutOfRange = errors.New("page number out of range")

// ContentError carries the kind a caller branches on.
type ContentError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *ContentError) Error() string {
	if e.Err != nil && e.Message == "" {
		return e.Err.Error()
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ContentError) Unwrap() error {
	return e.Err
}

func InvalidInput(message string) error {
	return &ContentError{Kind: KindInvalidInput, Message: message}
}

func NotFound(message string) error {
	return &ContentError{Kind: KindNotFound, Message: message}
}

// ProcessingFailed keeps the cause text as the message, the way it is shown to callers.
func ProcessingFailed(err error) error {
	return &ContentError{Kind: KindProcessingFailed, Err: err}
}

// SizeLimitExceededError reports the measured character total against the limit.
type SizeLimitExceededError struct {
	Total int
	Limit int
}

var numberPrinter = message.NewPrinter(language.English)

func (e *SizeLimitExceededError) Error() string {
	return numberPrinter.Sprintf("Document exceeds %d character limit (%d characters). Please use a smaller document.", e.Limit, e.Total)
}

func SizeLimitExceeded(total, limit int) error {
	return &ContentError{Kind: KindSizeLimitExceeded, Err: &SizeLimitExceededError{Total: total, Limit: limit}}
}

type TranscriptCause string

const (
	TranscriptDisabled    TranscriptCause = "disabled"
	TranscriptUnavailable TranscriptCause = "unavailable"
	TranscriptNotFound    TranscriptCause = "not_found"
)

// NoTranscriptError distinguishes why a video has no usable transcript.
type NoTranscriptError struct {
	VideoID string
	Cause   TranscriptCause
}

func (e *NoTranscriptError) Error() string {
	switch e.Cause {
	case TranscriptDisabled:
		return "Transcripts are disabled for this video."
	case TranscriptUnavailable:
		return "Video not found or unavailable. Please check the URL."
	default:
		return "No transcript available for this video. The video may not have captions or transcripts enabled."
	}
}

func NoTranscript(videoID string, cause TranscriptCause) error {
	return &ContentError{Kind: KindNoTranscript, Err: &NoTranscriptError{VideoID: videoID, Cause: cause}}
}

// KindOf returns the kind of the first ContentError in the chain, or "" if none.
func KindOf(err error) ErrorKind {
	var ce *ContentError
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return ""
}

func IsKind(err error, kind ErrorKind) bool {
	return KindOf(err) == kind
}
