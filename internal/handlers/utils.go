package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/akolanti/ContentAPI/internal/adapter"
	"github.com/akolanti/ContentAPI/internal/api"
	"github.com/akolanti/ContentAPI/internal/data/store"
	"github.com/akolanti/ContentAPI/internal/domain/contentModel"
	"github.com/akolanti/ContentAPI/pkg/logger_i"
)

func writeJsonResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but can't send a clean status code now
		logRH.Error("Error encoding response", "error", err)
	}
}

func writeSuccess(w http.ResponseWriter, message string, data any) {
	writeJsonResponse(w, http.StatusOK, api.Envelope{Success: true, Message: message, Data: data})
}

func WriteErrorResponse(w http.ResponseWriter, httpCode int, detail string) {
	writeJsonResponse(w, httpCode, adapter.BadRequest(detail, httpCode))
}

// writeServiceError maps a content error onto its status code. Errors without
// a kind are reported as 500 with prefix in front of the cause.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, prefix string) {
	log := requestLogger(r)
	kind := contentModel.KindOf(err)

	switch {
	case errors.Is(err, store.ErrInvalidRecord):
		log.Error("stored record is unreadable", "error", err)
		WriteErrorResponse(w, http.StatusInternalServerError, "Invalid data file format")
	case kind == contentModel.KindSizeLimitExceeded:
		WriteErrorResponse(w, http.StatusBadRequest, "Document too large: "+err.Error())
	case kind == contentModel.KindInvalidInput, kind == contentModel.KindNotFound, kind == contentModel.KindNoTranscript:
		log.Warn(prefix, "error", err)
		WriteErrorResponse(w, kind.HTTPStatus(), err.Error())
	default:
		log.Error(prefix, "error", err)
		WriteErrorResponse(w, http.StatusInternalServerError, prefix+": "+err.Error())
	}
}

func validateContext(ctx context.Context) bool {
	if ctx.Err() != nil {
		logRH.Warn("context error", "error", ctx.Err())
		return false
	}

	select {
	case <-ctx.Done():
		logRH.Warn("context cancelled")
		return false
	default:
		return true
	}
}

func requestLogger(r *http.Request) *logger_i.Logger {
	return logRH.WithTrace(r.Context()).With("path", r.URL.Path)
}

