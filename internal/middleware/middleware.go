package middleware

import (
	"net/http"
	"strconv"

	"github.com/akolanti/ContentAPI/internal/handlers"
	"github.com/akolanti/ContentAPI/internal/metrics"
	"github.com/akolanti/ContentAPI/pkg/logger_i"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

type requestResponseStruct struct {
	writer     http.ResponseWriter
	req        *http.Request
	badRequest failureStruct
	logger     *logger_i.Logger
}

type failureStruct struct {
	isBadRequest bool
	httpCode     int
	errorMessage string
}

var GetHandler = Wrap(handlers.GetHandler)
var RootHandler = Wrap(handlers.RootHandler)

var UploadPDFHandler = Wrap(handlers.UploadPDFHandler)
var UploadContentHandler = Wrap(handlers.UploadContentHandler)
var YouTubeTranscriptHandler = Wrap(handlers.YouTubeTranscriptHandler)

var GetContentHandler = Wrap(handlers.GetContentHandler)
var GetPageHandler = Wrap(handlers.GetPageHandler)
var GetSummaryHandler = Wrap(handlers.GetSummaryHandler)
var GetTopicExtractorHandler = Wrap(handlers.GetTopicExtractorHandler)
var GetTranscriptHandler = Wrap(handlers.GetTranscriptHandler)
var GetPDFHandler = Wrap(handlers.GetPDFHandler)
var DeleteContentHandler = Wrap(handlers.DeleteContentHandler)

var GetStatusHandler = Wrap(handlers.GetStatusHandler)

// Cors lets the learning frontend call the api from the browser.
func Cors(allowedOrigins []string) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "HEAD", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"X-Trace-Id", "Content-Disposition"},
		AllowCredentials: true,
	})
}

func Wrap(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec := &metrics.HttpStatusRecorder{ResponseWriter: w, Status: 200} //metrics
		re := processRequest(requestResponseStruct{req: r, writer: rec})

		if re.badRequest.isBadRequest {
			handleBadRequest(re)
			metrics.HttpRequestsTotal.WithLabelValues(routePattern(r), strconv.Itoa(rec.Status)).Inc()
			return
		}
		next(rec, re.req)

		metrics.HttpRequestsTotal.WithLabelValues(routePattern(re.req), strconv.Itoa(rec.Status)).Inc() //metrics
	}
}

// routePattern keeps content ids out of the metric labels.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return r.URL.Path
}

func processRequest(re requestResponseStruct) requestResponseStruct {
	re.logger = logger_i.NewLogger("middleware")
	re.logger.Info("New request received")
	re = injectTrace(re)
	if re.badRequest.isBadRequest {
		return re
	}
	return rateLimiter(re)
}
