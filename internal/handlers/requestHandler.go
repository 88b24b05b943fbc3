package handlers

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"os"
	"strconv"

	"github.com/akolanti/ContentAPI/internal/adapter"
	"github.com/akolanti/ContentAPI/internal/adapter/utils"
	"github.com/akolanti/ContentAPI/internal/api"
	"github.com/akolanti/ContentAPI/internal/config"
	"github.com/akolanti/ContentAPI/internal/content"
	"github.com/akolanti/ContentAPI/internal/domain/contentModel"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// multipart framing on top of the file itself
const multipartOverhead = 1 << 20

var titleCaser = cases.Title(language.English)

func GetHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// RootHandler godoc
// @Summary      Liveness message
// @Tags         Health
// @Produce      json
// @Success      200  {object}  api.StatusMessage
// @Router       / [get]
func RootHandler(w http.ResponseWriter, r *http.Request) {
	writeJsonResponse(w, http.StatusOK, api.StatusMessage{Message: "Vibe Learning Content API is running!"})
}

// UploadPDFHandler godoc
// @Summary      Upload and process a PDF
// @Description  Stores the file, extracts text and images page by page and persists the record.
// @Tags         Ingestion
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "PDF file, at most 50MB"
// @Success      200  {object}  api.Envelope{data=api.UploadSummary}   "Processed"
// @Success      200  {object}  api.Envelope{data=api.DegradedUpload}  "Stored but processing failed (success=false)"
// @Failure      400  {object}  api.ErrorResponse
// @Failure      500  {object}  api.ErrorResponse
// @Router       /upload-pdf [post]
func UploadPDFHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		logRH.Warn("Invalid Context by request ", "remote", r.RemoteAddr)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, config.MaxUploadBytes+multipartOverhead)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			WriteErrorResponse(w, http.StatusBadRequest, "File size exceeds 50MB limit")
			return
		}
		WriteErrorResponse(w, http.StatusBadRequest, "Could not read multipart form")
		return
	}
	defer r.MultipartForm.RemoveAll()

	fileReader, fileMetadata, err := r.FormFile("file")
	if err != nil {
		WriteErrorResponse(w, http.StatusBadRequest, "Could not retrieve file")
		return
	}
	defer fileReader.Close()

	data, err := io.ReadAll(io.LimitReader(fileReader, config.MaxUploadBytes+1))
	if err != nil {
		writeServiceError(w, r, err, "Error uploading PDF")
		return
	}

	res, err := handlerInstance.service.UploadPDF(r.Context(), fileMetadata.Filename, data)
	if err != nil {
		writeServiceError(w, r, err, "Error uploading PDF")
		return
	}
	writePDFResult(w, res, contentModel.PDFFile, "PDF uploaded and processed successfully")
}

func writePDFResult(w http.ResponseWriter, res content.PDFResult, ct contentModel.ContentType, message string) {
	if res.Failure != nil {
		degraded := adapter.ToDegradedUpload(res)
		degraded.ContentType = ct
		writeJsonResponse(w, http.StatusOK, api.Envelope{
			Success: false,
			Message: "PDF uploaded but processing failed: " + res.Failure.Error(),
			Data:    degraded,
		})
		return
	}
	summary := adapter.ToUploadSummary(res)
	summary.ContentType = ct
	writeSuccess(w, message, summary)
}

// UploadContentHandler godoc
// @Summary      Ingest content by url
// @Description  pdf-link downloads and processes the PDF, youtube stores the transcript, website stores the readable text.
// @Tags         Ingestion
// @Accept       x-www-form-urlencoded
// @Produce      json
// @Param        url           formData  string  true  "Content url"
// @Param        content_type  formData  string  true  "pdf-link, youtube or website"
// @Success      200  {object}  api.Envelope
// @Failure      400  {object}  api.ErrorResponse
// @Failure      404  {object}  api.ErrorResponse
// @Failure      500  {object}  api.ErrorResponse
// @Router       /upload-content [post]
func UploadContentHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		logRH.Warn("Invalid Context by request ", "remote", r.RemoteAddr)
		return
	}
	contentType := r.FormValue("content_type")
	rawURL := r.FormValue("url")

	res, err := handlerInstance.service.IngestURL(r.Context(), contentType, rawURL)
	if err != nil {
		writeServiceError(w, r, err, "Error receiving content")
		return
	}
	requestLogger(r).Info("Received content", "contentType", contentType, "url", rawURL)

	message := titleCaser.String(contentType) + " received successfully"
	if res.ContentType == contentModel.PDFLink {
		writePDFResult(w, res.PDF, contentModel.PDFLink, message)
		return
	}
	svc := handlerInstance.service
	writeSuccess(w, message, adapter.ToTextContentSummary(res.Record, svc.DataFile(res.Record.ContentID)))
}

// YouTubeTranscriptHandler godoc
// @Summary      Extract a YouTube transcript
// @Tags         Ingestion
// @Accept       x-www-form-urlencoded
// @Produce      json
// @Param        url  formData  string  true  "YouTube video url"
// @Success      200  {object}  api.Envelope{data=api.TextContentSummary}
// @Failure      400  {object}  api.ErrorResponse
// @Failure      404  {object}  api.ErrorResponse  "No transcript"
// @Failure      500  {object}  api.ErrorResponse
// @Router       /youtube-transcript [post]
func YouTubeTranscriptHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		logRH.Warn("Invalid Context by request ", "remote", r.RemoteAddr)
		return
	}
	rec, err := handlerInstance.service.YouTubeTranscript(r.Context(), r.FormValue("url"))
	if err != nil {
		writeServiceError(w, r, err, "Error extracting transcript")
		return
	}
	writeSuccess(w, "YouTube transcript extracted successfully",
		adapter.ToTextContentSummary(rec, handlerInstance.service.DataFile(rec.ContentID)))
}

// GetContentHandler godoc
// @Summary      Full content record
// @Tags         Content
// @Produce      json
// @Param        id   path      string  true  "Content ID"
// @Success      200  {object}  api.Envelope{data=contentModel.ContentRecord}
// @Failure      404  {object}  api.ErrorResponse
// @Router       /content/{id} [get]
func GetContentHandler(w http.ResponseWriter, r *http.Request) {
	rec, err := handlerInstance.service.Record(r.Context(), utils.GetChiURLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, err, "Error retrieving content")
		return
	}
	writeSuccess(w, "", rec)
}

// GetPageHandler godoc
// @Summary      One page of a PDF record
// @Tags         Content
// @Produce      json
// @Param        id    path      string  true  "Content ID"
// @Param        page  path      int     true  "1-based page number"
// @Success      200  {object}  api.Envelope{data=contentModel.PageRecord}
// @Failure      400  {object}  api.ErrorResponse
// @Failure      404  {object}  api.ErrorResponse
// @Router       /content/{id}/page/{page} [get]
func GetPageHandler(w http.ResponseWriter, r *http.Request) {
	n, err := strconv.Atoi(utils.GetChiURLParam(r, "page"))
	if err != nil {
		WriteErrorResponse(w, http.StatusBadRequest, "Invalid page number")
		return
	}
	page, err := handlerInstance.service.Page(r.Context(), utils.GetChiURLParam(r, "id"), n)
	if err != nil {
		writeServiceError(w, r, err, "Error retrieving page content")
		return
	}
	writeSuccess(w, "", page)
}

// GetSummaryHandler godoc
// @Summary      Per page summary of a PDF record
// @Tags         Content
// @Produce      json
// @Param        id   path      string  true  "Content ID"
// @Success      200  {object}  api.Envelope{data=api.ContentSummary}
// @Failure      404  {object}  api.ErrorResponse
// @Router       /content/{id}/summary [get]
func GetSummaryHandler(w http.ResponseWriter, r *http.Request) {
	rec, err := handlerInstance.service.Record(r.Context(), utils.GetChiURLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, err, "Error retrieving content summary")
		return
	}
	writeSuccess(w, "", adapter.ToContentSummary(rec))
}

// GetTopicExtractorHandler godoc
// @Summary      Page texts for the topic extractor
// @Tags         Content
// @Produce      json
// @Param        id     path   string  true   "Content ID"
// @Param        clean  query  bool    false  "Normalize the page text"
// @Success      200  {object}  api.Envelope{data=api.TopicExtractorFormat}
// @Failure      404  {object}  api.ErrorResponse
// @Router       /content/{id}/topic-extractor-format [get]
func GetTopicExtractorHandler(w http.ResponseWriter, r *http.Request) {
	rec, err := handlerInstance.service.Record(r.Context(), utils.GetChiURLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, err, "Error formatting content")
		return
	}
	clean, _ := strconv.ParseBool(r.URL.Query().Get("clean"))
	writeSuccess(w, "", adapter.ToTopicExtractorFormat(rec, clean))
}

// GetTranscriptHandler godoc
// @Summary      Full transcript of a YouTube record
// @Tags         Content
// @Produce      json
// @Param        id   path      string  true  "Content ID"
// @Success      200  {object}  api.Envelope{data=api.TranscriptData}
// @Failure      400  {object}  api.ErrorResponse  "Not a YouTube record"
// @Failure      404  {object}  api.ErrorResponse
// @Router       /content/{id}/transcript [get]
func GetTranscriptHandler(w http.ResponseWriter, r *http.Request) {
	rec, err := handlerInstance.service.Transcript(r.Context(), utils.GetChiURLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, err, "Error retrieving transcript")
		return
	}
	writeSuccess(w, "", adapter.ToTranscriptData(rec))
}

// GetPDFHandler godoc
// @Summary      Download the stored PDF
// @Tags         Content
// @Produce      application/pdf
// @Param        id   path      string  true  "Content ID"
// @Success      200  {file}    file
// @Failure      404  {object}  api.ErrorResponse
// @Router       /pdf/{id} [get]
func GetPDFHandler(w http.ResponseWriter, r *http.Request) {
	log := requestLogger(r)
	id := utils.GetChiURLParam(r, "id")
	path, name, err := handlerInstance.service.Source(id)
	if err != nil {
		writeServiceError(w, r, err, "Error serving PDF")
		return
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			WriteErrorResponse(w, http.StatusNotFound, "PDF file not found")
			return
		}
		writeServiceError(w, r, err, "Error serving PDF")
		return
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		writeServiceError(w, r, err, "Error serving PDF")
		return
	}

	log.Info("Serving PDF file", "contentId", id, "file", path)
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	http.ServeContent(w, r, name, info.ModTime(), f)
}

// DeleteContentHandler godoc
// @Summary      Delete every artifact of a content id
// @Description  Idempotent; deleted_items is empty when nothing existed.
// @Tags         Content
// @Produce      json
// @Param        id   path      string  true  "Content ID"
// @Success      200  {object}  api.DeleteResponse
// @Failure      500  {object}  api.ErrorResponse
// @Router       /content/{id} [delete]
func DeleteContentHandler(w http.ResponseWriter, r *http.Request) {
	removed, err := handlerInstance.service.Delete(r.Context(), utils.GetChiURLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, err, "Error deleting content")
		return
	}
	writeJsonResponse(w, http.StatusOK, api.DeleteResponse{
		Success:      true,
		Message:      "Content deleted successfully",
		DeletedItems: removed,
	})
}

// GetStatusHandler godoc
// @Summary      Get ingestion job status
// @Description  Retrieves the current status of an ingestion job; the job id is the content id.
// @Tags         Job Status
// @Produce      json
// @Param        id   path      string  true  "Job ID"
// @Success      200  {object}  api.JobResponse
// @Failure      404  {object}  api.ErrorResponse  "Job not found"
// @Router       /status/{id} [get]
func GetStatusHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}
	idString := utils.GetChiURLParam(r, "id")
	logRH.Debug("Get Status Request:", "URL path", r.URL.Path)

	result, isFound := handlerInstance.service.JobStatus(r.Context(), idString)
	if !isFound {
		WriteErrorResponse(w, http.StatusNotFound, "Job not found")
		return
	}
	writeJsonResponse(w, http.StatusOK, adapter.ToAPIResponse(result))
}
