package web

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"currency-converter/internal/core"
	"currency-converter/internal/logging"

	"github.com/go-chi/chi/v5"
)

// convertResponse is the JSON body for POST /convert.
type convertResponse struct {
	Success       bool                  `json:"success"`
	Type          string                `json:"type,omitempty"`
	Message       string                `json:"message,omitempty"`
	Stats         *core.ProcessingStats `json:"stats,omitempty"`
	DownloadToken string                `json:"downloadToken,omitempty"`
}

// writeFailure writes an error response in the convert payload shape.
func writeFailure(w http.ResponseWriter, status int, errType, message string) {
	writeJSON(w, status, convertResponse{
		Success: false,
		Type:    errType,
		Message: message,
	})
}

// handleIndex serves the embedded landing page.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	page, err := staticFiles.ReadFile("static/index.html")
	if err != nil {
		http.Error(w, "page not available", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(page)
}

// handleConvert accepts a multipart form with a csv_file plus
// baseCurrency/targetCurrency fields, runs the conversion pipeline, and
// returns the processing summary with a download token.
func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	logger := logging.FromContext(r.Context())

	maxSize := s.cfg.Convert.MaxFileSize
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)

	if err := r.ParseMultipartForm(maxSize); err != nil {
		writeFailure(w, http.StatusBadRequest, "VALIDATION_ERROR", "file too large or invalid form")
		return
	}

	base := r.FormValue("baseCurrency")
	target := r.FormValue("targetCurrency")
	if base == "" || target == "" {
		writeFailure(w, http.StatusBadRequest, "VALIDATION_ERROR", "baseCurrency and targetCurrency are required")
		return
	}

	file, header, err := r.FormFile("csv_file")
	if err != nil {
		writeFailure(w, http.StatusBadRequest, "VALIDATION_ERROR", "no CSV file provided")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		logger.Error("read upload failed", "error", err)
		writeFailure(w, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to read uploaded file")
		return
	}

	logger.Info("conversion requested",
		"file", header.Filename,
		"size", header.Size,
		"base", base,
		"target", target,
	)

	result, err := s.service.Convert(r.Context(), data, base, target)
	if err != nil {
		var vErr *core.ValidationError
		switch {
		case errors.As(err, &vErr):
			writeFailure(w, http.StatusBadRequest, "VALIDATION_ERROR", vErr.Message)
		case errors.Is(err, core.ErrTooManyConversions):
			w.Header().Set("Retry-After", "10")
			writeFailure(w, http.StatusTooManyRequests, "BUSY", err.Error())
		default:
			logger.Error("conversion failed", "error", err)
			writeFailure(w, http.StatusInternalServerError, "INTERNAL_ERROR", "conversion failed")
		}
		return
	}

	writeJSON(w, http.StatusOK, convertResponse{
		Success:       true,
		Message:       "File processed successfully",
		Stats:         &result.Stats,
		DownloadToken: result.DownloadToken,
	})
}

// handleDownload serves a converted CSV as an attachment. Artifacts are
// single-use: the token is invalid after the first download.
func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	if token == "" {
		writeFailure(w, http.StatusBadRequest, "VALIDATION_ERROR", "missing download token")
		return
	}

	art, ok := s.service.TakeArtifact(token)
	if !ok {
		writeFailure(w, http.StatusNotFound, "NOT_FOUND", "download not found or expired")
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+art.Name+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(art.Data)))
	w.Write(art.Data)
}
