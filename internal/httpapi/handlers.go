// Package httpapi exposes the conversion pipeline over HTTP.
package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/boolchand/esl-sync/internal/convert"
	"github.com/boolchand/esl-sync/internal/esl"
	"github.com/boolchand/esl-sync/internal/sheet"
	"github.com/boolchand/esl-sync/internal/version"
)

const xlsxMIME = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Handler handles HTTP requests.
type Handler struct {
	svc            *convert.Service
	log            *zap.Logger
	maxUploadBytes int64
	csvEncoding    string
}

// NewHandler creates a handler around the conversion service.
func NewHandler(svc *convert.Service, log *zap.Logger, maxUploadBytes int64, csvEncoding string) *Handler {
	return &Handler{
		svc:            svc,
		log:            log,
		maxUploadBytes: maxUploadBytes,
		csvEncoding:    csvEncoding,
	}
}

type convertResponse struct {
	Status       int            `json:"status"`
	ConversionID string         `json:"conversion_id"`
	TotalItems   int            `json:"total_items"`
	TotalRows    int            `json:"total_rows"`
	RowsSkipped  int            `json:"rows_skipped"`
	Skipped      []convert.Skip `json:"skipped,omitempty"`
	Result       *esl.Report    `json:"result"`
	LocalFileURL string         `json:"local_file_url"`
}

// Convert handles POST /convert: multipart upload in, consolidated report out.
// Input problems are plain-text 400s; anything unexpected is logged in full
// and surfaced as a short 500.
func (h *Handler) Convert(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "No file uploaded", http.StatusBadRequest)
		return
	}
	defer file.Close()

	if header.Filename == "" {
		http.Error(w, "Empty filename", http.StatusBadRequest)
		return
	}

	rows, err := sheet.ReadRows(file, header.Filename, sheet.Options{CSVEncoding: h.csvEncoding})
	if err != nil {
		if errors.Is(err, sheet.ErrUnsupportedFormat) {
			http.Error(w, "Unsupported file format", http.StatusBadRequest)
			return
		}
		h.log.Warn("cannot decode upload", zap.String("filename", header.Filename), zap.Error(err))
		http.Error(w, fmt.Sprintf("Cannot read file: %v", err), http.StatusBadRequest)
		return
	}

	result, err := h.svc.Convert(r.Context(), rows)
	if err != nil {
		if errors.Is(err, convert.ErrNoValidItems) {
			http.Error(w, "No valid items found.", http.StatusBadRequest)
			return
		}
		h.log.Error("conversion failed", zap.String("filename", header.Filename), zap.Error(err))
		http.Error(w, fmt.Sprintf("Error: %v", err), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, convertResponse{
		Status:       http.StatusOK,
		ConversionID: result.ConversionID,
		TotalItems:   result.TotalItems,
		TotalRows:    result.TotalRows,
		RowsSkipped:  len(result.Skipped),
		Skipped:      result.Skipped,
		Result:       result.Report,
		LocalFileURL: "/download_last_xlsx",
	})
}

// DownloadLast handles GET /download_last_xlsx: serves the most recently
// mapped workbook as an attachment.
func (h *Handler) DownloadLast(w http.ResponseWriter, r *http.Request) {
	path := h.svc.OutputPath()
	if _, err := os.Stat(path); err != nil {
		http.Error(w, filepath.Base(path)+" not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", xlsxMIME)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filepath.Base(path)))
	http.ServeFile(w, r, path)
}

// Home handles GET /: trivial liveness text.
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintln(w, "ESL Update Service is Running")
}

// Version handles GET /version.
func (h *Handler) Version(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, version.Info())
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
