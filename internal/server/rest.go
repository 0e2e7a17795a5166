package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/amityadav/searchagg/internal/config"
	"github.com/amityadav/searchagg/internal/export"
	"github.com/amityadav/searchagg/internal/search"
)

// Request body limits
const (
	maxQueryBytes  = 64 << 10
	maxExportBytes = 10 << 20
)

// Searcher runs the aggregation pipeline for one query
type Searcher interface {
	Search(ctx context.Context, query search.Query) ([]search.Result, error)
	Providers() int
}

// Services groups all service dependencies for HTTP handlers
type Services struct {
	Searcher Searcher
}

// ExportData is the request body of the export endpoints
type ExportData struct {
	Results []search.Result `json:"results"`
}

// CreateRESTHandler creates the search, export and streaming endpoints
func CreateRESTHandler(services Services, cfg config.Config) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
		handleSearch(w, r, services.Searcher)
	})
	mux.HandleFunc("/export_pdf", func(w http.ResponseWriter, r *http.Request) {
		handleExport(w, r, "PDF", export.PDFContentType, export.PDFFilename, export.WritePDF)
	})
	mux.HandleFunc("/export_docx", func(w http.ResponseWriter, r *http.Request) {
		handleExport(w, r, "DOCX", export.DOCXContentType, export.DOCXFilename, export.WriteDOCX)
	})
	mux.Handle("/ws", NewWebSocketHandler(services.Searcher, cfg.CORSOrigins))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{"status": "ok", "providers": services.Searcher.Providers()})
	})

	if static := CreateStaticHandler(cfg.StaticDir); static != nil {
		mux.Handle("/static/", http.StripPrefix("/static/", static))
		mux.Handle("/", static)
	}
	return mux
}

func handleSearch(w http.ResponseWriter, r *http.Request, searcher Searcher) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxQueryBytes))
	if err != nil {
		writeBodyError(w, err, "failed to read body")
		return
	}
	query, err := search.ParseQuery(body)
	if err != nil {
		writeSearchError(w, err)
		return
	}

	results, err := searcher.Search(r.Context(), query)
	if err != nil {
		writeSearchError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, results)
}

type renderFunc func(w io.Writer, results []search.Result) error

func handleExport(w http.ResponseWriter, r *http.Request, format, contentType, filename string, render renderFunc) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var data ExportData
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxExportBytes)).Decode(&data); err != nil {
		writeBodyError(w, err, "malformed export body: "+err.Error())
		return
	}
	if data.Results == nil {
		writeError(w, http.StatusBadRequest, "results is required")
		return
	}

	log.Printf("[REST] Exporting %s for %d results", format, len(data.Results))

	var buf bytes.Buffer
	if err := render(&buf, data.Results); err != nil {
		log.Printf("[REST] Error exporting %s: %v", format, err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", "attachment; filename="+filename)
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

func writeBodyError(w http.ResponseWriter, err error, msg string) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit))
		return
	}
	writeError(w, http.StatusBadRequest, msg)
}

func writeSearchError(w http.ResponseWriter, err error) {
	var verr *search.ValidationError
	if errors.As(err, &verr) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	log.Printf("[REST] Search failed: %v", err)
	writeError(w, http.StatusInternalServerError, err.Error())
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[REST] Failed to encode response: %v", err)
	}
}
