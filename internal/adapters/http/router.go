package httpadapter

import (
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/scansafe/scansafe/internal/core/ports"
	"github.com/scansafe/scansafe/internal/observability/metrics"
)

const (
	serviceName    = "api"
	maxUploadBytes = 20 << 20
)

type Router struct {
	scanUC    ports.ScanService
	historyUC ports.HistoryService
	repo      ports.ScanRepository

	apiKey       string
	uploadDir    string
	filesHandler http.Handler
	httpMetrics  *metrics.HTTPServerMetrics
}

func NewRouter(
	scanUC ports.ScanService,
	historyUC ports.HistoryService,
	repo ports.ScanRepository,
	apiKey string,
	uploadDir string,
	filesHandler http.Handler,
	httpMetrics *metrics.HTTPServerMetrics,
) *Router {
	return &Router{
		scanUC:       scanUC,
		historyUC:    historyUC,
		repo:         repo,
		apiKey:       apiKey,
		uploadDir:    uploadDir,
		filesHandler: filesHandler,
		httpMetrics:  httpMetrics,
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", rt.healthz)
	mux.HandleFunc("/v1/scans", rt.apiKeyMiddleware(rt.scans))
	mux.HandleFunc("/v1/scans/", rt.apiKeyMiddleware(rt.getScanByID))
	if rt.filesHandler != nil {
		mux.Handle("/files/", http.StripPrefix("/files/", rt.filesHandler))
	}

	var handler http.Handler = mux
	if rt.httpMetrics != nil {
		mux.Handle("/metrics", rt.httpMetrics.Handler())
		handler = rt.httpMetrics.Middleware(serviceName, handler)
	}
	return requestIDMiddleware(accessLogMiddleware(handler))
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (rt *Router) scans(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		rt.submitScan(w, r)
	case http.MethodGet:
		rt.listScans(w, r)
	default:
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
	}
}

func (rt *Router) submitScan(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	file, fileHeader, err := r.FormFile("image")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "multipart field 'image' is required"})
		return
	}
	defer file.Close()

	localPath, err := rt.spoolUpload(file, fileHeader.Filename)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "could not store upload"})
		return
	}
	defer os.Remove(localPath)

	start := time.Now()
	details := rt.scanUC.ScanProduct(r.Context(), userIDFromRequest(r), localPath)
	if rt.httpMetrics != nil {
		rt.httpMetrics.RecordScan(serviceName, details.RecallInfo.IsRecalled, time.Since(start))
	}
	writeJSON(w, http.StatusCreated, details)
}

func (rt *Router) listScans(w http.ResponseWriter, r *http.Request) {
	scans := rt.historyUC.List(r.Context(), userIDFromRequest(r))
	if rt.httpMetrics != nil {
		rt.httpMetrics.RecordHistoryListing(serviceName, len(scans))
	}
	writeJSON(w, http.StatusOK, scans)
}

func (rt *Router) getScanByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/v1/scans/")
	if id == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "scan id is required"})
		return
	}

	details, err := rt.repo.GetByID(r.Context(), id)
	if err != nil {
		writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, details)
}

// spoolUpload copies the multipart payload to a temp file so the analysis
// pipeline can work from a plain path.
func (rt *Router) spoolUpload(src io.Reader, originalName string) (string, error) {
	ext := filepath.Ext(originalName)
	if ext == "" {
		ext = ".jpg"
	}

	tmp, err := os.CreateTemp(rt.uploadDir, "upload-*"+ext)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(tmp, src); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", err
	}
	return tmp.Name(), nil
}

func userIDFromRequest(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get("X-User-Id"))
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
