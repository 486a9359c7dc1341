// Package server implements the preview HTTP server using chi. It serves the
// sync output documents, cached assets, run history, and an SSE stream that
// notifies clients when documents change on disk.
package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Vikram2Agrawal/notion-sync/internal/journal"
	"github.com/Vikram2Agrawal/notion-sync/internal/syncer"
)

// Options configures the preview router.
type Options struct {
	CacheDir     string
	AssetsDir    string
	PublicPrefix string

	// Journal may be nil; the runs endpoint then reports an empty list.
	Journal *journal.DB

	// Events may be nil; the SSE endpoint is then not mounted.
	Events http.Handler
}

// NewRouter creates a chi router with all preview routes mounted.
func NewRouter(opts Options) chi.Router {
	h := &handler{
		cacheDir:  opts.CacheDir,
		journal:   opts.Journal,
		documents: make(map[string]struct{}),
	}
	for _, name := range syncer.DocumentNames() {
		h.documents[name] = struct{}{}
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints.
	r.Get("/health/live", healthOK)
	r.Get("/health/ready", healthOK)

	// Sync output documents.
	r.Get("/content/{document}", h.getDocument)

	// Run history.
	r.Get("/runs", h.listRuns)

	// Cached assets.
	if opts.PublicPrefix != "" && opts.AssetsDir != "" {
		fileServer := http.StripPrefix(opts.PublicPrefix, http.FileServer(http.Dir(opts.AssetsDir)))
		r.Get(opts.PublicPrefix+"/*", fileServer.ServeHTTP)
	}

	// SSE endpoint.
	if opts.Events != nil {
		r.Get("/events", opts.Events.ServeHTTP)
	}

	return r
}

func healthOK(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

type handler struct {
	cacheDir  string
	journal   *journal.DB
	documents map[string]struct{}
}

// getDocument handles GET /content/{document}. Only the known output
// documents are served; everything else is a 404 regardless of what sits in
// the cache directory.
func (h *handler) getDocument(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "document")
	if _, ok := h.documents[name]; !ok {
		writeJSON(w, http.StatusNotFound, errorBody("unknown document"))
		return
	}

	data, err := os.ReadFile(filepath.Join(h.cacheDir, name))
	if err != nil {
		if os.IsNotExist(err) {
			writeJSON(w, http.StatusNotFound, errorBody("document not yet synced"))
			return
		}
		slog.Error("read document failed", slog.String("document", name), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

type runResponse struct {
	ID            string `json:"id"`
	StartedAt     string `json:"startedAt"`
	FinishedAt    string `json:"finishedAt"`
	DurationMS    int64  `json:"durationMs"`
	Status        string `json:"status"`
	Organizations int    `json:"organizations"`
	Involvements  int    `json:"involvements"`
	Projects      int    `json:"projects"`
	Skills        int    `json:"skills"`
	AssetsCached  int    `json:"assetsCached"`
	Error         string `json:"error,omitempty"`
}

// listRuns handles GET /runs with an optional limit query parameter.
func (h *handler) listRuns(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 {
		limit = 20
	}

	items := []runResponse{}
	if h.journal != nil {
		runs, err := h.journal.Recent(limit)
		if err != nil {
			slog.Error("list runs failed", slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
			return
		}
		for _, run := range runs {
			items = append(items, runResponse{
				ID:            run.ID,
				StartedAt:     run.StartedAt.UTC().Format(time.RFC3339),
				FinishedAt:    run.FinishedAt.UTC().Format(time.RFC3339),
				DurationMS:    run.Duration().Milliseconds(),
				Status:        run.Status,
				Organizations: run.Organizations,
				Involvements:  run.Involvements,
				Projects:      run.Projects,
				Skills:        run.Skills,
				AssetsCached:  run.AssetsCached,
				Error:         run.Error,
			})
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"runs":  items,
		"total": len(items),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode failed", slog.String("error", err.Error()))
	}
}

type errResponse struct {
	Error string `json:"error"`
}

func errorBody(msg string) errResponse {
	return errResponse{Error: msg}
}
