package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Vikram2Agrawal/notion-sync/internal/journal"
)

// testEnv sets up a temp cache dir with one synced document and a router.
func testEnv(t *testing.T, db *journal.DB) (string, http.Handler) {
	t.Helper()

	cacheDir := t.TempDir()
	assetsDir := t.TempDir()

	if err := os.WriteFile(filepath.Join(cacheDir, "projects.json"), []byte(`[{"id":"p1"}]`), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(assetsDir, "icon.png"), []byte("png-bytes"), 0o644); err != nil {
		t.Fatal(err)
	}

	router := NewRouter(Options{
		CacheDir:     cacheDir,
		AssetsDir:    assetsDir,
		PublicPrefix: "/notion-assets",
		Journal:      db,
	})
	return cacheDir, router
}

func TestGetDocument(t *testing.T) {
	_, router := testEnv(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/content/projects.json", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json; charset=utf-8" {
		t.Errorf("content type = %q", ct)
	}
	if w.Body.String() != `[{"id":"p1"}]` {
		t.Errorf("body = %q", w.Body.String())
	}
}

func TestGetDocumentUnknownName(t *testing.T) {
	_, router := testEnv(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/content/passwd", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

func TestGetDocumentNotYetSynced(t *testing.T) {
	_, router := testEnv(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/content/skills.json", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

func TestServeAssets(t *testing.T) {
	_, router := testEnv(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/notion-assets/icon.png", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if w.Body.String() != "png-bytes" {
		t.Errorf("body = %q", w.Body.String())
	}
}

func TestHealthEndpoints(t *testing.T) {
	_, router := testEnv(t, nil)

	for _, path := range []string{"/health/live", "/health/ready"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Errorf("%s status = %d, want 200", path, w.Code)
		}
	}
}

func TestListRuns(t *testing.T) {
	dbFile := filepath.Join(t.TempDir(), "journal.db")
	db, err := journal.Open(dbFile)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	started := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	if err := db.Record(journal.Run{
		ID:         "run-1",
		StartedAt:  started,
		FinishedAt: started.Add(3 * time.Second),
		Status:     journal.StatusOK,
		Projects:   4,
	}); err != nil {
		t.Fatalf("Record: %v", err)
	}

	_, router := testEnv(t, db)

	req := httptest.NewRequest(http.MethodGet, "/runs", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var body struct {
		Runs []struct {
			ID         string `json:"id"`
			Status     string `json:"status"`
			Projects   int    `json:"projects"`
			DurationMS int64  `json:"durationMs"`
		} `json:"runs"`
		Total int `json:"total"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body.Total != 1 || len(body.Runs) != 1 {
		t.Fatalf("total = %d, runs = %d", body.Total, len(body.Runs))
	}
	if body.Runs[0].ID != "run-1" || body.Runs[0].Status != "ok" || body.Runs[0].Projects != 4 {
		t.Errorf("unexpected run: %+v", body.Runs[0])
	}
	if body.Runs[0].DurationMS != 3000 {
		t.Errorf("durationMs = %d, want 3000", body.Runs[0].DurationMS)
	}
}

func TestListRunsWithoutJournal(t *testing.T) {
	_, router := testEnv(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/runs", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var body struct {
		Total int `json:"total"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body.Total != 0 {
		t.Errorf("total = %d, want 0", body.Total)
	}
}

func TestWatchReportsDocumentChanges(t *testing.T) {
	cacheDir := t.TempDir()
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events := make(chan string, 16)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, cacheDir, logger, func(document string) {
			events <- document
		})
	}()

	// Give the watcher time to register the directory.
	time.Sleep(100 * time.Millisecond)

	if err := os.WriteFile(filepath.Join(cacheDir, "meta.json"), []byte(`{}`), 0o644); err != nil {
		t.Fatal(err)
	}
	// Tmp files from atomic writes must not be reported.
	if err := os.WriteFile(filepath.Join(cacheDir, ".sync-tmp-123"), []byte(`{}`), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case doc := <-events:
		if doc != "meta.json" {
			t.Errorf("document = %q, want meta.json", doc)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for watch event")
	}

	// A single write may surface as Create plus Write; duplicates of the
	// same document are fine, tmp files are not.
	select {
	case doc := <-events:
		if doc != "meta.json" {
			t.Errorf("unexpected event %q", doc)
		}
	case <-time.After(200 * time.Millisecond):
	}

	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Watch: %v", err)
	}
}
