// Package testutil provides shared test helpers, most notably an in-process
// fake of the source API with cursor pagination and concurrency accounting.
package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Vikram2Agrawal/notion-sync/internal/notion"
)

// FakeNotion serves database queries and block children from in-memory
// fixtures. PageSize forces pagination; Delay holds every request open so
// tests can observe concurrency.
type FakeNotion struct {
	Pages    map[string][]notion.Page  // database id → pages
	Blocks   map[string][]notion.Block // container id → direct children
	PageSize int
	Delay    time.Duration

	mu          sync.Mutex
	requests    int
	inFlight    int
	maxInFlight int
}

// Requests returns the total number of API requests served.
func (f *FakeNotion) Requests() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests
}

// MaxInFlight returns the highest number of concurrently open requests seen.
func (f *FakeNotion) MaxInFlight() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.maxInFlight
}

// Server starts an httptest server for the fake, cleaned up with the test.
func (f *FakeNotion) Server(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)
	return srv
}

// Client returns a pipeline client pointed at the fake.
func (f *FakeNotion) Client(t *testing.T, concurrency int64) *notion.Client {
	t.Helper()
	return notion.NewClient(f.Server(t).URL, "test-token", concurrency)
}

func (f *FakeNotion) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.enter()
	defer f.leave()
	if f.Delay > 0 {
		time.Sleep(f.Delay)
	}

	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	// Expected paths: v1/databases/{id}/query and v1/blocks/{id}/children.
	if len(parts) != 4 || parts[0] != "v1" {
		http.NotFound(w, r)
		return
	}

	switch {
	case parts[1] == "databases" && parts[3] == "query" && r.Method == http.MethodPost:
		var req struct {
			StartCursor string `json:"start_cursor"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		pages := f.Pages[parts[2]]
		start := cursorOffset(req.StartCursor)
		end, next := f.window(start, len(pages))
		writeList(w, pages[start:end], next)

	case parts[1] == "blocks" && parts[3] == "children" && r.Method == http.MethodGet:
		blocks := f.Blocks[parts[2]]
		start := cursorOffset(r.URL.Query().Get("start_cursor"))
		end, next := f.window(start, len(blocks))
		writeList(w, blocks[start:end], next)

	default:
		http.NotFound(w, r)
	}
}

func (f *FakeNotion) enter() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests++
	f.inFlight++
	if f.inFlight > f.maxInFlight {
		f.maxInFlight = f.inFlight
	}
}

func (f *FakeNotion) leave() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inFlight--
}

// window returns the end index of the response page starting at start, plus
// the next cursor ("" when exhausted).
func (f *FakeNotion) window(start, total int) (int, string) {
	if start > total {
		start = total
	}
	end := total
	if f.PageSize > 0 && start+f.PageSize < total {
		end = start + f.PageSize
	}
	if end < total {
		return end, strconv.Itoa(end)
	}
	return end, ""
}

func cursorOffset(cursor string) int {
	if cursor == "" {
		return 0
	}
	n, err := strconv.Atoi(cursor)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func writeList[T any](w http.ResponseWriter, results []T, next string) {
	resp := map[string]any{
		"results":  results,
		"has_more": next != "",
	}
	if next != "" {
		resp["next_cursor"] = next
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

// TitlePage builds a minimal full page with a title and extra properties.
func TitlePage(id, title string, extra map[string]notion.Property) notion.Page {
	props := map[string]notion.Property{
		"Name": {
			Type:  "title",
			Title: []notion.RichText{{Type: "text", PlainText: title}},
		},
	}
	for k, v := range extra {
		props[k] = v
	}
	return notion.Page{Object: "page", ID: id, Properties: props}
}

// RelationProp builds a relation property value.
func RelationProp(ids ...string) notion.Property {
	refs := make([]notion.RelationRef, len(ids))
	for i, id := range ids {
		refs[i] = notion.RelationRef{ID: id}
	}
	return notion.Property{Type: "relation", Relation: refs}
}

// TextBlock builds a full paragraph block with plain text content.
func TextBlock(id, text string) notion.Block {
	return notion.Block{
		Object: "block",
		ID:     id,
		Type:   "paragraph",
		Paragraph: &notion.RichTextPayload{RichText: []notion.RichText{
			{Type: "text", PlainText: text, Text: &notion.TextContent{Content: text}},
		}},
	}
}

// HeadingBlock builds a full level-2 heading block.
func HeadingBlock(id, text string) notion.Block {
	return notion.Block{
		Object: "block",
		ID:     id,
		Type:   "heading_2",
		Heading2: &notion.RichTextPayload{RichText: []notion.RichText{
			{Type: "text", PlainText: text, Text: &notion.TextContent{Content: text}},
		}},
	}
}
