package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"golang.org/x/sync/semaphore"

	"github.com/Vikram2Agrawal/notion-sync/internal/apperr"
)

// DefaultBaseURL is the production API endpoint.
const DefaultBaseURL = "https://api.notion.com"

// DefaultVersion is the API version header sent with every request.
const DefaultVersion = "2022-06-28"

const pageSize = 100

// Client talks to the Notion REST API. Every request passes through one
// weighted semaphore, so the in-flight request count is capped system-wide
// regardless of how many fetches run concurrently.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	version    string
	gate       *semaphore.Weighted
}

// NewClient creates a client. baseURL falls back to DefaultBaseURL and
// concurrency to 3 when zero.
func NewClient(baseURL, token string, concurrency int64) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if concurrency <= 0 {
		concurrency = 3
	}
	return &Client{
		httpClient: &http.Client{},
		baseURL:    baseURL,
		token:      token,
		version:    DefaultVersion,
		gate:       semaphore.NewWeighted(concurrency),
	}
}

// do performs one gated API request and decodes the JSON response into out.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	if err := c.gate.Acquire(ctx, 1); err != nil {
		return fmt.Errorf("notion: acquire request slot: %w", err)
	}
	defer c.gate.Release(1)

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("notion: encode request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("notion: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Notion-Version", c.version)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("notion: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("notion: %s %s: status %d: %s: %w",
			method, path, resp.StatusCode, snippet, apperr.FromStatus(resp.StatusCode))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("notion: decode response: %w", err)
	}
	return nil
}

type queryRequest struct {
	PageSize    int              `json:"page_size"`
	StartCursor string           `json:"start_cursor,omitempty"`
	Filter      *publishedEquals `json:"filter,omitempty"`
}

type publishedEquals struct {
	Property string `json:"property"`
	Checkbox struct {
		Equals bool `json:"equals"`
	} `json:"checkbox"`
}

type pageList struct {
	Results    []Page `json:"results"`
	HasMore    bool   `json:"has_more"`
	NextCursor string `json:"next_cursor"`
}

type blockList struct {
	Results    []Block `json:"results"`
	HasMore    bool    `json:"has_more"`
	NextCursor string  `json:"next_cursor"`
}

// QueryDatabase returns every published, fully-populated page of a database,
// in source order.
func (c *Client) QueryDatabase(ctx context.Context, databaseID string) ([]Page, error) {
	filter := &publishedEquals{Property: "Published"}
	filter.Checkbox.Equals = true

	var pages []Page
	cursor := ""
	for {
		req := queryRequest{PageSize: pageSize, StartCursor: cursor, Filter: filter}
		var resp pageList
		if err := c.do(ctx, http.MethodPost, "/v1/databases/"+databaseID+"/query", req, &resp); err != nil {
			return nil, err
		}
		for _, p := range resp.Results {
			if p.Full() {
				pages = append(pages, p)
			}
		}
		if !resp.HasMore || resp.NextCursor == "" {
			break
		}
		cursor = resp.NextCursor
	}
	return pages, nil
}

// listChildren returns the direct children of a container, in source order.
func (c *Client) listChildren(ctx context.Context, containerID string) ([]Block, error) {
	var blocks []Block
	cursor := ""
	for {
		q := url.Values{"page_size": {fmt.Sprint(pageSize)}}
		if cursor != "" {
			q.Set("start_cursor", cursor)
		}
		var resp blockList
		path := "/v1/blocks/" + containerID + "/children?" + q.Encode()
		if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
			return nil, err
		}
		for _, b := range resp.Results {
			if b.Full() {
				blocks = append(blocks, b)
			}
		}
		if !resp.HasMore || resp.NextCursor == "" {
			break
		}
		cursor = resp.NextCursor
	}
	return blocks, nil
}

// FetchBlockTree returns the full block tree under a container.
//
// The tree is collected breadth-first into an arena keyed by container id,
// then stitched together, keeping the fetch loop iterative and the recursion
// bound to tree assembly only. Any failed page request aborts the fetch; the
// caller is expected to treat this as run-fatal, since the output contract is
// full-replace.
func (c *Client) FetchBlockTree(ctx context.Context, containerID string) ([]Block, error) {
	arena := map[string][]Block{}
	queue := []string{containerID}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		blocks, err := c.listChildren(ctx, id)
		if err != nil {
			return nil, err
		}
		for _, b := range blocks {
			if b.HasChildren {
				queue = append(queue, b.ID)
			}
		}
		arena[id] = blocks
	}
	return attachChildren(arena, containerID), nil
}

// attachChildren resolves parent→children edges from the arena into nested
// Block values, preserving source order at every level.
func attachChildren(arena map[string][]Block, id string) []Block {
	blocks := arena[id]
	for i := range blocks {
		if blocks[i].HasChildren {
			blocks[i].Children = attachChildren(arena, blocks[i].ID)
		}
	}
	return blocks
}
