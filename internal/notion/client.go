// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package notion is a typed client for the Notion API, pinned to the
// 2022-06-28 version so the log database schema stays stable. Requests
// are rate limited to stay under Notion's ~3 req/s integration cap.
package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"time"

	"golang.org/x/time/rate"

	"autopress/internal/httpx"
)

const (
	apiBase    = "https://api.notion.com/v1"
	apiVersion = "2022-06-28"
)

var (
	databaseIDPattern = regexp.MustCompile(`^[0-9a-fA-F]{32}$`)
	hyphenatedUUID    = regexp.MustCompile(`[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}`)
	bareHexID         = regexp.MustCompile(`[0-9a-fA-F]{32}`)
)

// Client talks to the Notion API.
type Client struct {
	http    *httpx.Client
	token   string
	base    string // overridable in tests
	limiter *rate.Limiter
}

// New creates a Notion client with the given integration token.
func New(hc *httpx.Client, token string) *Client {
	return &Client{
		http:  hc,
		token: token,
		base:  apiBase,
		// One request per 334ms keeps a single process under the
		// integration's 3 req/s average.
		limiter: rate.NewLimiter(rate.Every(334*time.Millisecond), 1),
	}
}

// ValidDatabaseID reports whether id is a 32-char hex database ID
// without hyphens, the form every endpoint here expects.
func ValidDatabaseID(id string) bool {
	return databaseIDPattern.MatchString(id)
}

// ParseID extracts a 32-char hex database or page ID from a Notion URL.
// Hyphenated UUIDs are normalized. Returns "" when no ID is found.
func ParseID(rawURL string) string {
	if m := hyphenatedUUID.FindString(rawURL); m != "" {
		out := make([]byte, 0, 32)
		for i := 0; i < len(m); i++ {
			if m[i] != '-' {
				out = append(out, lowerHex(m[i]))
			}
		}
		return string(out)
	}
	if m := bareHexID.FindString(rawURL); m != "" {
		out := make([]byte, len(m))
		for i := 0; i < len(m); i++ {
			out[i] = lowerHex(m[i])
		}
		return string(out)
	}
	return ""
}

func lowerHex(b byte) byte {
	if b >= 'A' && b <= 'F' {
		return b + ('a' - 'A')
	}
	return b
}

// do issues one rate-limited request and decodes the 2xx response into
// out when out is non-nil. Retries for transient statuses happen inside
// the httpx client.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("notion rate limit wait: %w", err)
	}

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("notion marshal: %w", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, reader)
	if err != nil {
		return fmt.Errorf("notion request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Notion-Version", apiVersion)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.DoOK(req)
	if err != nil {
		return err
	}
	if out != nil {
		if err := json.Unmarshal(resp.Body, out); err != nil {
			return fmt.Errorf("notion decode %s %s: %w", method, path, err)
		}
	}
	return nil
}

// GetDatabase fetches database metadata including its property schema.
func (c *Client) GetDatabase(ctx context.Context, dbID string) (*Database, error) {
	var db Database
	if err := c.do(ctx, http.MethodGet, "/databases/"+dbID, nil, &db); err != nil {
		return nil, fmt.Errorf("notion get database: %w", err)
	}
	return &db, nil
}

// DatabaseParentPageID returns the page the database lives in, or ""
// when it is workspace-level (not usable as a report parent due to
// permissions).
func (c *Client) DatabaseParentPageID(ctx context.Context, dbID string) (string, error) {
	db, err := c.GetDatabase(ctx, dbID)
	if err != nil {
		return "", err
	}
	if db.Parent.Type == "page_id" {
		return db.Parent.PageID, nil
	}
	return "", nil
}

// PatchDatabase updates a database's property schema.
func (c *Client) PatchDatabase(ctx context.Context, dbID string, schema Schema) error {
	body := struct {
		Properties Schema `json:"properties"`
	}{Properties: schema}
	if err := c.do(ctx, http.MethodPatch, "/databases/"+dbID, body, nil); err != nil {
		return fmt.Errorf("notion patch database: %w", err)
	}
	return nil
}

// CreateDatabase creates a database under the given parent page and
// returns its ID.
func (c *Client) CreateDatabase(ctx context.Context, parentPageID, title string, schema Schema) (string, error) {
	body := struct {
		Parent     Parent     `json:"parent"`
		Title      []RichText `json:"title"`
		Properties Schema     `json:"properties"`
	}{
		Parent:     Parent{Type: "page_id", PageID: parentPageID},
		Title:      []RichText{textSpan(title)},
		Properties: schema,
	}
	var out Database
	if err := c.do(ctx, http.MethodPost, "/databases", body, &out); err != nil {
		return "", fmt.Errorf("notion create database: %w", err)
	}
	return out.ID, nil
}

type queryRequest struct {
	Filter      *Filter `json:"filter,omitempty"`
	PageSize    int     `json:"page_size,omitempty"`
	StartCursor string  `json:"start_cursor,omitempty"`
}

type queryResponse struct {
	Results    []Page `json:"results"`
	HasMore    bool   `json:"has_more"`
	NextCursor string `json:"next_cursor"`
}

// QueryOne returns the first page matching the filter, or nil.
func (c *Client) QueryOne(ctx context.Context, dbID string, filter *Filter) (*Page, error) {
	body := queryRequest{Filter: filter, PageSize: 1}
	var resp queryResponse
	if err := c.do(ctx, http.MethodPost, "/databases/"+dbID+"/query", body, &resp); err != nil {
		return nil, fmt.Errorf("notion query: %w", err)
	}
	if len(resp.Results) == 0 {
		return nil, nil
	}
	return &resp.Results[0], nil
}

// QueryAll returns every page matching the filter, following pagination
// until has_more is false.
func (c *Client) QueryAll(ctx context.Context, dbID string, filter *Filter) ([]Page, error) {
	var pages []Page
	body := queryRequest{Filter: filter, PageSize: 100}
	for {
		var resp queryResponse
		if err := c.do(ctx, http.MethodPost, "/databases/"+dbID+"/query", body, &resp); err != nil {
			return nil, fmt.Errorf("notion query: %w", err)
		}
		pages = append(pages, resp.Results...)
		if !resp.HasMore {
			return pages, nil
		}
		body.StartCursor = resp.NextCursor
	}
}

type createPageRequest struct {
	Parent     Parent     `json:"parent"`
	Properties Properties `json:"properties"`
	Children   []Block    `json:"children,omitempty"`
}

// CreatePage creates a page in a database and returns its ID. Children
// blocks, when given, become the page body.
func (c *Client) CreatePage(ctx context.Context, dbID string, props Properties, children []Block) (string, error) {
	body := createPageRequest{
		Parent:     Parent{DatabaseID: dbID},
		Properties: props,
		Children:   children,
	}
	var page Page
	if err := c.do(ctx, http.MethodPost, "/pages", body, &page); err != nil {
		return "", fmt.Errorf("notion create page: %w", err)
	}
	return page.ID, nil
}

// CreateChildPage creates a plain child page under a parent page. Used
// by the report fallback chain when no reports database is reachable.
func (c *Client) CreateChildPage(ctx context.Context, parentPageID, title string, children []Block) (string, error) {
	body := struct {
		Parent     Parent     `json:"parent"`
		Properties Properties `json:"properties"`
		Children   []Block    `json:"children,omitempty"`
	}{
		Parent:     Parent{PageID: parentPageID},
		Properties: Properties{"title": Title(title)},
		Children:   children,
	}
	var page Page
	if err := c.do(ctx, http.MethodPost, "/pages", body, &page); err != nil {
		return "", fmt.Errorf("notion create child page: %w", err)
	}
	return page.ID, nil
}

// PatchPage updates the given properties on a page, leaving the rest
// untouched.
func (c *Client) PatchPage(ctx context.Context, pageID string, props Properties) error {
	body := struct {
		Properties Properties `json:"properties"`
	}{Properties: props}
	if err := c.do(ctx, http.MethodPatch, "/pages/"+pageID, body, nil); err != nil {
		return fmt.Errorf("notion patch page: %w", err)
	}
	return nil
}
