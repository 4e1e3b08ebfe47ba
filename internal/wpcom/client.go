// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package wpcom is a typed client for the WordPress.com public REST API.
// Post creation and media upload go through the v1.1 surface; slug
// lookups use the wp/v2 surface because v1.1 has no slug filter.
package wpcom

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"

	"autopress/internal/httpx"
)

const (
	apiBase   = "https://public-api.wordpress.com/rest/v1.1"
	apiBaseV2 = "https://public-api.wordpress.com/wp/v2"
)

// Client talks to the WordPress.com REST API for a single site.
type Client struct {
	http   *httpx.Client
	site   string
	token  string
	base   string // v1.1 base, overridable in tests
	baseV2 string // wp/v2 base, overridable in tests
}

// New creates a WordPress.com client for the given site (e.g.
// "example.wordpress.com") and OAuth2 bearer token.
func New(hc *httpx.Client, site, token string) *Client {
	return &Client{
		http:   hc,
		site:   site,
		token:  token,
		base:   apiBase,
		baseV2: apiBaseV2,
	}
}

// Post is the subset of the posts/new response the pipeline uses.
type Post struct {
	ID       int64  `json:"ID"`
	URL      string `json:"URL"`
	ShortURL string `json:"short_URL"`
	Slug     string `json:"slug"`
	Status   string `json:"status"`
}

// NewPostRequest carries the fields for post creation. Tags and
// Categories are comma-separated per the v1.1 API.
type NewPostRequest struct {
	Title      string
	Content    string
	Slug       string
	Status     string // publish | draft | private
	Tags       string
	Categories string
	FeaturedID int64 // attachment ID, 0 means unset
}

// CreatePost creates a post via posts/new and returns the created post.
func (c *Client) CreatePost(ctx context.Context, p NewPostRequest) (*Post, error) {
	form := url.Values{}
	form.Set("title", p.Title)
	form.Set("content", p.Content)
	form.Set("slug", p.Slug)
	form.Set("status", p.Status)
	form.Set("tags", p.Tags)
	form.Set("categories", p.Categories)
	if p.FeaturedID > 0 {
		form.Set("featured_image", strconv.FormatInt(p.FeaturedID, 10))
	}

	endpoint := fmt.Sprintf("%s/sites/%s/posts/new", c.base, c.site)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("wpcom create post request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer "+c.token)

	var post Post
	if err := c.http.DoJSON(req, &post); err != nil {
		return nil, fmt.Errorf("wpcom create post: %w", err)
	}
	if post.ID == 0 {
		return nil, fmt.Errorf("wpcom create post: response missing post ID")
	}
	return &post, nil
}

// Media is one uploaded attachment from the media/new response.
type Media struct {
	ID  int64  `json:"ID"`
	URL string `json:"URL"`
}

type mediaNewResponse struct {
	Media []Media `json:"media"`
}

// UploadMedia uploads one file via media/new (multipart) and returns the
// attachment. filename decides the reported MIME type.
func (c *Client) UploadMedia(ctx context.Context, filename string, content io.Reader) (*Media, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	contentType := mime.TypeByExtension(filepath.Ext(filename))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	header := make(map[string][]string)
	header["Content-Disposition"] = []string{
		fmt.Sprintf(`form-data; name="media[]"; filename=%q`, filepath.Base(filename)),
	}
	header["Content-Type"] = []string{contentType}
	part, err := w.CreatePart(header)
	if err != nil {
		return nil, fmt.Errorf("wpcom media part: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return nil, fmt.Errorf("wpcom media copy: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("wpcom media close: %w", err)
	}

	endpoint := fmt.Sprintf("%s/sites/%s/media/new", c.base, c.site)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &buf)
	if err != nil {
		return nil, fmt.Errorf("wpcom media request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+c.token)

	var resp mediaNewResponse
	if err := c.http.DoJSON(req, &resp); err != nil {
		return nil, fmt.Errorf("wpcom media upload: %w", err)
	}
	if len(resp.Media) == 0 {
		return nil, fmt.Errorf("wpcom media upload: response missing media array")
	}
	if resp.Media[0].URL == "" {
		return nil, fmt.Errorf("wpcom media upload: attachment has no URL")
	}
	return &resp.Media[0], nil
}

// v2Post is the wp/v2 post shape used for slug lookups.
type v2Post struct {
	ID   int64  `json:"id"`
	Link string `json:"link"`
	Slug string `json:"slug"`
}

// FindPostBySlug returns the post ID for an existing slug, or 0 when no
// post matches. Used for re-run-safe bulk creation.
func (c *Client) FindPostBySlug(ctx context.Context, slug string) (int64, error) {
	endpoint := fmt.Sprintf("%s/sites/%s/posts?slug=%s&per_page=1", c.baseV2, c.site, url.QueryEscape(slug))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, fmt.Errorf("wpcom slug lookup request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.DoOK(req)
	if err != nil {
		return 0, fmt.Errorf("wpcom slug lookup: %w", err)
	}
	var posts []v2Post
	if err := json.Unmarshal(resp.Body, &posts); err != nil {
		return 0, fmt.Errorf("wpcom slug lookup decode: %w", err)
	}
	if len(posts) == 0 {
		return 0, nil
	}
	return posts[0].ID, nil
}
