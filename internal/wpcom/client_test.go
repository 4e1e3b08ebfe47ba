// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package wpcom

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"autopress/internal/httpx"
)

// newTestClient points both API surfaces at the given test server.
func newTestClient(srv *httptest.Server) *Client {
	c := New(httpx.New(5*time.Second, 0), "example.wordpress.com", "test-token")
	c.base = srv.URL
	c.baseV2 = srv.URL + "/v2"
	return c
}

func TestCreatePost(t *testing.T) {
	var gotPath, gotAuth string
	var gotForm map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		r.ParseForm()
		gotForm = r.PostForm
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ID":123,"URL":"https://example.wordpress.com/2026/08/hello","slug":"hello","status":"publish"}`))
	}))
	defer srv.Close()

	c := newTestClient(srv)
	post, err := c.CreatePost(context.Background(), NewPostRequest{
		Title:      "Hello",
		Content:    "<p>body</p>",
		Slug:       "hello",
		Status:     "publish",
		Tags:       "automation,blog",
		FeaturedID: 55,
	})
	if err != nil {
		t.Fatalf("CreatePost: %v", err)
	}

	if gotPath != "/sites/example.wordpress.com/posts/new" {
		t.Errorf("path: got %q", gotPath)
	}
	if gotAuth != "Bearer test-token" {
		t.Errorf("auth: got %q", gotAuth)
	}
	if got := gotForm["featured_image"]; len(got) != 1 || got[0] != "55" {
		t.Errorf("featured_image: got %v, want [55]", got)
	}
	if got := gotForm["tags"]; len(got) != 1 || got[0] != "automation,blog" {
		t.Errorf("tags: got %v", got)
	}
	if post.ID != 123 {
		t.Errorf("post ID: got %d, want 123", post.ID)
	}
	if post.URL != "https://example.wordpress.com/2026/08/hello" {
		t.Errorf("post URL: got %q", post.URL)
	}
}

func TestCreatePostMissingID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"error":"unauthorized"}`))
	}))
	defer srv.Close()

	c := newTestClient(srv)
	if _, err := c.CreatePost(context.Background(), NewPostRequest{Title: "x", Slug: "x", Status: "draft"}); err == nil {
		t.Fatal("expected error when response has no post ID")
	}
}

func TestUploadMedia(t *testing.T) {
	var gotFilename string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
		}
		if files := r.MultipartForm.File["media[]"]; len(files) == 1 {
			gotFilename = files[0].Filename
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"media":[{"ID":77,"URL":"https://example.files.wordpress.com/cover.jpg"}]}`))
	}))
	defer srv.Close()

	c := newTestClient(srv)
	media, err := c.UploadMedia(context.Background(), "dist/images/cover.jpg", strings.NewReader("fake-jpeg-bytes"))
	if err != nil {
		t.Fatalf("UploadMedia: %v", err)
	}
	if gotFilename != "cover.jpg" {
		t.Errorf("filename: got %q, want cover.jpg", gotFilename)
	}
	if media.ID != 77 || media.URL != "https://example.files.wordpress.com/cover.jpg" {
		t.Errorf("media: got %+v", media)
	}
}

func TestUploadMediaEmptyResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"media":[]}`))
	}))
	defer srv.Close()

	c := newTestClient(srv)
	if _, err := c.UploadMedia(context.Background(), "a.png", strings.NewReader("x")); err == nil {
		t.Fatal("expected error on empty media array")
	}
}

func TestFindPostBySlug(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("slug") == "existing-post" {
			w.Write([]byte(`[{"id":9,"link":"https://example.wordpress.com/existing-post","slug":"existing-post"}]`))
			return
		}
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := newTestClient(srv)

	id, err := c.FindPostBySlug(context.Background(), "existing-post")
	if err != nil {
		t.Fatalf("FindPostBySlug: %v", err)
	}
	if id != 9 {
		t.Errorf("existing slug: got id %d, want 9", id)
	}

	id, err = c.FindPostBySlug(context.Background(), "missing-post")
	if err != nil {
		t.Fatalf("FindPostBySlug: %v", err)
	}
	if id != 0 {
		t.Errorf("missing slug: got id %d, want 0", id)
	}
}
