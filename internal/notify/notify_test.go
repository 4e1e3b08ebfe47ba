// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"autopress/internal/httpx"
)

func testHTTP() *httpx.Client {
	return httpx.New(5*time.Second, 0)
}

func TestStatusColor(t *testing.T) {
	tests := []struct {
		status string
		want   string
	}{
		{"FAILED", colorRed},
		{"error", colorRed},
		{"DRAFT", colorYellow},
		{"PENDING", colorYellow},
		{"SUCCESS", colorGreen},
		{"published", colorGreen},
		{"whatever", colorGray},
	}
	for _, tt := range tests {
		if got := StatusColor(tt.status); got != tt.want {
			t.Errorf("StatusColor(%q): got %q, want %q", tt.status, got, tt.want)
		}
	}
}

func TestAnnouncePrefersWebhook(t *testing.T) {
	var webhookHits int
	var got message
	webhook := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		webhookHits++
		json.NewDecoder(r.Body).Decode(&got)
		w.Write([]byte("ok"))
	}))
	defer webhook.Close()

	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("bot API must not be called when a webhook is configured")
	}))
	defer api.Close()

	n := New(testHTTP(), WithWebhook(webhook.URL), WithBot("xoxb-test", "#blog-alert"))
	n.apiBase = api.URL

	ts, err := n.Announce(context.Background(), Event{
		Title:    "테스트 포스트",
		Slug:     "test-post",
		URL:      "https://example.com/test-post",
		Status:   "PUBLISHED",
		Keywords: []string{"SEO", "자동화"},
	})
	if err != nil {
		t.Fatalf("Announce: %v", err)
	}
	if ts != "" {
		t.Errorf("webhook delivery cannot produce a ts, got %q", ts)
	}
	if webhookHits != 1 {
		t.Fatalf("webhook hits: got %d", webhookHits)
	}
	if !strings.Contains(got.Text, "새 글 발행") || !strings.Contains(got.Text, "PUBLISHED") {
		t.Errorf("text: got %q", got.Text)
	}
	if len(got.Blocks) != 2 || got.Blocks[0].Type != "section" || got.Blocks[1].Type != "context" {
		t.Errorf("blocks: got %+v", got.Blocks)
	}
	if len(got.Attachments) != 1 || got.Attachments[0].Color != colorGreen {
		t.Errorf("attachments: got %+v", got.Attachments)
	}
}

func TestAnnounceBotFallbackReturnsTS(t *testing.T) {
	var gotAuth string
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat.postMessage" {
			t.Errorf("path: got %q", r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		var msg message
		json.NewDecoder(r.Body).Decode(&msg)
		if msg.Channel != "#blog-alert" {
			t.Errorf("channel: got %q", msg.Channel)
		}
		w.Write([]byte(`{"ok": true, "ts": "1700000000.000100"}`))
	}))
	defer api.Close()

	n := New(testHTTP(), WithBot("xoxb-test", "#blog-alert"))
	n.apiBase = api.URL

	ts, err := n.Announce(context.Background(), Event{Slug: "test-post", Status: "SUCCESS"})
	if err != nil {
		t.Fatalf("Announce: %v", err)
	}
	if ts != "1700000000.000100" {
		t.Errorf("ts: got %q", ts)
	}
	if gotAuth != "Bearer xoxb-test" {
		t.Errorf("auth: got %q", gotAuth)
	}
}

func TestAnnounceMentionOnlyOnError(t *testing.T) {
	n := New(testHTTP(), WithMention("<!channel>"))

	ok := n.buildMessage(Event{Slug: "s", Status: "SUCCESS"})
	if strings.Contains(ok.Text, "<!channel>") {
		t.Error("success message must not mention anyone")
	}

	failed := n.buildMessage(Event{Slug: "s", Status: "FAILED", ErrorMsg: "boom"})
	if !strings.HasPrefix(failed.Text, "<!channel> ") {
		t.Errorf("error message missing mention: %q", failed.Text)
	}
	if len(failed.Attachments) != 1 || failed.Attachments[0].Color != colorRed || failed.Attachments[0].Text != "boom" {
		t.Errorf("error attachment: got %+v", failed.Attachments)
	}
}

func TestAnnounceUploadsLocalThumbnailIntoThread(t *testing.T) {
	dir := t.TempDir()
	thumb := filepath.Join(dir, "thumb.png")
	if err := os.WriteFile(thumb, []byte("png-bytes"), 0o644); err != nil {
		t.Fatal(err)
	}

	var uploadThread, uploadComment string
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/chat.postMessage":
			w.Write([]byte(`{"ok": true, "ts": "42.000"}`))
		case "/files.upload":
			r.ParseMultipartForm(1 << 20)
			uploadThread = r.FormValue("thread_ts")
			uploadComment = r.FormValue("initial_comment")
			w.Write([]byte(`{"ok": true}`))
		default:
			t.Errorf("unexpected path %q", r.URL.Path)
		}
	}))
	defer api.Close()

	n := New(testHTTP(), WithBot("xoxb-test", "#blog-alert"))
	n.apiBase = api.URL

	if _, err := n.Announce(context.Background(), Event{Slug: "s", Status: "SUCCESS", Thumbnail: thumb}); err != nil {
		t.Fatalf("Announce: %v", err)
	}
	if uploadThread != "42.000" {
		t.Errorf("thread_ts: got %q", uploadThread)
	}
	if uploadComment != "썸네일 미리보기" {
		t.Errorf("initial_comment: got %q", uploadComment)
	}
}

func TestAnnounceSkipsRemoteThumbnail(t *testing.T) {
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/files.upload" {
			t.Error("remote thumbnail must not be uploaded")
		}
		w.Write([]byte(`{"ok": true, "ts": "1.0"}`))
	}))
	defer api.Close()

	n := New(testHTTP(), WithBot("xoxb-test", "#c"))
	n.apiBase = api.URL

	ev := Event{Slug: "s", Status: "SUCCESS", Thumbnail: "https://cdn.example.com/t.png"}
	if _, err := n.Announce(context.Background(), ev); err != nil {
		t.Fatalf("Announce: %v", err)
	}
}

func TestStatusChangeThreadsComment(t *testing.T) {
	var got message
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&got)
		w.Write([]byte(`{"ok": true, "ts": "2.0"}`))
	}))
	defer api.Close()

	n := New(testHTTP(), WithBot("xoxb-test", "#c"))
	n.apiBase = api.URL

	if err := n.StatusChange(context.Background(), "my-post", "success", "99.111"); err != nil {
		t.Fatalf("StatusChange: %v", err)
	}
	if got.ThreadTS != "99.111" {
		t.Errorf("thread_ts: got %q", got.ThreadTS)
	}
	if got.Text != "[상태 변경] `my-post` → *SUCCESS*" {
		t.Errorf("text: got %q", got.Text)
	}
}

func TestPingMake(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&got)
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	n := New(testHTTP(), WithMakeWebhook(srv.URL))
	if err := n.PingMake(context.Background(), "weekly report done"); err != nil {
		t.Fatalf("PingMake: %v", err)
	}
	if got["message"] != "weekly report done" {
		t.Errorf("payload: got %v", got)
	}

	// Unconfigured Make webhook is a silent no-op.
	empty := New(testHTTP())
	if err := empty.PingMake(context.Background(), "x"); err != nil {
		t.Fatalf("PingMake unconfigured: %v", err)
	}
}

func TestSummaryPostsPlainText(t *testing.T) {
	var got message
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&got)
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	n := New(testHTTP(), WithWebhook(srv.URL))
	if err := n.Summary(context.Background(), "실행 완료: 3/4 성공"); err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if got.Text != "실행 완료: 3/4 성공" {
		t.Errorf("text: got %q", got.Text)
	}
	if got.ThreadTS != "" || len(got.Blocks) != 0 {
		t.Errorf("summary must be a plain unthreaded message: %+v", got)
	}
}

func TestAnnounceUnconfiguredIsNoOp(t *testing.T) {
	n := New(testHTTP())
	ts, err := n.Announce(context.Background(), Event{Slug: "s", Status: "SUCCESS"})
	if err != nil || ts != "" {
		t.Fatalf("unconfigured notifier: ts=%q err=%v", ts, err)
	}
}
