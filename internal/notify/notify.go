// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package notify delivers pipeline events to Slack and to a Make.com
// webhook. Delivery prefers the incoming webhook (no token needed); the
// bot API is the fallback and the only path that yields a message ts
// for threading.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"autopress/internal/httpx"
)

const slackAPIBase = "https://slack.com/api"

// Status colors for message attachments.
const (
	colorRed    = "#E01E5A"
	colorYellow = "#ECB22E"
	colorGreen  = "#2EB67D"
	colorGray   = "#9CA3AF"
)

// StatusColor maps a lifecycle status to its attachment color.
func StatusColor(status string) string {
	switch strings.ToUpper(status) {
	case "FAILED", "ERROR":
		return colorRed
	case "DRAFT", "PENDING":
		return colorYellow
	case "SUCCESS", "PUBLISHED", "OK":
		return colorGreen
	default:
		return colorGray
	}
}

// Notifier posts pipeline events. All fields are optional; an empty
// notifier silently drops everything so callers need no nil checks.
type Notifier struct {
	http       *httpx.Client
	webhookURL string
	botToken   string
	channel    string
	mention    string // prepended to error notifications only
	makeURL    string
	apiBase    string // overridable in tests
}

// Option configures a Notifier.
type Option func(*Notifier)

// WithWebhook sets the Slack incoming webhook URL.
func WithWebhook(url string) Option {
	return func(n *Notifier) { n.webhookURL = url }
}

// WithBot sets the bot token and target channel.
func WithBot(token, channel string) Option {
	return func(n *Notifier) { n.botToken = token; n.channel = channel }
}

// WithMention sets the mention string prefixed to error notifications.
func WithMention(mention string) Option {
	return func(n *Notifier) { n.mention = mention }
}

// WithMakeWebhook sets the Make.com scenario webhook URL.
func WithMakeWebhook(url string) Option {
	return func(n *Notifier) { n.makeURL = url }
}

// New creates a Notifier over the shared HTTP client.
func New(hc *httpx.Client, opts ...Option) *Notifier {
	n := &Notifier{http: hc, apiBase: slackAPIBase}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Event is one pipeline outcome to announce.
type Event struct {
	Title     string
	Slug      string
	URL       string
	Status    string
	Keywords  []string
	ErrorMsg  string
	Thumbnail string // local file path or external URL
}

func (e Event) isError() bool {
	s := strings.ToUpper(e.Status)
	return s == "FAILED" || s == "ERROR" || e.ErrorMsg != ""
}

// --- Slack payload shapes ---

type textObject struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type block struct {
	Type     string       `json:"type"`
	Text     *textObject  `json:"text,omitempty"`
	Elements []textObject `json:"elements,omitempty"`
}

type attachment struct {
	Color string `json:"color"`
	Text  string `json:"text,omitempty"`
}

type message struct {
	Channel     string       `json:"channel,omitempty"`
	Text        string       `json:"text"`
	Blocks      []block      `json:"blocks,omitempty"`
	Attachments []attachment `json:"attachments,omitempty"`
	ThreadTS    string       `json:"thread_ts,omitempty"`
}

type postMessageResponse struct {
	OK    bool   `json:"ok"`
	TS    string `json:"ts"`
	Error string `json:"error"`
}

// buildMessage renders the announcement. Mentions go out only when the
// event reports an error; routine successes must not ping anyone.
func (n *Notifier) buildMessage(ev Event) message {
	text := fmt.Sprintf("*새 글 발행* • *%s*", strings.ToUpper(ev.Status))
	if ev.isError() && n.mention != "" {
		text = n.mention + " " + text
	}

	headline := ev.Title
	if headline == "" {
		headline = ev.Slug
	}
	body := fmt.Sprintf("%s\n<%s|%s>", text, ev.URL, headline)
	if ev.URL == "" {
		body = fmt.Sprintf("%s\n%s", text, headline)
	}

	blocks := []block{
		{Type: "section", Text: &textObject{Type: "mrkdwn", Text: body}},
		{Type: "context", Elements: []textObject{
			{Type: "mrkdwn", Text: fmt.Sprintf("slug: `%s`", ev.Slug)},
			{Type: "mrkdwn", Text: "keywords: " + strings.Join(ev.Keywords, ", ")},
		}},
	}

	msg := message{Text: text, Blocks: blocks}
	if ev.ErrorMsg != "" {
		msg.Attachments = append(msg.Attachments, attachment{Color: colorRed, Text: ev.ErrorMsg})
	} else {
		msg.Attachments = append(msg.Attachments, attachment{Color: StatusColor(ev.Status)})
	}
	return msg
}

// Announce posts the event. Returns the message ts when the bot API
// delivered it; the webhook path cannot return one. A configured local
// thumbnail is uploaded into the thread afterwards.
func (n *Notifier) Announce(ctx context.Context, ev Event) (string, error) {
	msg := n.buildMessage(ev)

	var ts string
	switch {
	case n.webhookURL != "":
		if err := n.postWebhook(ctx, n.webhookURL, msg); err != nil {
			return "", err
		}
	case n.botToken != "":
		var err error
		ts, err = n.postMessage(ctx, msg)
		if err != nil {
			return "", err
		}
	default:
		return "", nil
	}

	if ev.Thumbnail != "" && !strings.HasPrefix(ev.Thumbnail, "http") {
		// External URLs are synced to the log store instead; only local
		// files get uploaded to chat.
		if err := n.uploadThumbnail(ctx, ev.Thumbnail, ts); err != nil {
			slog.Warn("thumbnail upload failed", "path", ev.Thumbnail, "error", err)
		}
	}
	return ts, nil
}

// StatusChange posts a short threaded note about a lifecycle change.
func (n *Notifier) StatusChange(ctx context.Context, slug, status, threadTS string) error {
	text := fmt.Sprintf("[상태 변경] `%s` → *%s*", slug, strings.ToUpper(status))
	msg := message{
		Text:        text,
		ThreadTS:    threadTS,
		Attachments: []attachment{{Color: StatusColor(status)}},
	}
	if n.botToken != "" {
		_, err := n.postMessage(ctx, msg)
		return err
	}
	if n.webhookURL != "" {
		return n.postWebhook(ctx, n.webhookURL, msg)
	}
	return nil
}

// Summary posts a plain one-line run summary, unthreaded.
func (n *Notifier) Summary(ctx context.Context, text string) error {
	msg := message{Text: text}
	if n.webhookURL != "" {
		return n.postWebhook(ctx, n.webhookURL, msg)
	}
	if n.botToken != "" {
		_, err := n.postMessage(ctx, msg)
		return err
	}
	return nil
}

// PingMake fires the Make.com scenario webhook with a one-line message.
func (n *Notifier) PingMake(ctx context.Context, text string) error {
	if n.makeURL == "" {
		return nil
	}
	payload := struct {
		Message string `json:"message"`
	}{Message: text}
	return n.postJSON(ctx, n.makeURL, payload)
}

func (n *Notifier) postWebhook(ctx context.Context, url string, msg message) error {
	msg.Channel = "" // webhooks are bound to a channel already
	return n.postJSON(ctx, url, msg)
}

func (n *Notifier) postJSON(ctx context.Context, url string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("notify marshal: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("notify request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if _, err := n.http.DoOK(req); err != nil {
		return fmt.Errorf("notify post: %w", err)
	}
	return nil
}

func (n *Notifier) postMessage(ctx context.Context, msg message) (string, error) {
	msg.Channel = n.channel
	body, err := json.Marshal(msg)
	if err != nil {
		return "", fmt.Errorf("notify marshal: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.apiBase+"/chat.postMessage", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("notify request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	req.Header.Set("Authorization", "Bearer "+n.botToken)

	var resp postMessageResponse
	if err := n.http.DoJSON(req, &resp); err != nil {
		return "", fmt.Errorf("notify chat.postMessage: %w", err)
	}
	if !resp.OK {
		return "", fmt.Errorf("notify chat.postMessage: slack error %q", resp.Error)
	}
	return resp.TS, nil
}

// uploadThumbnail sends a local thumbnail file into the announcement
// thread via files.upload. Bot-only; the webhook path has no file API.
func (n *Notifier) uploadThumbnail(ctx context.Context, path, threadTS string) error {
	if n.botToken == "" {
		return nil
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return fmt.Errorf("notify file part: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return fmt.Errorf("notify file copy: %w", err)
	}
	fields := map[string]string{
		"channels":        n.channel,
		"initial_comment": "썸네일 미리보기",
		"title":           filepath.Base(path),
	}
	if threadTS != "" {
		fields["thread_ts"] = threadTS
	}
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return fmt.Errorf("notify file field: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("notify file close: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.apiBase+"/files.upload", &buf)
	if err != nil {
		return fmt.Errorf("notify upload request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+n.botToken)

	var resp postMessageResponse
	if err := n.http.DoJSON(req, &resp); err != nil {
		return fmt.Errorf("notify files.upload: %w", err)
	}
	if !resp.OK {
		return fmt.Errorf("notify files.upload: slack error %q", resp.Error)
	}
	return nil
}
