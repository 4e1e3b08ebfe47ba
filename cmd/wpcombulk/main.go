// Package main bulk-creates WordPress.com drafts from an operator CSV.
// Rows whose slug already exists on the site are skipped, so the tool
// is safe to re-run after a partial import.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"strings"
	"time"

	"autopress/internal/config"
	"autopress/internal/csvx"
	"autopress/internal/httpx"
	"autopress/internal/render"
	"autopress/internal/wpcom"
)

func main() {
	file := flag.String("csv", "", "CSV file of posts to create (slug required, title optional)")
	status := flag.String("status", "draft", "status for created posts: draft, private, or publish")
	dryRun := flag.Bool("dry-run", false, "report what would be created without writing")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	if *file == "" {
		slog.Error("missing -csv")
		os.Exit(2)
	}
	switch *status {
	case "draft", "private", "publish":
	default:
		slog.Error("invalid -status", "status", *status)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(2)
	}
	if err := cfg.RequireWPCom(); err != nil {
		slog.Error("wordpress.com configuration incomplete", "error", err)
		os.Exit(2)
	}

	f, err := os.Open(*file)
	if err != nil {
		slog.Error("failed to open csv", "path", *file, "error", err)
		os.Exit(1)
	}
	rows, err := csvx.Read(f)
	f.Close()
	if err != nil {
		slog.Error("failed to parse csv", "path", *file, "error", err)
		os.Exit(1)
	}
	if len(rows) == 0 {
		slog.Error("csv contains no usable rows")
		os.Exit(1)
	}

	hc := httpx.New(time.Duration(cfg.NetTimeoutSec)*time.Second, cfg.NetRetries)
	client := wpcom.New(hc, cfg.WPComSite, cfg.WPComToken)
	ctx := context.Background()

	created, skipped, failed := 0, 0, 0
	for _, row := range rows {
		existingID, err := client.FindPostBySlug(ctx, row.Slug)
		if err != nil {
			slog.Error("slug lookup failed", "slug", row.Slug, "error", err)
			failed++
			continue
		}
		if existingID != 0 {
			slog.Info("slug already exists, skipping", "slug", row.Slug, "post_id", existingID)
			skipped++
			continue
		}

		title := row.Title
		if title == "" {
			title = strings.ReplaceAll(row.Slug, "-", " ")
		}
		if *dryRun {
			slog.Info("dry run: would create", "slug", row.Slug, "title", title)
			created++
			continue
		}

		doc := render.Render(title, "'"+title+"'에 대한 실용적인 정보 탐색", nil, 1)
		post, err := client.CreatePost(ctx, wpcom.NewPostRequest{
			Title:   title,
			Content: doc.HTML,
			Slug:    row.Slug,
			Status:  *status,
		})
		if err != nil {
			slog.Error("post creation failed", "slug", row.Slug, "error", err)
			failed++
			continue
		}
		slog.Info("post created", "slug", post.Slug, "post_id", post.ID, "url", post.URL)
		created++
	}

	slog.Info("bulk import complete", "created", created, "skipped", skipped, "failed", failed)
	if failed > 0 {
		os.Exit(1)
	}
}
