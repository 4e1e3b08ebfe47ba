// Package main moves content-log rows through the status lifecycle:
// one slug at a time or in bulk from a CSV, optionally verifying the
// published URL is alive before the change is written.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"autopress/internal/config"
	"autopress/internal/csvx"
	"autopress/internal/httpx"
	"autopress/internal/liveness"
	"autopress/internal/notify"
	"autopress/internal/notion"
	"autopress/internal/state"
	"autopress/internal/transition"
)

func main() {
	slugFlag := flag.String("slug", "", "slug (or URL, per NOTION_INDEX_PROPERTY) of the row to transition")
	toFlag := flag.String("to", "", "target status: DRAFT, PUBLISHED, SUCCESS, or FAILED")
	bulkFlag := flag.String("bulk", "", "CSV file of rows to transition instead of a single slug")
	validateURL := flag.Bool("validate-url", false, "require the row's URL to respond before transitioning")
	dryRun := flag.Bool("dry-run", false, "report what would change without writing")
	verbose := flag.Bool("verbose", false, "debug-level logging")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if *toFlag == "" {
		slog.Error("missing -to status")
		os.Exit(2)
	}
	target, err := state.Parse(*toFlag)
	if err != nil {
		slog.Error("invalid target status", "error", err)
		os.Exit(2)
	}
	if (*slugFlag == "") == (*bulkFlag == "") {
		slog.Error("exactly one of -slug or -bulk is required")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(2)
	}
	if err := cfg.RequireNotion(); err != nil {
		slog.Error("notion configuration incomplete", "error", err)
		os.Exit(2)
	}

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-interrupt
		slog.Warn("interrupted", "signal", sig)
		os.Exit(130)
	}()

	hc := httpx.New(time.Duration(cfg.NetTimeoutSec)*time.Second, cfg.NetRetries)
	logStore := notion.NewLogStore(notion.New(hc, cfg.NotionToken), cfg.NotionLogDB, cfg.NotionIndexProp)

	opts := []transition.Option{transition.WithDryRun(*dryRun)}
	if *validateURL {
		opts = append(opts, transition.WithChecker(liveness.New(time.Duration(cfg.NetTimeoutSec)*time.Second)))
	}
	if cfg.HasSlack() {
		opts = append(opts, transition.WithNotifier(notify.New(hc,
			notify.WithWebhook(cfg.SlackWebhookURL),
			notify.WithBot(cfg.SlackBotToken, cfg.SlackChannel),
		)))
	}
	runner := transition.New(logStore, target, opts...)

	ctx := context.Background()
	if *slugFlag != "" {
		if err := runner.Run(ctx, *slugFlag, ""); err != nil {
			slog.Error("transition failed", "index", *slugFlag, "error", err)
			os.Exit(1)
		}
		return
	}

	f, err := os.Open(*bulkFlag)
	if err != nil {
		slog.Error("failed to open bulk file", "path", *bulkFlag, "error", err)
		os.Exit(1)
	}
	rows, err := csvx.Read(f)
	f.Close()
	if err != nil {
		slog.Error("failed to parse bulk file", "path", *bulkFlag, "error", err)
		os.Exit(1)
	}

	failures := 0
	for i, row := range rows {
		if i > 0 {
			// Pace bulk writes; Notion throttles bursts well below its
			// documented limit.
			time.Sleep(200 * time.Millisecond)
		}
		index := row.Slug
		if cfg.NotionIndexProp == notion.IndexURL && row.URL != "" {
			index = row.URL
		}
		if err := runner.Run(ctx, index, row.URL); err != nil {
			slog.Error("transition failed", "index", index, "error", err)
			failures++
		}
	}
	slog.Info("bulk transition complete", "total", len(rows), "failed", failures)
	if failures > 0 {
		os.Exit(1)
	}
}
