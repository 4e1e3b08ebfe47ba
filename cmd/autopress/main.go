// Package main is the one-shot pipeline runner: it generates, renders,
// and publishes one post per selected destination, then exits. Scheduled
// operation lives in the autopressd daemon.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"autopress/internal/ai"
	"autopress/internal/config"
	"autopress/internal/database"
	"autopress/internal/httpx"
	"autopress/internal/lock"
	"autopress/internal/models"
	"autopress/internal/notify"
	"autopress/internal/notion"
	"autopress/internal/pipeline"
	"autopress/internal/publish"
	"autopress/internal/storage"
	"autopress/internal/store"
)

func main() {
	destinationID := flag.Int64("destination", 0, "run a single destination by ID (0 = all active)")
	topic := flag.String("topic", "", "seed topic; skips topic generation")
	dryRun := flag.Bool("dry-run", false, "compose and print the document without publishing")
	verbose := flag.Bool("verbose", false, "debug-level logging")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(2)
	}
	if err := cfg.RequireLLM(); err != nil {
		slog.Error("llm configuration incomplete", "error", err)
		os.Exit(2)
	}

	hc := httpx.New(time.Duration(cfg.NetTimeoutSec)*time.Second, cfg.NetRetries)
	// Draft generation runs long; the LLM client gets its own timeout.
	llmHC := httpx.New(60*time.Second, cfg.NetRetries)

	selector, err := ai.NewSelector(llmHC,
		ai.ProviderConfig{APIKey: cfg.OpenAIKey, Model: cfg.OpenAIModel, BaseURL: cfg.OpenAIBaseURL},
		ai.ProviderConfig{APIKey: cfg.ClaudeKey, Model: cfg.ClaudeModel, BaseURL: cfg.ClaudeBaseURL},
	)
	if err != nil {
		slog.Error("failed to initialize llm providers", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	if *dryRun {
		p := pipeline.New(selector, printPublisher{})
		dest := &models.Destination{ID: 0, Name: "dry-run", Platform: models.PlatformTistory, Category: "general", Active: true}
		if _, err := p.Run(ctx, dest, *topic); err != nil {
			slog.Error("dry run failed", "error", err)
			os.Exit(1)
		}
		return
	}

	if err := cfg.RequireDatabase(); err != nil {
		slog.Error("database configuration incomplete", "error", err)
		os.Exit(2)
	}
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	destStore := store.NewDestinationStore(db)
	articleStore := store.NewArticleStore(db)
	auditLog := store.NewExecutionLogStore(db)

	routerOpts := []publish.Option{
		publish.WithAuditLog(auditLog),
		publish.WithWordPress(cfg.EnableWordPress),
	}
	s3, err := storage.New(cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket, cfg.S3PublicURL)
	if err != nil {
		slog.Error("failed to initialize s3 storage", "error", err)
		os.Exit(1)
	}
	if s3 != nil {
		routerOpts = append(routerOpts, publish.WithPackager(s3))
	} else {
		routerOpts = append(routerOpts, publish.WithLocalDir(cfg.PackageDir))
		slog.Warn("s3 packaging not configured; packages go to a local directory", "dir", cfg.PackageDir)
	}
	router := publish.NewRouter(hc, routerOpts...)

	var notifier *notify.Notifier
	pipeOpts := []pipeline.Option{pipeline.WithArticleWriter(articleStore)}
	if cfg.HasSlack() || cfg.MakeWebhookURL != "" {
		notifier = notify.New(hc,
			notify.WithWebhook(cfg.SlackWebhookURL),
			notify.WithBot(cfg.SlackBotToken, cfg.SlackChannel),
			notify.WithMention(cfg.AlertMention),
			notify.WithMakeWebhook(cfg.MakeWebhookURL),
		)
		pipeOpts = append(pipeOpts, pipeline.WithAnnouncer(notifier))
	}
	if err := cfg.RequireNotion(); err == nil {
		logStore := notion.NewLogStore(notion.New(hc, cfg.NotionToken), cfg.NotionLogDB, cfg.NotionIndexProp)
		pipeOpts = append(pipeOpts, pipeline.WithLogSync(logStore))
	} else {
		slog.Warn("notion log store not configured", "error", err)
	}
	p := pipeline.New(selector, router, pipeOpts...)

	locker, err := lock.New(cfg.RedisAddr, cfg.RedisPassword)
	if err != nil {
		slog.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}
	defer locker.Close()

	targets, err := selectTargets(destStore, *destinationID)
	if err != nil {
		slog.Error("failed to load destinations", "error", err)
		os.Exit(1)
	}
	if len(targets) == 0 {
		slog.Error("no active destinations to run")
		os.Exit(1)
	}

	failures := 0
	for i := range targets {
		dest := &targets[i]
		release, err := locker.Acquire(ctx, fmt.Sprintf("dest-%d", dest.ID), 10*time.Minute)
		if err != nil {
			slog.Warn("destination skipped", "destination", dest.Name, "error", err)
			continue
		}
		_, err = p.Run(ctx, dest, *topic)
		release()
		if err != nil {
			slog.Error("run failed", "destination", dest.Name, "error", err)
			failures++
		}
	}

	succeeded := len(targets) - failures
	slog.Info("run complete", "succeeded", succeeded, "total", len(targets))
	if notifier != nil {
		summary := fmt.Sprintf("실행 완료: %d/%d 성공", succeeded, len(targets))
		if err := notifier.Summary(ctx, summary); err != nil {
			slog.Warn("summary notification failed", "error", err)
		}
	}
	if failures > 0 {
		os.Exit(1)
	}
}

func selectTargets(destStore *store.DestinationStore, id int64) ([]models.Destination, error) {
	if id == 0 {
		return destStore.ListActive()
	}
	dest, err := destStore.FindByID(id)
	if err != nil {
		return nil, err
	}
	if dest == nil {
		return nil, fmt.Errorf("no destination with id %d", id)
	}
	return []models.Destination{*dest}, nil
}

// printPublisher writes the composed document to stdout instead of
// delivering it anywhere.
type printPublisher struct{}

func (printPublisher) Publish(_ context.Context, _ *models.Destination, item *models.ContentItem) (*publish.Result, error) {
	fmt.Println(item.BodyHTML)
	return &publish.Result{Platform: models.PlatformTistory, PackageURI: "dry-run://" + item.Slug}, nil
}
