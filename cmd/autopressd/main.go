// Package main is the long-running daemon: it schedules pipeline runs
// and weekly reports with cron, and serves the JSON API with metrics
// and graceful shutdown.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"autopress/internal/ai"
	"autopress/internal/config"
	"autopress/internal/database"
	"autopress/internal/handlers"
	"autopress/internal/httpx"
	"autopress/internal/lock"
	"autopress/internal/models"
	"autopress/internal/notify"
	"autopress/internal/notion"
	"autopress/internal/pipeline"
	"autopress/internal/publish"
	"autopress/internal/report"
	"autopress/internal/router"
	"autopress/internal/storage"
	"autopress/internal/store"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(2)
	}
	for name, check := range map[string]error{
		"llm":      cfg.RequireLLM(),
		"database": cfg.RequireDatabase(),
	} {
		if check != nil {
			slog.Error("configuration incomplete", "section", name, "error", check)
			os.Exit(2)
		}
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
	}
	publisher := publish.NewRouter(hc, routerOpts...)

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

	var reporter *report.Reporter
	if err := cfg.RequireNotion(); err == nil {
		nc := notion.New(hc, cfg.NotionToken)
		logStore := notion.NewLogStore(nc, cfg.NotionLogDB, cfg.NotionIndexProp)
		pipeOpts = append(pipeOpts, pipeline.WithLogSync(logStore))
		reporter = report.New(nc, cfg.NotionLogDB,
			report.WithStatusSets(cfg.SuccessStatuses, cfg.PublishedStatuses),
			report.WithReportsDatabase(cfg.NotionReportsDB),
			report.WithParentPage(cfg.NotionParentPage),
		)
	} else {
		slog.Warn("notion log store not configured", "error", err)
	}
	pipe := pipeline.New(selector, publisher, pipeOpts...)

	locker, err := lock.New(cfg.RedisAddr, cfg.RedisPassword)
	if err != nil {
		slog.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}
	defer locker.Close()

	runAll := func(ctx context.Context) {
		targets, err := destStore.ListActive()
		if err != nil {
			slog.Error("scheduled run: destination load failed", "error", err)
			return
		}
		failures := 0
		for i := range targets {
			dest := &targets[i]
			release, err := locker.Acquire(ctx, fmt.Sprintf("dest-%d", dest.ID), 10*time.Minute)
			if err != nil {
				slog.Warn("scheduled run: destination skipped", "destination", dest.Name, "error", err)
				continue
			}
			if _, err := pipe.Run(ctx, dest, ""); err != nil {
				slog.Error("scheduled run failed", "destination", dest.Name, "error", err)
				failures++
			}
			release()
		}
		succeeded := len(targets) - failures
		slog.Info("scheduled run complete", "succeeded", succeeded, "total", len(targets))
		if notifier != nil {
			summary := fmt.Sprintf("실행 완료: %d/%d 성공", succeeded, len(targets))
			if err := notifier.Summary(ctx, summary); err != nil {
				slog.Warn("summary notification failed", "error", err)
			}
		}
	}

	var reportFunc handlers.ReportFunc
	if reporter != nil {
		reportFunc = func(ctx context.Context) (*models.Report, string, error) {
			end := time.Now().UTC()
			start := end.AddDate(0, 0, -6)
			rep, err := reporter.Aggregate(ctx, start.Format("2006-01-02"), end.Format("2006-01-02"))
			if err != nil {
				return nil, "", err
			}
			pageID, err := reporter.Save(ctx, rep)
			if err != nil {
				return rep, "", err
			}
			if notifier != nil {
				msg := fmt.Sprintf("주간 리포트 저장 완료: %s~%s, 성공률 %.2f%%",
					rep.PeriodStart, rep.PeriodEnd, rep.SuccessRate*100)
				if err := notifier.PingMake(ctx, msg); err != nil {
					slog.Warn("make webhook ping failed", "error", err)
				}
			}
			return rep, pageID, nil
		}
	}

	c := cron.New()
	if _, err := c.AddFunc(cfg.RunSchedule, func() { runAll(context.Background()) }); err != nil {
		slog.Error("invalid run schedule", "spec", cfg.RunSchedule, "error", err)
		os.Exit(1)
	}
	if reportFunc != nil {
		if _, err := c.AddFunc(cfg.ReportSchedule, func() {
			if _, _, err := reportFunc(context.Background()); err != nil {
				slog.Error("scheduled report failed", "error", err)
			}
		}); err != nil {
			slog.Error("invalid report schedule", "spec", cfg.ReportSchedule, "error", err)
			os.Exit(1)
		}
	}
	c.Start()
	defer c.Stop()
	slog.Info("scheduler started", "run", cfg.RunSchedule, "report", cfg.ReportSchedule)

	api := handlers.NewAPI(destStore, articleStore, auditLog, pipe, reportFunc)
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: router.New(api, cfg.APIToken),
		// Write timeout covers synchronous /run triggers, which wait on
		// LLM calls and the publish round trip.
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped gracefully")
}
