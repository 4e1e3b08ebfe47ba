// Package main builds the weekly aggregate over the content log and
// stores it in Notion, with an optional CSV export for spreadsheets.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"autopress/internal/config"
	"autopress/internal/httpx"
	"autopress/internal/notify"
	"autopress/internal/notion"
	"autopress/internal/report"
)

func main() {
	days := flag.Int("days", 7, "period length in days, ending today")
	startFlag := flag.String("start", "", "period start (YYYY-MM-DD); overrides -days")
	endFlag := flag.String("end", "", "period end (YYYY-MM-DD); defaults to today")
	csvPath := flag.String("export-csv", "", "also write the report to this CSV file")
	dryRun := flag.Bool("dry-run", false, "aggregate and print without saving to Notion")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(2)
	}
	if err := cfg.RequireNotion(); err != nil {
		slog.Error("notion configuration incomplete", "error", err)
		os.Exit(2)
	}

	end := time.Now().UTC()
	if *endFlag != "" {
		end, err = time.Parse("2006-01-02", *endFlag)
		if err != nil {
			slog.Error("invalid -end date", "error", err)
			os.Exit(2)
		}
	}
	start := end.AddDate(0, 0, -(*days - 1))
	if *startFlag != "" {
		start, err = time.Parse("2006-01-02", *startFlag)
		if err != nil {
			slog.Error("invalid -start date", "error", err)
			os.Exit(2)
		}
	}

	hc := httpx.New(time.Duration(cfg.NetTimeoutSec)*time.Second, cfg.NetRetries)
	reporter := report.New(notion.New(hc, cfg.NotionToken), cfg.NotionLogDB,
		report.WithStatusSets(cfg.SuccessStatuses, cfg.PublishedStatuses),
		report.WithReportsDatabase(cfg.NotionReportsDB),
		report.WithParentPage(cfg.NotionParentPage),
	)

	ctx := context.Background()
	rep, err := reporter.Aggregate(ctx, start.Format("2006-01-02"), end.Format("2006-01-02"))
	if err != nil {
		slog.Error("aggregation failed", "error", err)
		os.Exit(1)
	}
	slog.Info("weekly report",
		"start", rep.PeriodStart,
		"end", rep.PeriodEnd,
		"total", rep.Total,
		"published", rep.PublishedCount,
		"success", rep.SuccessCount,
		"success_rate", rep.SuccessRate,
		"avg_last_ms", rep.AvgLastRunMs,
	)

	if *csvPath != "" {
		f, err := os.Create(*csvPath)
		if err != nil {
			slog.Error("failed to create csv file", "path", *csvPath, "error", err)
			os.Exit(1)
		}
		if err := report.ExportCSV(f, rep); err != nil {
			f.Close()
			slog.Error("csv export failed", "error", err)
			os.Exit(1)
		}
		f.Close()
		slog.Info("csv exported", "path", *csvPath)
	}

	if *dryRun {
		return
	}

	pageID, err := reporter.Save(ctx, rep)
	if err != nil {
		slog.Error("report save failed", "error", err)
		os.Exit(1)
	}
	slog.Info("report saved", "page_id", pageID)

	if cfg.MakeWebhookURL != "" {
		notifier := notify.New(hc, notify.WithMakeWebhook(cfg.MakeWebhookURL))
		if err := notifier.PingMake(ctx, "주간 리포트 저장 완료: "+rep.PeriodStart+"~"+rep.PeriodEnd); err != nil {
			slog.Warn("make webhook ping failed", "error", err)
		}
	}
}
