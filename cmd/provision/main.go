// Package main brings a Notion content-log database up to the expected
// schema, and can create the reports database alongside it.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"autopress/internal/config"
	"autopress/internal/httpx"
	"autopress/internal/notion"
)

func main() {
	style := flag.String("style", notion.StyleLegacy, "schema style: legacy, canonical, or both")
	dbFlag := flag.String("db", "", "content-log database ID or Notion URL (defaults to NOTION_DB_CONTENT_LOG)")
	reports := flag.Bool("reports", false, "also create the reports database under NOTION_PARENT_PAGE")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	var styles []string
	switch *style {
	case notion.StyleLegacy, notion.StyleCanonical:
		styles = []string{*style}
	case "both":
		styles = []string{notion.StyleLegacy, notion.StyleCanonical}
	default:
		slog.Error("unknown -style", "style", *style)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(2)
	}
	if cfg.NotionToken == "" {
		slog.Error("NOTION_TOKEN is not set")
		os.Exit(2)
	}

	dbID := cfg.NotionLogDB
	if *dbFlag != "" {
		dbID = notion.ParseID(*dbFlag)
	}
	if !notion.ValidDatabaseID(dbID) {
		slog.Error("database ID must be 32 hex characters (pass -db with the ID or the database URL)")
		os.Exit(2)
	}

	hc := httpx.New(time.Duration(cfg.NetTimeoutSec)*time.Second, cfg.NetRetries)
	client := notion.New(hc, cfg.NotionToken)
	ctx := context.Background()

	for _, s := range styles {
		added, err := client.Provision(ctx, dbID, s)
		if err != nil {
			slog.Error("provisioning failed", "db_id", dbID, "style", s, "error", err)
			os.Exit(1)
		}
		if len(added) == 0 {
			slog.Info("schema already complete", "db_id", dbID, "style", s)
		} else {
			slog.Info("schema updated", "db_id", dbID, "style", s, "added", added)
		}
		if s == notion.StyleCanonical {
			slog.Info("canonical status options cannot be set via the API; add them in the Notion UI")
		}
	}

	if *reports {
		if cfg.NotionParentPage == "" {
			slog.Error("NOTION_PARENT_PAGE must be set to create the reports database")
			os.Exit(2)
		}
		reportsID, err := client.CreateReportsDatabase(ctx, cfg.NotionParentPage)
		if err != nil {
			slog.Error("reports database creation failed", "error", err)
			os.Exit(1)
		}
		slog.Info("reports database created", "db_id", reportsID,
			"hint", "set NOTION_DB_REPORTS to this ID")
	}
}
