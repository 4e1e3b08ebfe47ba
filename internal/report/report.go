// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package report aggregates the content log into weekly numbers and
// writes them back to Notion. Rows are selected by the Ts date property
// when the log database has one; databases without it fall back to the
// built-in created_time timestamp.
package report

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"autopress/internal/models"
	"autopress/internal/notion"
)

// api is the slice of the Notion client the reporter uses.
type api interface {
	GetDatabase(ctx context.Context, dbID string) (*notion.Database, error)
	QueryAll(ctx context.Context, dbID string, filter *notion.Filter) ([]notion.Page, error)
	CreatePage(ctx context.Context, dbID string, props notion.Properties, children []notion.Block) (string, error)
	CreateChildPage(ctx context.Context, parentPageID, title string, children []notion.Block) (string, error)
	DatabaseParentPageID(ctx context.Context, dbID string) (string, error)
}

// Reporter builds and stores weekly aggregates over one log database.
type Reporter struct {
	client api
	logDB  string

	// Which statuses count toward each metric; operators can widen
	// these (e.g. count PUBLISHED as success) without a redeploy.
	successStatuses   map[string]bool
	publishedStatuses map[string]bool

	// Save fallback chain targets.
	reportsDB  string
	parentPage string
}

// Option configures a Reporter.
type Option func(*Reporter)

// WithStatusSets overrides which statuses count as success/published.
func WithStatusSets(success, published []string) Option {
	return func(r *Reporter) {
		r.successStatuses = statusSet(success)
		r.publishedStatuses = statusSet(published)
	}
}

// WithReportsDatabase sets the dedicated reports database ID.
func WithReportsDatabase(dbID string) Option {
	return func(r *Reporter) { r.reportsDB = dbID }
}

// WithParentPage sets the fallback parent page for report child pages.
func WithParentPage(pageID string) Option {
	return func(r *Reporter) { r.parentPage = pageID }
}

func statusSet(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[strings.ToUpper(strings.TrimSpace(n))] = true
	}
	return set
}

// New creates a Reporter over the given content-log database.
func New(client api, logDB string, opts ...Option) *Reporter {
	r := &Reporter{
		client:            client,
		logDB:             logDB,
		successStatuses:   statusSet([]string{"SUCCESS"}),
		publishedStatuses: statusSet([]string{"PUBLISHED", "SUCCESS"}),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Aggregate counts log rows between start and end (inclusive, ISO
// dates) and computes the success rate and average run latency.
func (r *Reporter) Aggregate(ctx context.Context, start, end string) (*models.Report, error) {
	pages, err := r.rowsInPeriod(ctx, start, end)
	if err != nil {
		return nil, err
	}

	rep := &models.Report{PeriodStart: start, PeriodEnd: end, Total: len(pages)}
	var latencySum float64
	var latencyCount int
	for _, page := range pages {
		status := strings.ToUpper(page.Properties["Status"].SelectName())
		if r.successStatuses[status] {
			rep.SuccessCount++
		}
		if r.publishedStatuses[status] {
			rep.PublishedCount++
		}
		if ms, ok := page.Properties["LastRunMs"].NumberValue(); ok {
			latencySum += ms
			latencyCount++
		}
	}

	if rep.Total > 0 {
		rep.SuccessRate = round(float64(rep.SuccessCount)/float64(rep.Total), 4)
	}
	if latencyCount > 0 {
		rep.AvgLastRunMs = round(latencySum/float64(latencyCount), 2)
	}
	return rep, nil
}

// rowsInPeriod prefers the Ts date property and falls back to the
// created_time timestamp when Ts is absent or matched nothing (rows
// created before the property existed have it empty).
func (r *Reporter) rowsInPeriod(ctx context.Context, start, end string) ([]notion.Page, error) {
	db, err := r.client.GetDatabase(ctx, r.logDB)
	if err != nil {
		return nil, err
	}

	window := &notion.DateFilter{OnOrAfter: start, OnOrBefore: end}
	if db.HasProperty("Ts") {
		pages, err := r.client.QueryAll(ctx, r.logDB, &notion.Filter{Property: "Ts", Date: window})
		if err != nil {
			return nil, err
		}
		if len(pages) > 0 {
			return pages, nil
		}
		slog.Info("no rows matched Ts, falling back to created_time", "db_id", r.logDB)
	}
	return r.client.QueryAll(ctx, r.logDB, &notion.Filter{Timestamp: "created_time", CreatedTime: window})
}

func round(v float64, places int) float64 {
	factor := math.Pow(10, float64(places))
	return math.Round(v*factor) / factor
}

// reportTitle is the page title for a saved report.
func reportTitle(rep *models.Report) string {
	return fmt.Sprintf("Weekly Report %s~%s", rep.PeriodStart, rep.PeriodEnd)
}

func reportProps(rep *models.Report) notion.Properties {
	return notion.Properties{
		"Name":           notion.Title(reportTitle(rep)),
		"PeriodStart":    notion.DateString(rep.PeriodStart),
		"PeriodEnd":      notion.DateString(rep.PeriodEnd),
		"Total":          notion.Number(float64(rep.Total)),
		"PublishedCount": notion.Number(float64(rep.PublishedCount)),
		"SuccessCount":   notion.Number(float64(rep.SuccessCount)),
		"SuccessRate":    notion.Number(rep.SuccessRate),
		"AvgLastRunMs":   notion.Number(rep.AvgLastRunMs),
	}
}

// reportBlocks renders the report as page content, used when the report
// lands on a plain page instead of the reports database.
func reportBlocks(rep *models.Report) []notion.Block {
	return []notion.Block{
		notion.Heading2Block(fmt.Sprintf("기간: %s ~ %s", rep.PeriodStart, rep.PeriodEnd)),
		notion.BulletBlock(fmt.Sprintf("총 포스트: %d", rep.Total)),
		notion.BulletBlock(fmt.Sprintf("발행: %d", rep.PublishedCount)),
		notion.BulletBlock(fmt.Sprintf("성공: %d", rep.SuccessCount)),
		notion.BulletBlock(fmt.Sprintf("성공률: %.4f", rep.SuccessRate)),
		notion.BulletBlock(fmt.Sprintf("평균 소요: %.2f ms", rep.AvgLastRunMs)),
	}
}

// Save writes the report to Notion, trying each configured target in
// order: the reports database, the configured parent page, then the log
// database's own parent page. Returns the created page ID.
func (r *Reporter) Save(ctx context.Context, rep *models.Report) (string, error) {
	if r.reportsDB != "" {
		id, err := r.client.CreatePage(ctx, r.reportsDB, reportProps(rep), reportBlocks(rep))
		if err == nil {
			return id, nil
		}
		slog.Warn("report save to reports database failed", "db_id", r.reportsDB, "error", err)
	}

	if r.parentPage != "" {
		id, err := r.client.CreateChildPage(ctx, r.parentPage, reportTitle(rep), reportBlocks(rep))
		if err == nil {
			return id, nil
		}
		slog.Warn("report save to parent page failed", "page_id", r.parentPage, "error", err)
	}

	parent, err := r.client.DatabaseParentPageID(ctx, r.logDB)
	if err == nil && parent != "" {
		id, err := r.client.CreateChildPage(ctx, parent, reportTitle(rep), reportBlocks(rep))
		if err == nil {
			return id, nil
		}
		slog.Warn("report save to log database parent failed", "page_id", parent, "error", err)
	}

	return "", fmt.Errorf("report: no writable target\n" +
		"  set NOTION_DB_REPORTS to a reports database the integration can write, or\n" +
		"  set NOTION_PARENT_PAGE to a page shared with the integration, or\n" +
		"  move the content log database under a page the integration can access")
}

// csvHeader is the fixed column order of the CSV export.
var csvHeader = []string{"start", "end", "total", "published", "success", "success_rate", "avg_last_ms"}

// ExportCSV writes the report as a single-row CSV with a header.
func ExportCSV(w io.Writer, rep *models.Report) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("report csv header: %w", err)
	}
	row := []string{
		rep.PeriodStart,
		rep.PeriodEnd,
		strconv.Itoa(rep.Total),
		strconv.Itoa(rep.PublishedCount),
		strconv.Itoa(rep.SuccessCount),
		strconv.FormatFloat(rep.SuccessRate, 'f', 4, 64),
		strconv.FormatFloat(rep.AvgLastRunMs, 'f', 2, 64),
	}
	if err := cw.Write(row); err != nil {
		return fmt.Errorf("report csv row: %w", err)
	}
	cw.Flush()
	return cw.Error()
}
