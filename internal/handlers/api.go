// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers implements the daemon's JSON API: health, read-only
// destination/article listings, and the token-guarded run triggers.
package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"autopress/internal/models"
	"autopress/internal/pipeline"
)

// DestinationReader lists publishing destinations.
type DestinationReader interface {
	ListActive() ([]models.Destination, error)
	FindByID(id int64) (*models.Destination, error)
}

// ArticleReader lists persisted articles.
type ArticleReader interface {
	ListByDestination(destinationID int64, limit int) ([]models.Article, error)
}

// LogReader lists recent execution records.
type LogReader interface {
	ListSince(cutoff time.Time) ([]models.ExecutionLog, error)
}

// Runner executes one pipeline run.
type Runner interface {
	Run(ctx context.Context, dest *models.Destination, seedTopic string) (*pipeline.Outcome, error)
}

// ReportFunc aggregates and stores the weekly report, returning the
// report and the Notion page it was written to.
type ReportFunc func(ctx context.Context) (*models.Report, string, error)

// API bundles the daemon's HTTP handlers.
type API struct {
	destinations DestinationReader
	articles     ArticleReader
	logs         LogReader
	runner       Runner
	report       ReportFunc
}

// NewAPI creates the handler set. articles, logs, and report may be nil;
// their endpoints then answer 503.
func NewAPI(destinations DestinationReader, articles ArticleReader, logs LogReader, runner Runner, report ReportFunc) *API {
	return &API{destinations: destinations, articles: articles, logs: logs, runner: runner, report: report}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("response encode failed", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// Health answers the liveness probe.
func (a *API) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// destinationView hides credentials from the listing.
type destinationView struct {
	ID       int64           `json:"id"`
	Name     string          `json:"name"`
	BaseURL  string          `json:"base_url"`
	Platform models.Platform `json:"platform"`
	Category string          `json:"category"`
	Active   bool            `json:"active"`
}

// Destinations lists active destinations without credentials.
func (a *API) Destinations(w http.ResponseWriter, r *http.Request) {
	dests, err := a.destinations.ListActive()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	views := make([]destinationView, 0, len(dests))
	for _, d := range dests {
		views = append(views, destinationView{
			ID: d.ID, Name: d.Name, BaseURL: d.BaseURL,
			Platform: d.Platform, Category: d.Category, Active: d.Active,
		})
	}
	writeJSON(w, http.StatusOK, views)
}

// Articles lists recent articles for one destination.
func (a *API) Articles(w http.ResponseWriter, r *http.Request) {
	if a.articles == nil {
		writeError(w, http.StatusServiceUnavailable, "article store not configured")
		return
	}
	destID, err := strconv.ParseInt(r.URL.Query().Get("destination"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "destination query parameter must be a numeric ID")
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	items, err := a.articles.ListByDestination(destID, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// Logs lists execution records from the recent past. ?hours= bounds the
// window (default 24, max one week).
func (a *API) Logs(w http.ResponseWriter, r *http.Request) {
	if a.logs == nil {
		writeError(w, http.StatusServiceUnavailable, "execution log store not configured")
		return
	}
	hours := 24
	if raw := r.URL.Query().Get("hours"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 168 {
			writeError(w, http.StatusBadRequest, "hours must be between 1 and 168")
			return
		}
		hours = n
	}
	items, err := a.logs.ListSince(time.Now().Add(-time.Duration(hours) * time.Hour))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if items == nil {
		items = []models.ExecutionLog{}
	}
	writeJSON(w, http.StatusOK, items)
}

// RunNow triggers a pipeline run. With ?destination= it runs one
// destination; without it, every active one. ?topic= seeds the topic.
func (a *API) RunNow(w http.ResponseWriter, r *http.Request) {
	topic := r.URL.Query().Get("topic")

	var targets []models.Destination
	if raw := r.URL.Query().Get("destination"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "destination query parameter must be a numeric ID")
			return
		}
		dest, err := a.destinations.FindByID(id)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if dest == nil {
			writeError(w, http.StatusNotFound, "no such destination")
			return
		}
		targets = []models.Destination{*dest}
	} else {
		var err error
		targets, err = a.destinations.ListActive()
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
	}

	type runResult struct {
		Destination string `json:"destination"`
		Slug        string `json:"slug,omitempty"`
		URL         string `json:"url,omitempty"`
		PackageURI  string `json:"package_uri,omitempty"`
		Error       string `json:"error,omitempty"`
	}
	results := make([]runResult, 0, len(targets))
	for i := range targets {
		dest := &targets[i]
		out, err := a.runner.Run(r.Context(), dest, topic)
		if err != nil {
			results = append(results, runResult{Destination: dest.Name, Error: err.Error()})
			continue
		}
		results = append(results, runResult{
			Destination: dest.Name, Slug: out.Slug, URL: out.URL, PackageURI: out.PackageURI,
		})
	}
	writeJSON(w, http.StatusOK, results)
}

// ReportNow triggers the weekly report.
func (a *API) ReportNow(w http.ResponseWriter, r *http.Request) {
	if a.report == nil {
		writeError(w, http.StatusServiceUnavailable, "reporting not configured")
		return
	}
	rep, pageID, err := a.report(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"report": rep, "page_id": pageID})
}
