// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"autopress/internal/models"
	"autopress/internal/pipeline"
)

type fakeDestinations struct {
	active []models.Destination
}

func (f *fakeDestinations) ListActive() ([]models.Destination, error) {
	return f.active, nil
}

func (f *fakeDestinations) FindByID(id int64) (*models.Destination, error) {
	for _, d := range f.active {
		if d.ID == id {
			return &d, nil
		}
	}
	return nil, nil
}

type fakeRunner struct {
	runs []string // destination names, in order
	err  error
}

func (f *fakeRunner) Run(_ context.Context, dest *models.Destination, seedTopic string) (*pipeline.Outcome, error) {
	f.runs = append(f.runs, dest.Name)
	if f.err != nil {
		return nil, f.err
	}
	return &pipeline.Outcome{Slug: "slug-" + dest.Name, URL: "https://x/" + dest.Name}, nil
}

func twoDestinations() *fakeDestinations {
	return &fakeDestinations{active: []models.Destination{
		{ID: 1, Name: "alpha", Platform: models.PlatformWPCom, Active: true, WPComToken: "secret-token"},
		{ID: 2, Name: "beta", Platform: models.PlatformTistory, Active: true},
	}}
}

func TestDestinationsHidesCredentials(t *testing.T) {
	api := NewAPI(twoDestinations(), nil, nil, &fakeRunner{}, nil)
	rec := httptest.NewRecorder()
	api.Destinations(rec, httptest.NewRequest(http.MethodGet, "/destinations", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "secret-token") {
		t.Error("credentials leaked into the listing")
	}
	var views []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &views); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(views) != 2 || views[0]["name"] != "alpha" {
		t.Errorf("views: got %v", views)
	}
}

func TestRunNowSingleDestination(t *testing.T) {
	runner := &fakeRunner{}
	api := NewAPI(twoDestinations(), nil, nil, runner, nil)

	rec := httptest.NewRecorder()
	api.RunNow(rec, httptest.NewRequest(http.MethodPost, "/run?destination=2&topic=수동", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, body %s", rec.Code, rec.Body.String())
	}
	if len(runner.runs) != 1 || runner.runs[0] != "beta" {
		t.Errorf("runs: got %v", runner.runs)
	}
}

func TestRunNowAllActive(t *testing.T) {
	runner := &fakeRunner{}
	api := NewAPI(twoDestinations(), nil, nil, runner, nil)

	rec := httptest.NewRecorder()
	api.RunNow(rec, httptest.NewRequest(http.MethodPost, "/run", nil))

	if len(runner.runs) != 2 {
		t.Errorf("runs: got %v", runner.runs)
	}
}

func TestRunNowUnknownDestination(t *testing.T) {
	api := NewAPI(twoDestinations(), nil, nil, &fakeRunner{}, nil)
	rec := httptest.NewRecorder()
	api.RunNow(rec, httptest.NewRequest(http.MethodPost, "/run?destination=99", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("status: got %d", rec.Code)
	}
}

func TestRunNowReportsPerDestinationErrors(t *testing.T) {
	runner := &fakeRunner{err: errors.New("publish blew up")}
	api := NewAPI(twoDestinations(), nil, nil, runner, nil)

	rec := httptest.NewRecorder()
	api.RunNow(rec, httptest.NewRequest(http.MethodPost, "/run", nil))

	// One destination failing must not abort the batch or the response.
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d", rec.Code)
	}
	if len(runner.runs) != 2 {
		t.Errorf("runs: got %v", runner.runs)
	}
	if !strings.Contains(rec.Body.String(), "publish blew up") {
		t.Errorf("body missing error detail: %s", rec.Body.String())
	}
}

type fakeLogs struct {
	cutoff time.Time
	items  []models.ExecutionLog
}

func (f *fakeLogs) ListSince(cutoff time.Time) ([]models.ExecutionLog, error) {
	f.cutoff = cutoff
	return f.items, nil
}

func TestLogsDefaultsToLastDay(t *testing.T) {
	logs := &fakeLogs{items: []models.ExecutionLog{{Step: "publish", Status: "success"}}}
	api := NewAPI(twoDestinations(), nil, logs, &fakeRunner{}, nil)

	rec := httptest.NewRecorder()
	api.Logs(rec, httptest.NewRequest(http.MethodGet, "/logs", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d", rec.Code)
	}
	if got := time.Since(logs.cutoff); got < 23*time.Hour || got > 25*time.Hour {
		t.Errorf("cutoff window: got %v, want ~24h", got)
	}
	if !strings.Contains(rec.Body.String(), "publish") {
		t.Errorf("body: %s", rec.Body.String())
	}
}

func TestLogsRejectsBadWindow(t *testing.T) {
	api := NewAPI(twoDestinations(), nil, &fakeLogs{}, &fakeRunner{}, nil)
	for _, hours := range []string{"0", "-3", "999", "abc"} {
		rec := httptest.NewRecorder()
		api.Logs(rec, httptest.NewRequest(http.MethodGet, "/logs?hours="+hours, nil))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("hours=%s: got %d, want 400", hours, rec.Code)
		}
	}
}

func TestLogsUnconfigured(t *testing.T) {
	api := NewAPI(twoDestinations(), nil, nil, &fakeRunner{}, nil)
	rec := httptest.NewRecorder()
	api.Logs(rec, httptest.NewRequest(http.MethodGet, "/logs", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status: got %d", rec.Code)
	}
}

func TestReportNowUnconfigured(t *testing.T) {
	api := NewAPI(twoDestinations(), nil, nil, &fakeRunner{}, nil)
	rec := httptest.NewRecorder()
	api.ReportNow(rec, httptest.NewRequest(http.MethodPost, "/report", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status: got %d", rec.Code)
	}
}

func TestReportNow(t *testing.T) {
	report := func(context.Context) (*models.Report, string, error) {
		return &models.Report{PeriodStart: "2026-08-24", PeriodEnd: "2026-08-30", Total: 3}, "page-7", nil
	}
	api := NewAPI(twoDestinations(), nil, nil, &fakeRunner{}, report)

	rec := httptest.NewRecorder()
	api.ReportNow(rec, httptest.NewRequest(http.MethodPost, "/report", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "page-7") {
		t.Errorf("body: %s", rec.Body.String())
	}
}
