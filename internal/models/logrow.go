// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"autopress/internal/state"
)

// LogRow is the logical row the Notion log store keeps per content item,
// keyed by slug. Fields map onto the legacy PascalCase property schema
// (Slug rich_text, Status select, URL url, SlackTS rich_text, LastRunMs
// number plus the lowercase date properties).
type LogRow struct {
	PageID      string // Notion page ID, empty until first sync
	Title       string
	Slug        string
	URL         string
	Status      state.Status
	Keywords    []string
	SlackTS     string // opaque notifier thread handle
	LastRunMs   *float64
	ErrorMsg    string
	Thumbnail   string // external URL only; local files never sync here
	CreatedAt   *time.Time
	UpdatedAt   *time.Time
	PublishedAt *time.Time
	SucceededAt *time.Time
}

// Report is one aggregate row over the log store for an inclusive period.
// Write-once; its lifecycle is independent from LogRow.
type Report struct {
	PeriodStart    string // YYYY-MM-DD, UTC
	PeriodEnd      string // YYYY-MM-DD, UTC
	Total          int
	PublishedCount int
	SuccessCount   int
	SuccessRate    float64 // success/total, 0 when total is 0
	AvgLastRunMs   float64 // mean over rows with a value, 0 when none
}
