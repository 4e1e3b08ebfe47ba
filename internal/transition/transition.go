// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package transition moves one content-log row through the status
// lifecycle: look the row up, validate the move, optionally verify the
// published URL is alive, write the change, and announce it.
package transition

import (
	"context"
	"fmt"
	"log/slog"

	"autopress/internal/notion"
	"autopress/internal/state"
)

// Store finds and rewrites content-log rows. Satisfied by the Notion
// log store.
type Store interface {
	Find(ctx context.Context, index string) (*notion.Page, error)
	Transition(ctx context.Context, index string, target state.Status) (*notion.Page, error)
}

// URLChecker verifies a published URL answers with live content.
type URLChecker interface {
	Check(ctx context.Context, rawURL string) error
}

// Notifier announces a completed status change, threading onto the
// row's original Slack message when one exists.
type Notifier interface {
	StatusChange(ctx context.Context, slug, status, threadTS string) error
}

// Runner applies one target status to rows by index.
type Runner struct {
	store    Store
	checker  URLChecker
	notifier Notifier
	target   state.Status
	dryRun   bool
}

// Option configures a Runner.
type Option func(*Runner)

// WithChecker requires the row's URL to pass the liveness check before
// a move into PUBLISHED is written.
func WithChecker(c URLChecker) Option {
	return func(r *Runner) { r.checker = c }
}

// WithNotifier announces each completed change.
func WithNotifier(n Notifier) Option {
	return func(r *Runner) { r.notifier = n }
}

// WithDryRun reports what would change without writing.
func WithDryRun(dry bool) Option {
	return func(r *Runner) { r.dryRun = dry }
}

// New creates a Runner that moves rows to the target status.
func New(store Store, target state.Status, opts ...Option) *Runner {
	r := &Runner{store: store, target: target}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run transitions one row. urlHint overrides the row's URL property for
// the liveness check; bulk CSVs often carry fresher URLs than the log.
func (r *Runner) Run(ctx context.Context, index, urlHint string) error {
	page, err := r.store.Find(ctx, index)
	if err != nil {
		return err
	}
	if page == nil {
		return fmt.Errorf("no row with index %q", index)
	}

	current, err := notion.PageStatus(page)
	if err != nil {
		return err
	}
	if err := state.Validate(current, r.target); err != nil {
		return err
	}

	// Liveness only guards the move into PUBLISHED. Retiring a row to
	// FAILED must work while its URL is down.
	if r.checker != nil && r.target == state.StatusPublished {
		checkURL := urlHint
		if checkURL == "" {
			if u := page.Properties["URL"].URL; u != nil {
				checkURL = *u
			}
		}
		if checkURL == "" {
			return fmt.Errorf("row %q has no URL to validate", index)
		}
		if err := r.checker.Check(ctx, checkURL); err != nil {
			return err
		}
	}

	if r.dryRun {
		from := "(none)"
		if current != nil {
			from = string(*current)
		}
		slog.Info("dry run", "index", index, "from", from, "to", r.target)
		return nil
	}

	page, err = r.store.Transition(ctx, index, r.target)
	if err != nil {
		return err
	}
	slog.Info("transitioned", "index", index, "to", r.target, "page_id", page.ID)

	if r.notifier != nil {
		threadTS := notion.PageSlackTS(page)
		if err := r.notifier.StatusChange(ctx, index, string(r.target), threadTS); err != nil {
			slog.Warn("status change notification failed", "index", index, "error", err)
		}
	}
	return nil
}
