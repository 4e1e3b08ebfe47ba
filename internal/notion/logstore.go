// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package notion

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"autopress/internal/models"
	"autopress/internal/state"
)

// IndexSlug and IndexURL are the two supported upsert keys.
const (
	IndexSlug = "Slug"
	IndexURL  = "URL"
)

// LogStore keeps one row per content item in a Notion database, keyed
// by slug (or URL, per configuration). Rows are upserted: created on
// first sync, patched afterwards, never deleted here.
//
// Read-modify-write against Notion is not atomic; concurrent callers on
// the same slug can race. Publishing is operator-triggered and
// low-concurrency, so the store accepts eventual correctness.
type LogStore struct {
	client    *Client
	dbID      string
	indexProp string

	schema *Database // cached; fetched once per process
}

// NewLogStore creates a LogStore over the given content-log database.
// indexProp must be IndexSlug or IndexURL.
func NewLogStore(client *Client, dbID, indexProp string) *LogStore {
	if indexProp != IndexURL {
		indexProp = IndexSlug
	}
	return &LogStore{client: client, dbID: dbID, indexProp: indexProp}
}

// DatabaseID returns the content-log database ID.
func (s *LogStore) DatabaseID() string {
	return s.dbID
}

// db returns the cached database schema, fetching it on first use.
// Writes consult the schema so only properties that exist in the target
// database are sent; unknown properties would 400 the whole request.
func (s *LogStore) db(ctx context.Context) (*Database, error) {
	if s.schema != nil {
		return s.schema, nil
	}
	db, err := s.client.GetDatabase(ctx, s.dbID)
	if err != nil {
		return nil, err
	}
	s.schema = db
	return db, nil
}

// indexFilter builds the exact-match filter for the configured key.
func (s *LogStore) indexFilter(value string) *Filter {
	if s.indexProp == IndexURL {
		return &Filter{Property: IndexURL, URL: &TextFilter{Equals: value}}
	}
	return &Filter{Property: IndexSlug, RichText: &TextFilter{Equals: value}}
}

// Find returns the page for the given index value, or nil when absent.
func (s *LogStore) Find(ctx context.Context, indexValue string) (*Page, error) {
	if indexValue == "" {
		return nil, fmt.Errorf("notion log: empty index value")
	}
	return s.client.QueryOne(ctx, s.dbID, s.indexFilter(indexValue))
}

// PageStatus reads the row's Status select as a typed status. Returns
// nil when the property is empty (a row created outside this pipeline).
func PageStatus(page *Page) (*state.Status, error) {
	name := page.Properties["Status"].SelectName()
	if name == "" {
		return nil, nil
	}
	st, err := state.Parse(name)
	if err != nil {
		return nil, err
	}
	return &st, nil
}

// PageSlackTS reads the row's notifier thread handle.
func PageSlackTS(page *Page) string {
	return page.Properties["SlackTS"].PlainText()
}

// UpsertResult reports what an upsert did.
type UpsertResult struct {
	PageID  string
	Created bool
}

// Upsert writes one logical row keyed by the configured index property.
// An existing row is patched with the changed fields only — identity
// fields (title, slug, URL) are never rewritten; the requested status
// change is validated against the transition table first and the store
// is left untouched on a disallowed edge. A missing row is created with
// initial status plus a human-readable backup of slug/url/status as
// content blocks.
func (s *LogStore) Upsert(ctx context.Context, row *models.LogRow) (*UpsertResult, error) {
	db, err := s.db(ctx)
	if err != nil {
		return nil, err
	}

	indexValue := row.Slug
	if s.indexProp == IndexURL {
		indexValue = row.URL
	}
	page, err := s.Find(ctx, indexValue)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	if page != nil {
		current, err := PageStatus(page)
		if err != nil {
			return nil, fmt.Errorf("notion log: row %s has unknown status: %w", page.ID, err)
		}
		if err := state.Validate(current, row.Status); err != nil {
			return nil, err
		}

		props := s.observedProps(db, row, now)
		props["Status"] = Select(string(row.Status))
		s.stampTransition(db, props, row.Status, now)
		if err := s.client.PatchPage(ctx, page.ID, props); err != nil {
			return nil, err
		}
		row.PageID = page.ID
		return &UpsertResult{PageID: page.ID}, nil
	}

	// Creation: from = nil is always an allowed transition.
	props := s.identityProps(db, row)
	for k, v := range s.observedProps(db, row, now) {
		props[k] = v
	}
	props["Status"] = Select(string(row.Status))
	s.stampTransition(db, props, row.Status, now)
	if db.HasProperty("CreatedAt") {
		props["CreatedAt"] = Date(now)
	}

	children := []Block{
		ParagraphBlock("Auto Log"),
		BulletBlock("Slug: " + row.Slug),
		BulletBlock("URL: " + row.URL),
		BulletBlock("Status: " + string(row.Status)),
	}
	pageID, err := s.client.CreatePage(ctx, s.dbID, props, children)
	if err != nil {
		return nil, err
	}
	row.PageID = pageID
	return &UpsertResult{PageID: pageID, Created: true}, nil
}

// identityProps builds the fields set once at creation.
func (s *LogStore) identityProps(db *Database, row *models.LogRow) Properties {
	title := row.Title
	if title == "" {
		title = row.Slug
	}
	if title == "" {
		title = "Untitled"
	}
	props := Properties{db.TitlePropertyName(): Title(title)}
	if db.HasProperty("Slug") && row.Slug != "" {
		props["Slug"] = Text(row.Slug)
	}
	if db.HasProperty("URL") && row.URL != "" {
		props["URL"] = URL(row.URL)
	}
	if db.HasProperty("Keywords") && len(row.Keywords) > 0 {
		props["Keywords"] = MultiSelect(row.Keywords)
	}
	if db.HasProperty("KeywordsText") && len(row.Keywords) > 0 {
		props["KeywordsText"] = Text(strings.Join(row.Keywords, ", "))
	}
	return props
}

// observedProps builds the observability fields written on every sync.
func (s *LogStore) observedProps(db *Database, row *models.LogRow, now time.Time) Properties {
	props := Properties{}
	if db.HasProperty("updated_at") {
		props["updated_at"] = Date(now)
	}
	if db.HasProperty("Ts") {
		props["Ts"] = Date(now)
	}
	if db.HasProperty("SlackTS") && row.SlackTS != "" {
		props["SlackTS"] = Text(row.SlackTS)
	}
	if db.HasProperty("LastRunMs") && row.LastRunMs != nil {
		props["LastRunMs"] = Number(*row.LastRunMs)
	}
	if db.HasProperty("ErrorMsg") && row.ErrorMsg != "" {
		props["ErrorMsg"] = Text(row.ErrorMsg)
	}
	return props
}

// stampTransition records the per-state timestamp for the new status.
func (s *LogStore) stampTransition(db *Database, props Properties, to state.Status, now time.Time) {
	switch to {
	case state.StatusPublished:
		if db.HasProperty("published_at") {
			props["published_at"] = Date(now)
		}
	case state.StatusSuccess:
		if db.HasProperty("succeeded_at") {
			props["succeeded_at"] = Date(now)
		}
	}
}

// NoRowError reports a transition attempted against a missing row.
type NoRowError struct {
	Index string
	Value string
}

func (e *NoRowError) Error() string {
	return fmt.Sprintf("notion log: no row with %s=%q", e.Index, e.Value)
}

// Transition patches only the Status of an existing row after
// validating the edge against the transition table. It never creates a
// row: a missing row is an error, matching the status-update-only flow.
// Returns the page so the caller can pick up SlackTS for a threaded
// follow-up.
func (s *LogStore) Transition(ctx context.Context, indexValue string, to state.Status) (*Page, error) {
	page, err := s.Find(ctx, indexValue)
	if err != nil {
		return nil, err
	}
	if page == nil {
		return nil, &NoRowError{Index: s.indexProp, Value: indexValue}
	}

	current, err := PageStatus(page)
	if err != nil {
		return nil, fmt.Errorf("notion log: row %s has unknown status: %w", page.ID, err)
	}
	if err := state.Validate(current, to); err != nil {
		return nil, err
	}

	db, err := s.db(ctx)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	props := Properties{"Status": Select(string(to))}
	if db.HasProperty("updated_at") {
		props["updated_at"] = Date(now)
	}
	s.stampTransition(db, props, to, now)

	if err := s.client.PatchPage(ctx, page.ID, props); err != nil {
		return nil, err
	}
	return page, nil
}

// SyncThumbnail attaches an externally reachable thumbnail URL to the
// row's files property. Local file paths never reach here; the notifier
// uploads those to chat instead. Failure is logged, not fatal — the
// thumbnail is cosmetic.
func (s *LogStore) SyncThumbnail(ctx context.Context, pageID, thumbURL string) {
	if !strings.HasPrefix(thumbURL, "http://") && !strings.HasPrefix(thumbURL, "https://") {
		return
	}
	db, err := s.db(ctx)
	if err != nil || !db.HasProperty("Thumbnail") {
		return
	}
	props := Properties{"Thumbnail": ExternalFiles("thumbnail", thumbURL)}
	if err := s.client.PatchPage(ctx, pageID, props); err != nil {
		slog.Warn("notion thumbnail sync failed", "page_id", pageID, "error", err)
	}
}
