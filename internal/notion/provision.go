// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package notion

import (
	"context"
	"fmt"
	"log/slog"
)

// Schema styles for the content-log database. Legacy is the default in
// production; canonical exists for newly provisioned workspaces.
const (
	StyleLegacy    = "legacy"
	StyleCanonical = "canonical"
)

var emptySchema = &struct{}{}

// legacyStatusOptions are the select options the legacy Status property
// must carry.
var legacyStatusOptions = []SelectOption{
	{Name: "SUCCESS", Color: "green"},
	{Name: "DRAFT", Color: "yellow"},
	{Name: "FAILED", Color: "red"},
	{Name: "PUBLISHED", Color: "blue"},
}

// LegacySchema is the PascalCase property set with Status as a select.
func LegacySchema() Schema {
	return Schema{
		"Slug":         {RichText: emptySchema},
		"URL":          {URL: emptySchema},
		"Status":       {Select: &SelectSchema{Options: legacyStatusOptions}},
		"Keywords":     {MultiSelect: emptySchema},
		"KeywordsText": {RichText: emptySchema},
		"CreatedAt":    {Date: emptySchema},
		"SlackTS":      {RichText: emptySchema},
		"LastRunMs":    {Number: emptySchema},
		"ErrorMsg":     {RichText: emptySchema},
		"Thumbnail":    {Files: emptySchema},
		"Ts":           {Date: emptySchema},
		"updated_at":   {Date: emptySchema},
		"published_at": {Date: emptySchema},
		"succeeded_at": {Date: emptySchema},
	}
}

// CanonicalSchema is the snake_case property set with a status-typed
// status property. The API rejects status options (400); they can only
// be edited in the UI, so the property ships bare.
func CanonicalSchema() Schema {
	return Schema{
		"title":        {Title: emptySchema},
		"slug":         {RichText: emptySchema},
		"status":       {Status: emptySchema},
		"url":          {URL: emptySchema},
		"site":         {RichText: emptySchema},
		"keywords":     {RichText: emptySchema},
		"avg_ms":       {Number: emptySchema},
		"created_at":   {Date: emptySchema},
		"updated_at":   {Date: emptySchema},
		"published_at": {Date: emptySchema},
		"succeeded_at": {Date: emptySchema},
	}
}

// ReportsSchema is the property set for the weekly reports database.
func ReportsSchema() Schema {
	return Schema{
		"Name":           {Title: emptySchema},
		"PeriodStart":    {Date: emptySchema},
		"PeriodEnd":      {Date: emptySchema},
		"Total":          {Number: emptySchema},
		"PublishedCount": {Number: emptySchema},
		"SuccessCount":   {Number: emptySchema},
		"SuccessRate":    {Number: emptySchema},
		"AvgLastRunMs":   {Number: emptySchema},
	}
}

// Provision brings an existing content-log database up to the given
// schema style: missing properties are added, existing ones are left
// alone. For the legacy style the Status select options are completed
// as well. Returns the list of properties that were added.
func (c *Client) Provision(ctx context.Context, dbID, style string) ([]string, error) {
	var target Schema
	switch style {
	case StyleLegacy:
		target = LegacySchema()
	case StyleCanonical:
		target = CanonicalSchema()
	default:
		return nil, fmt.Errorf("notion provision: unknown style %q", style)
	}

	db, err := c.GetDatabase(ctx, dbID)
	if err != nil {
		return nil, err
	}

	patch := Schema{}
	var added []string
	for name, def := range target {
		if db.HasProperty(name) {
			continue
		}
		// A database holds exactly one title property; never add a second.
		if def.Title != nil {
			continue
		}
		patch[name] = def
		added = append(added, name)
	}

	if len(patch) > 0 {
		if err := c.PatchDatabase(ctx, dbID, patch); err != nil {
			return nil, err
		}
		slog.Info("notion schema provisioned", "db_id", dbID, "style", style, "added", added)
	}

	if style == StyleLegacy {
		if err := c.ensureLegacyStatusOptions(ctx, dbID); err != nil {
			return added, err
		}
	}
	return added, nil
}

// ensureLegacyStatusOptions completes the Status select options without
// removing any an operator added by hand.
func (c *Client) ensureLegacyStatusOptions(ctx context.Context, dbID string) error {
	db, err := c.GetDatabase(ctx, dbID)
	if err != nil {
		return err
	}
	status, ok := db.Properties["Status"]
	if !ok || status.Type != "select" {
		slog.Warn("notion Status property is not a select, skipping option check", "db_id", dbID)
		return nil
	}

	var existing []SelectOption
	if status.Select != nil {
		existing = status.Select.Options
	}
	have := make(map[string]bool, len(existing))
	for _, opt := range existing {
		have[opt.Name] = true
	}

	var missing []SelectOption
	for _, opt := range legacyStatusOptions {
		if !have[opt.Name] {
			missing = append(missing, opt)
		}
	}
	if len(missing) == 0 {
		return nil
	}

	patch := Schema{"Status": {Select: &SelectSchema{Options: append(existing, missing...)}}}
	if err := c.PatchDatabase(ctx, dbID, patch); err != nil {
		return fmt.Errorf("notion status options: %w", err)
	}
	return nil
}

// CreateReportsDatabase creates the weekly reports database under the
// given parent page and returns its ID.
func (c *Client) CreateReportsDatabase(ctx context.Context, parentPageID string) (string, error) {
	return c.CreateDatabase(ctx, parentPageID, "Blog Reports", ReportsSchema())
}
