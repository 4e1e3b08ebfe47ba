// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package models defines the core data types shared across the pipeline:
// publishing destinations, generated articles, audit log entries, and the
// Notion-backed lifecycle row.
package models

// Platform identifies a publishing surface. The set is fixed; dispatch is
// over these values, never free-form strings.
type Platform string

const (
	PlatformWordPress Platform = "wordpress" // self-hosted, feature-flagged
	PlatformWPCom     Platform = "wpcom"
	PlatformTistory   Platform = "tistory" // no publish API; HTML packaging
	PlatformNaver     Platform = "naver"   // no publish API; HTML packaging
	PlatformBlogger   Platform = "blogger" // placeholder, not implemented
)

// KnownPlatforms lists every platform the router recognizes.
var KnownPlatforms = []Platform{
	PlatformWordPress, PlatformWPCom, PlatformTistory, PlatformNaver, PlatformBlogger,
}

// Destination is a row from the blogs table: one publishing target with its
// credentials. It is read-only for this subsystem.
type Destination struct {
	ID       int64
	Name     string
	BaseURL  string
	Platform Platform
	Category string
	Active   bool

	// Self-hosted WordPress application password auth.
	WPUser        string
	WPAppPassword string

	// WordPress.com OAuth.
	WPComSite  string
	WPComToken string
}

// ContentItem is the renderer's output: a finished post ready for a
// destination. Immutable once published.
type ContentItem struct {
	Title          string
	Slug           string
	BodyHTML       string
	DestinationURL string
	Keywords       []string // ordered
	Description    string
}
