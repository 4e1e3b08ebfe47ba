// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package publish routes a finished content item to its destination's
// platform: the WordPress.com API, a self-hosted WordPress site, or the
// S3 packaging fallback for platforms without a publish API.
package publish

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"autopress/internal/httpx"
	"autopress/internal/models"
)

// Result reports where a content item ended up. Exactly one of PostID/URL
// (API platforms) or PackageURI (packaging platforms) is meaningful.
type Result struct {
	Platform   models.Platform
	PostID     int64
	URL        string
	PackageURI string
	PackageURL string // browser-reachable URL for the packaged document
}

// Packager stores a rendered document for manual publication. Satisfied
// by the storage S3 client.
type Packager interface {
	UploadHTML(ctx context.Context, key, html string) (string, error)
	PresignedURL(ctx context.Context, key string, expires time.Duration) (string, error)
	FileURL(key string) string
}

// AuditLog records pipeline steps. Satisfied by the execution log store.
type AuditLog interface {
	Log(destinationID int64, step, status, message string, cost float64)
}

// UnsupportedPlatformError is returned for platforms the router knows of
// but cannot deliver to.
type UnsupportedPlatformError struct {
	Platform models.Platform
	Reason   string
}

func (e *UnsupportedPlatformError) Error() string {
	return fmt.Sprintf("publish: platform %s unsupported: %s", e.Platform, e.Reason)
}

// Router dispatches content items by destination platform.
type Router struct {
	http       *httpx.Client
	packager   Packager
	packageDir string // local fallback when no packager is attached
	audit      AuditLog
	newWPCom   func(site, token string) wpcomAPI // test seam

	// Self-hosted publishing stays off unless explicitly enabled; a
	// misconfigured blogs row must not post to a production site.
	enableWordPress bool
}

// Option configures a Router.
type Option func(*Router)

// WithPackager attaches the S3 packaging client.
func WithPackager(p Packager) Option {
	return func(r *Router) { r.packager = p }
}

// WithLocalDir sets the directory packages are written to when no
// packager is attached.
func WithLocalDir(dir string) Option {
	return func(r *Router) { r.packageDir = dir }
}

// WithAuditLog attaches the execution log.
func WithAuditLog(a AuditLog) Option {
	return func(r *Router) { r.audit = a }
}

// WithWordPress enables self-hosted WordPress publishing.
func WithWordPress(enabled bool) Option {
	return func(r *Router) { r.enableWordPress = enabled }
}

// NewRouter creates a publish router over the shared HTTP client.
func NewRouter(hc *httpx.Client, opts ...Option) *Router {
	r := &Router{http: hc}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Publish delivers the item to the destination's platform and records
// the outcome in the audit log.
func (r *Router) Publish(ctx context.Context, dest *models.Destination, item *models.ContentItem) (*Result, error) {
	if !dest.Active {
		return nil, fmt.Errorf("publish: destination %s is inactive", dest.Name)
	}

	res, err := r.dispatch(ctx, dest, item)
	if err != nil {
		r.log(dest.ID, "publish", "failed", err.Error())
		return nil, err
	}

	msg := res.URL
	if msg == "" {
		msg = res.PackageURI
	}
	r.log(dest.ID, "publish", "success", msg)
	slog.Info("published",
		"destination", dest.Name,
		"platform", dest.Platform,
		"slug", item.Slug,
		"url", res.URL,
		"package", res.PackageURI)
	return res, nil
}

func (r *Router) dispatch(ctx context.Context, dest *models.Destination, item *models.ContentItem) (*Result, error) {
	switch dest.Platform {
	case models.PlatformWPCom:
		return r.publishWPCom(ctx, dest, item)
	case models.PlatformWordPress:
		return r.publishWordPress(ctx, dest, item)
	case models.PlatformTistory, models.PlatformNaver:
		return r.publishPackage(ctx, dest, item)
	case models.PlatformBlogger:
		return nil, &UnsupportedPlatformError{
			Platform: dest.Platform,
			Reason:   "no Blogger API integration; use the packaging platforms instead",
		}
	default:
		return nil, &UnsupportedPlatformError{Platform: dest.Platform, Reason: "unknown platform"}
	}
}

func (r *Router) log(destinationID int64, step, status, message string) {
	if r.audit != nil {
		r.audit.Log(destinationID, step, status, message, 0)
	}
}
