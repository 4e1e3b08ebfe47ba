// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package publish

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"autopress/internal/models"
)

// packageLinkExpiry is how long a shared package link stays valid. Seven
// days is the S3 presign ceiling.
const packageLinkExpiry = 7 * 24 * time.Hour

// PackageKey builds the object key for a packaged document. Keys are
// grouped by platform and day so an operator can find a batch quickly.
func PackageKey(platform models.Platform, slug string, now time.Time) string {
	return fmt.Sprintf("packages/%s/%s/%s.html", platform, now.UTC().Format("2006-01-02"), slug)
}

// packageDocument wraps the rendered body in a standalone HTML document.
// The rendered body is a fragment; the package must open correctly in a
// browser before the operator pastes it into the platform editor.
func packageDocument(item *models.ContentItem) string {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html lang=\"ko\">\n<head>\n")
	b.WriteString("<meta charset=\"utf-8\">\n")
	b.WriteString("<meta name=\"viewport\" content=\"width=device-width, initial-scale=1\">\n")
	fmt.Fprintf(&b, "<title>%s</title>\n", html.EscapeString(item.Title))
	if item.Description != "" {
		fmt.Fprintf(&b, "<meta name=\"description\" content=\"%s\">\n", html.EscapeString(item.Description))
	}
	if len(item.Keywords) > 0 {
		fmt.Fprintf(&b, "<meta name=\"keywords\" content=\"%s\">\n", html.EscapeString(strings.Join(item.Keywords, ",")))
	}
	b.WriteString("</head>\n<body>\n")
	b.WriteString(item.BodyHTML)
	b.WriteString("\n</body>\n</html>\n")
	return b.String()
}

// publishPackage stores the rendered document for platforms without a
// publish API. The operator pastes the HTML into the platform editor by
// hand; the package URI is the delivery record. With S3 configured the
// document goes to object storage and the result carries a presigned
// link; otherwise it falls back to a local package directory.
func (r *Router) publishPackage(ctx context.Context, dest *models.Destination, item *models.ContentItem) (*Result, error) {
	key := PackageKey(dest.Platform, item.Slug, time.Now())
	doc := packageDocument(item)

	if r.packager == nil {
		return r.packageLocally(dest, key, doc)
	}

	uri, err := r.packager.UploadHTML(ctx, key, doc)
	if err != nil {
		return nil, fmt.Errorf("publish: package %s for %s: %w", item.Slug, dest.Name, err)
	}
	url, err := r.packager.PresignedURL(ctx, key, packageLinkExpiry)
	if err != nil {
		slog.Warn("package presign failed; using the public URL", "key", key, "error", err)
		url = r.packager.FileURL(key)
	}
	return &Result{
		Platform:   dest.Platform,
		PackageURI: uri,
		PackageURL: url,
	}, nil
}

// packageLocally writes the document under the configured package
// directory when object storage is absent.
func (r *Router) packageLocally(dest *models.Destination, key, doc string) (*Result, error) {
	if r.packageDir == "" {
		return nil, fmt.Errorf("publish: platform %s needs packaging, but neither S3 nor a package directory is configured", dest.Platform)
	}

	rel := filepath.FromSlash(strings.TrimPrefix(key, "packages/"))
	path := filepath.Join(r.packageDir, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("publish: package dir for %s: %w", dest.Name, err)
	}
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		return nil, fmt.Errorf("publish: write package %s: %w", path, err)
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return &Result{
		Platform:   dest.Platform,
		PackageURI: "file://" + path,
		PackageURL: "file://" + path,
	}, nil
}
