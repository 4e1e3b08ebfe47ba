// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package publish

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"autopress/internal/models"
	"autopress/internal/wpcom"
)

// wpcomAPI is the slice of the WordPress.com client the router uses.
type wpcomAPI interface {
	CreatePost(ctx context.Context, p wpcom.NewPostRequest) (*wpcom.Post, error)
	UploadMedia(ctx context.Context, filename string, content io.Reader) (*wpcom.Media, error)
}

// withWPComFactory overrides how per-destination WordPress.com clients
// are built. Used by tests.
func withWPComFactory(f func(site, token string) wpcomAPI) Option {
	return func(r *Router) { r.newWPCom = f }
}

func (r *Router) wpcomClient(dest *models.Destination) (wpcomAPI, error) {
	site, token := dest.WPComSite, dest.WPComToken
	if site == "" || token == "" {
		return nil, fmt.Errorf("publish: destination %s has no wpcom_site/wpcom_token", dest.Name)
	}
	if r.newWPCom != nil {
		return r.newWPCom(site, token), nil
	}
	return wpcom.New(r.http, site, token), nil
}

// publishWPCom uploads local images referenced by the document, rewrites
// their src attributes to the attachment URLs, and creates the post. The
// first uploaded attachment becomes the featured image.
func (r *Router) publishWPCom(ctx context.Context, dest *models.Destination, item *models.ContentItem) (*Result, error) {
	client, err := r.wpcomClient(dest)
	if err != nil {
		return nil, err
	}

	body := item.BodyHTML
	var featuredID int64

	refs := wpcom.LocalImageRefs(body)
	if len(refs) > 0 {
		mapping := make(map[string]string, len(refs))
		for _, ref := range refs {
			media, err := r.uploadLocalImage(ctx, client, ref)
			if err != nil {
				// A missing or unreadable image degrades the post, it
				// does not block publication.
				slog.Warn("image upload skipped", "destination", dest.Name, "src", ref, "error", err)
				continue
			}
			mapping[ref] = media.URL
			if featuredID == 0 {
				featuredID = media.ID
			}
		}
		body = wpcom.RewriteImageSrc(body, mapping)
	}

	post, err := client.CreatePost(ctx, wpcom.NewPostRequest{
		Title:      item.Title,
		Content:    body,
		Slug:       item.Slug,
		Status:     "publish",
		Tags:       strings.Join(item.Keywords, ","),
		Categories: dest.Category,
		FeaturedID: featuredID,
	})
	if err != nil {
		return nil, err
	}
	return &Result{Platform: models.PlatformWPCom, PostID: post.ID, URL: post.URL}, nil
}

func (r *Router) uploadLocalImage(ctx context.Context, client wpcomAPI, path string) (*wpcom.Media, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return client.UploadMedia(ctx, path, f)
}
