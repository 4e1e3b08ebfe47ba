// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package publish

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"autopress/internal/models"
)

type wpPostRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Slug    string `json:"slug,omitempty"`
	Status  string `json:"status"`
}

type wpPostResponse struct {
	ID   int64  `json:"id"`
	Link string `json:"link"`
}

// publishWordPress posts to a self-hosted site over the wp/v2 REST API
// with application password auth. Disabled by default; enabling it is a
// deliberate operator decision, not a database row.
func (r *Router) publishWordPress(ctx context.Context, dest *models.Destination, item *models.ContentItem) (*Result, error) {
	if !r.enableWordPress {
		return nil, fmt.Errorf("publish: self-hosted WordPress is disabled (set ENABLE_WORDPRESS_PUBLISH=true)")
	}
	if dest.BaseURL == "" || dest.WPUser == "" || dest.WPAppPassword == "" {
		return nil, fmt.Errorf("publish: destination %s missing blog_url/wp_user/wp_app_password", dest.Name)
	}

	payload, err := json.Marshal(wpPostRequest{
		Title:   item.Title,
		Content: item.BodyHTML,
		Slug:    item.Slug,
		Status:  "publish",
	})
	if err != nil {
		return nil, fmt.Errorf("publish: marshal wordpress post: %w", err)
	}

	endpoint := strings.TrimRight(dest.BaseURL, "/") + "/wp-json/wp/v2/posts"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("publish: wordpress request: %w", err)
	}
	req.SetBasicAuth(dest.WPUser, dest.WPAppPassword)
	req.Header.Set("Content-Type", "application/json")

	var post wpPostResponse
	if err := r.http.DoJSON(req, &post); err != nil {
		return nil, fmt.Errorf("publish: wordpress post to %s: %w", dest.Name, err)
	}
	if post.ID == 0 {
		return nil, fmt.Errorf("publish: wordpress post to %s: response missing post id", dest.Name)
	}
	return &Result{Platform: models.PlatformWordPress, PostID: post.ID, URL: post.Link}, nil
}
