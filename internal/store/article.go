// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"autopress/internal/models"
)

// ArticleStore persists generated articles. Articles are append-only:
// each pipeline run inserts a new row, failures included, so the table
// doubles as a publish history.
type ArticleStore struct {
	db *sql.DB
}

// NewArticleStore creates a new ArticleStore with the given database connection.
func NewArticleStore(db *sql.DB) *ArticleStore {
	return &ArticleStore{db: db}
}

// Create inserts a new article row. The ID and timestamps are assigned
// here; PublishedAt is set only when the article status is published.
func (s *ArticleStore) Create(a *models.Article) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	now := time.Now()
	a.AttemptedAt = now
	a.CreatedAt = now
	if a.Status == models.ArticleStatusPublished && a.PublishedAt == nil {
		a.PublishedAt = &now
	}

	_, err := s.db.Exec(`
		INSERT INTO articles
			(id, blog_id, title, slug, content, html_content, status,
			 wordpress_post_id, package_uri, published_at, attempted_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`, a.ID, a.DestinationID, a.Title, a.Slug, a.Content, a.HTMLContent,
		a.Status, a.WordPressPostID, a.PackageURI, a.PublishedAt, a.AttemptedAt, a.CreatedAt)
	if err != nil {
		return fmt.Errorf("create article: %w", err)
	}
	return nil
}

// ListByDestination returns articles for one destination, newest first.
func (s *ArticleStore) ListByDestination(destinationID int64, limit int) ([]models.Article, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(`
		SELECT id, blog_id, title, slug, content, html_content, status,
		       wordpress_post_id, package_uri, published_at, attempted_at, created_at
		FROM articles
		WHERE blog_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, destinationID, limit)
	if err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}
	defer rows.Close()

	var items []models.Article
	for rows.Next() {
		var a models.Article
		if err := rows.Scan(
			&a.ID, &a.DestinationID, &a.Title, &a.Slug, &a.Content, &a.HTMLContent,
			&a.Status, &a.WordPressPostID, &a.PackageURI, &a.PublishedAt, &a.AttemptedAt, &a.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan article: %w", err)
		}
		items = append(items, a)
	}
	return items, rows.Err()
}
