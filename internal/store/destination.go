// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"

	"autopress/internal/models"
)

// DestinationStore handles publishing-destination database operations.
// Destinations live in the blogs table and are managed by operators;
// this subsystem only reads them.
type DestinationStore struct {
	db *sql.DB
}

// NewDestinationStore creates a new DestinationStore with the given database connection.
func NewDestinationStore(db *sql.DB) *DestinationStore {
	return &DestinationStore{db: db}
}

// ListActive returns all destinations enabled for publishing.
func (s *DestinationStore) ListActive() ([]models.Destination, error) {
	rows, err := s.db.Query(`
		SELECT id, blog_name, blog_url, platform, COALESCE(category, ''),
		       active, wp_user, wp_app_password, wpcom_site, wpcom_token
		FROM blogs
		WHERE active = TRUE
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("list active destinations: %w", err)
	}
	defer rows.Close()

	var items []models.Destination
	for rows.Next() {
		var d models.Destination
		if err := rows.Scan(
			&d.ID, &d.Name, &d.BaseURL, &d.Platform, &d.Category,
			&d.Active, &d.WPUser, &d.WPAppPassword, &d.WPComSite, &d.WPComToken,
		); err != nil {
			return nil, fmt.Errorf("scan destination: %w", err)
		}
		items = append(items, d)
	}
	return items, rows.Err()
}

// FindByID retrieves a destination by its ID. Returns nil if not found.
func (s *DestinationStore) FindByID(id int64) (*models.Destination, error) {
	d := &models.Destination{}
	err := s.db.QueryRow(`
		SELECT id, blog_name, blog_url, platform, COALESCE(category, ''),
		       active, wp_user, wp_app_password, wpcom_site, wpcom_token
		FROM blogs WHERE id = $1
	`, id).Scan(
		&d.ID, &d.Name, &d.BaseURL, &d.Platform, &d.Category,
		&d.Active, &d.WPUser, &d.WPAppPassword, &d.WPComSite, &d.WPComToken,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find destination by id: %w", err)
	}
	return d, nil
}
