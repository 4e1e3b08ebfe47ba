// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"autopress/internal/models"
)

// maxLogMessage truncates oversized messages before insert; API error
// bodies can run to many kilobytes.
const maxLogMessage = 1000

// ExecutionLogStore records per-step pipeline execution outcomes.
type ExecutionLogStore struct {
	db *sql.DB
}

// NewExecutionLogStore creates a new ExecutionLogStore with the given database connection.
func NewExecutionLogStore(db *sql.DB) *ExecutionLogStore {
	return &ExecutionLogStore{db: db}
}

// Log inserts one execution record. Logging never fails the pipeline: on
// error it warns and returns, matching fire-and-forget semantics.
func (s *ExecutionLogStore) Log(destinationID int64, step, status, message string, cost float64) {
	if len(message) > maxLogMessage {
		message = message[:maxLogMessage]
	}
	_, err := s.db.Exec(`
		INSERT INTO execution_logs (id, blog_id, step, status, message, cost, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, uuid.New(), destinationID, step, status, message, cost, time.Now())
	if err != nil {
		slog.Warn("execution log insert failed", "step", step, "error", err)
	}
}

// ListSince returns execution records created at or after the cutoff,
// oldest first. Serves the daemon's log listing.
func (s *ExecutionLogStore) ListSince(cutoff time.Time) ([]models.ExecutionLog, error) {
	rows, err := s.db.Query(`
		SELECT id, blog_id, step, status, message, cost, created_at
		FROM execution_logs
		WHERE created_at >= $1
		ORDER BY created_at
	`, cutoff)
	if err != nil {
		return nil, fmt.Errorf("list execution logs: %w", err)
	}
	defer rows.Close()

	var items []models.ExecutionLog
	for rows.Next() {
		var e models.ExecutionLog
		if err := rows.Scan(&e.ID, &e.DestinationID, &e.Step, &e.Status, &e.Message, &e.Cost, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan execution log: %w", err)
		}
		items = append(items, e)
	}
	return items, rows.Err()
}
