// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// ArticleStatus mirrors the publish outcome stored in the articles table.
type ArticleStatus string

const (
	ArticleStatusDraft     ArticleStatus = "draft"
	ArticleStatusPublished ArticleStatus = "published"
	ArticleStatusFailed    ArticleStatus = "failed"
)

// Article is the persisted record of one generation/publish attempt.
type Article struct {
	ID              uuid.UUID
	DestinationID   int64
	Title           string
	Slug            string
	Content         string // raw LLM draft
	HTMLContent     string // rendered final document
	Status          ArticleStatus
	WordPressPostID *int64
	PackageURI      *string // local path or s3:// URI for manual-paste platforms
	PublishedAt     *time.Time
	AttemptedAt     time.Time
	CreatedAt       time.Time
}

// ExecutionLog is one audit-trail row; every pipeline step writes one
// regardless of outcome.
type ExecutionLog struct {
	ID            uuid.UUID
	DestinationID int64
	Step          string
	Status        string // "success" or "failed"
	Message       string // truncated to 1000 chars at write time
	Cost          float64
	CreatedAt     time.Time
}
