// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package config

import (
	"errors"
	"strings"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: unexpected error: %v", err)
	}

	if cfg.NotionIndexProp != "Slug" {
		t.Errorf("NotionIndexProp: got %q, want %q", cfg.NotionIndexProp, "Slug")
	}
	if cfg.SlackChannel != "#blog-alert" {
		t.Errorf("SlackChannel: got %q, want %q", cfg.SlackChannel, "#blog-alert")
	}
	if cfg.NetTimeoutSec != 15 {
		t.Errorf("NetTimeoutSec: got %d, want 15", cfg.NetTimeoutSec)
	}
	if cfg.NetRetries != 3 {
		t.Errorf("NetRetries: got %d, want 3", cfg.NetRetries)
	}
	if len(cfg.PublishedStatuses) != 2 {
		t.Errorf("PublishedStatuses: got %v, want [PUBLISHED SUCCESS]", cfg.PublishedStatuses)
	}
}

func TestLoadRejectsBadIndexProperty(t *testing.T) {
	t.Setenv("NOTION_INDEX_PROPERTY", "Title")
	if _, err := Load(); err == nil {
		t.Fatal("Load: expected error for invalid NOTION_INDEX_PROPERTY")
	}
}

func TestRequireNotionListsAllMissingKeys(t *testing.T) {
	cfg := &Config{}
	err := cfg.RequireNotion()
	if err == nil {
		t.Fatal("RequireNotion: expected error for empty config")
	}

	var missing *MissingKeysError
	if !errors.As(err, &missing) {
		t.Fatalf("RequireNotion: got %T, want *MissingKeysError", err)
	}
	if len(missing.Keys) != 2 {
		t.Fatalf("RequireNotion: got keys %v, want both NOTION_TOKEN and NOTION_DB_CONTENT_LOG", missing.Keys)
	}
	if missing.Keys[0] != "NOTION_DB_CONTENT_LOG" || missing.Keys[1] != "NOTION_TOKEN" {
		t.Errorf("RequireNotion: keys not sorted: %v", missing.Keys)
	}
}

func TestRequireNotionValidatesDatabaseID(t *testing.T) {
	tests := []struct {
		name  string
		dbID  string
		valid bool
	}{
		{"valid 32 hex", "0123456789abcdef0123456789abcdef", true},
		{"hyphenated uuid rejected", "01234567-89ab-cdef-0123-456789abcdef", false},
		{"too short", "abc123", false},
		{"non-hex characters", "zzzz6789abcdef0123456789abcdefzz", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{NotionToken: "secret", NotionLogDB: tt.dbID}
			err := cfg.RequireNotion()
			if tt.valid && err != nil {
				t.Errorf("RequireNotion(%q): unexpected error: %v", tt.dbID, err)
			}
			if !tt.valid && err == nil {
				t.Errorf("RequireNotion(%q): expected error", tt.dbID)
			}
		})
	}
}

func TestRequireWPComMissingBoth(t *testing.T) {
	cfg := &Config{}
	err := cfg.RequireWPCom()
	if err == nil {
		t.Fatal("RequireWPCom: expected error")
	}
	msg := err.Error()
	if !strings.Contains(msg, "WPCOM_SITE") || !strings.Contains(msg, "WPCOM_TOKEN") {
		t.Errorf("RequireWPCom: error should name both keys, got %q", msg)
	}
}

func TestHasSlack(t *testing.T) {
	if (&Config{}).HasSlack() {
		t.Error("HasSlack: empty config should be false")
	}
	if !(&Config{SlackWebhookURL: "https://hooks.slack.com/x"}).HasSlack() {
		t.Error("HasSlack: webhook alone should be true")
	}
	if !(&Config{SlackBotToken: "xoxb-1"}).HasSlack() {
		t.Error("HasSlack: bot token alone should be true")
	}
}
