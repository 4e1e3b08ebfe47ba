// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package config handles application configuration loading from environment
// variables. It provides a centralized Config struct injected at startup;
// validation enumerates every missing required key at once instead of
// failing one variable at a time.
package config

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// notionIDPattern matches a Notion database ID without hyphens.
var notionIDPattern = regexp.MustCompile(`^[0-9a-fA-F]{32}$`)

// Config holds all application configuration values loaded from the environment.
type Config struct {
	// Runtime
	Env     string // "development", "production", "testing"
	Verbose bool

	// PostgreSQL (destinations + audit trail)
	DatabaseURL string

	// LLM providers
	OpenAIKey     string
	OpenAIModel   string
	OpenAIBaseURL string
	ClaudeKey     string
	ClaudeModel   string
	ClaudeBaseURL string

	// Notion log store
	NotionToken      string
	NotionLogDB      string // content log database ID, 32 hex chars
	NotionReportsDB  string // optional reports database ID
	NotionParentPage string // optional fallback parent page ID
	NotionIndexProp  string // upsert key property: "Slug" (default) or "URL"

	// Slack / Make notifications
	SlackWebhookURL string
	SlackBotToken   string
	SlackChannel    string
	SlackThreadTS   string
	AlertMention    string // prepended to error notifications only
	MakeWebhookURL  string

	// WordPress.com
	WPComSite  string
	WPComToken string

	// Self-hosted WordPress publishing is gated off by default.
	EnableWordPress bool

	// S3 packaging (tistory/naver fallback)
	S3Endpoint  string
	S3Region    string
	S3AccessKey string
	S3SecretKey string
	S3Bucket    string
	S3PublicURL string
	PackageDir  string // local package fallback when S3 is absent

	// Redis slug locks (optional)
	RedisAddr     string
	RedisPassword string

	// Network behaviour
	NetTimeoutSec int
	NetRetries    int

	// Report status sets
	SuccessStatuses   []string
	PublishedStatuses []string

	// Daemon
	HTTPAddr       string
	APIToken       string // bearer token guarding the trigger endpoints
	RunSchedule    string // cron spec for pipeline runs
	ReportSchedule string // cron spec for the weekly report
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first when present (existing env values win).
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Env: envOrDefault("APP_ENV", "development"),

		DatabaseURL: os.Getenv("DATABASE_URL"),

		OpenAIKey:     os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:   envOrDefault("OPENAI_MODEL", "gpt-4o-mini"),
		OpenAIBaseURL: os.Getenv("OPENAI_BASE_URL"),
		ClaudeKey:     os.Getenv("ANTHROPIC_API_KEY"),
		ClaudeModel:   envOrDefault("ANTHROPIC_MODEL", "claude-3-5-haiku-latest"),
		ClaudeBaseURL: os.Getenv("ANTHROPIC_BASE_URL"),

		NotionToken:      strings.TrimSpace(os.Getenv("NOTION_TOKEN")),
		NotionLogDB:      strings.TrimSpace(os.Getenv("NOTION_DB_CONTENT_LOG")),
		NotionReportsDB:  strings.TrimSpace(os.Getenv("NOTION_DB_REPORTS")),
		NotionParentPage: strings.TrimSpace(os.Getenv("NOTION_PARENT_PAGE")),
		NotionIndexProp:  envOrDefault("NOTION_INDEX_PROPERTY", "Slug"),

		SlackWebhookURL: strings.TrimSpace(os.Getenv("SLACK_WEBHOOK_URL")),
		SlackBotToken:   strings.TrimSpace(os.Getenv("SLACK_BOT_TOKEN")),
		SlackChannel:    envOrDefault("SLACK_CHANNEL", "#blog-alert"),
		SlackThreadTS:   strings.TrimSpace(os.Getenv("SLACK_THREAD_TS")),
		AlertMention:    strings.TrimSpace(os.Getenv("ALERT_MENTION")),
		MakeWebhookURL:  strings.TrimSpace(os.Getenv("MAKE_WEBHOOK_URL")),

		WPComSite:  strings.TrimSpace(os.Getenv("WPCOM_SITE")),
		WPComToken: strings.TrimSpace(os.Getenv("WPCOM_TOKEN")),

		EnableWordPress: os.Getenv("ENABLE_WORDPRESS_PUBLISH") == "true",

		S3Endpoint:  os.Getenv("S3_ENDPOINT"),
		S3Region:    envOrDefault("S3_REGION", "ap-northeast-2"),
		S3AccessKey: os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey: os.Getenv("S3_SECRET_KEY"),
		S3Bucket:    os.Getenv("S3_BUCKET_PACKAGES"),
		S3PublicURL: os.Getenv("S3_PUBLIC_URL"),
		PackageDir:  envOrDefault("PACKAGE_DIR", "packages"),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		NetTimeoutSec: envOrDefaultInt("NET_TIMEOUT", 15),
		NetRetries:    envOrDefaultInt("NET_RETRIES", 3),

		SuccessStatuses:   splitCSV(envOrDefault("SUCCESS_STATUSES", "SUCCESS")),
		PublishedStatuses: splitCSV(envOrDefault("PUBLISHED_STATUSES", "PUBLISHED,SUCCESS")),

		HTTPAddr:       envOrDefault("HTTP_ADDR", "0.0.0.0:8080"),
		APIToken:       strings.TrimSpace(os.Getenv("API_TOKEN")),
		RunSchedule:    envOrDefault("RUN_SCHEDULE", "0 9 * * *"),
		ReportSchedule: envOrDefault("REPORT_SCHEDULE", "0 10 * * 1"),
	}

	if cfg.NotionIndexProp != "Slug" && cfg.NotionIndexProp != "URL" {
		return nil, fmt.Errorf("NOTION_INDEX_PROPERTY must be Slug or URL, got %q", cfg.NotionIndexProp)
	}

	return cfg, nil
}

// MissingKeysError reports every required environment variable that is unset,
// so the operator can fix them in one pass.
type MissingKeysError struct {
	Keys []string
}

func (e *MissingKeysError) Error() string {
	return "missing required configuration: " + strings.Join(e.Keys, ", ")
}

// requireAll returns a MissingKeysError listing every empty value.
func requireAll(pairs map[string]string) error {
	var missing []string
	for key, val := range pairs {
		if val == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return &MissingKeysError{Keys: missing}
	}
	return nil
}

// RequireDatabase validates the PostgreSQL settings.
func (c *Config) RequireDatabase() error {
	return requireAll(map[string]string{"DATABASE_URL": c.DatabaseURL})
}

// RequireNotion validates the Notion log store settings. The database ID
// must be the 32-character hex form (hyphens stripped).
func (c *Config) RequireNotion() error {
	if err := requireAll(map[string]string{
		"NOTION_TOKEN":          c.NotionToken,
		"NOTION_DB_CONTENT_LOG": c.NotionLogDB,
	}); err != nil {
		return err
	}
	if !notionIDPattern.MatchString(c.NotionLogDB) {
		return fmt.Errorf("NOTION_DB_CONTENT_LOG must be a 32-character hex ID without hyphens")
	}
	return nil
}

// RequireWPCom validates the WordPress.com publishing credentials.
func (c *Config) RequireWPCom() error {
	return requireAll(map[string]string{
		"WPCOM_SITE":  c.WPComSite,
		"WPCOM_TOKEN": c.WPComToken,
	})
}

// RequireLLM validates that at least the OpenAI key is present. The Claude
// key is optional; topic generation falls back to OpenAI without it.
func (c *Config) RequireLLM() error {
	return requireAll(map[string]string{"OPENAI_API_KEY": c.OpenAIKey})
}

// HasSlack reports whether any Slack delivery path is configured.
func (c *Config) HasSlack() bool {
	return c.SlackWebhookURL != "" || c.SlackBotToken != ""
}

// HasS3 reports whether S3 packaging is configured.
func (c *Config) HasS3() bool {
	return c.S3Endpoint != "" && c.S3AccessKey != "" && c.S3SecretKey != "" && c.S3Bucket != ""
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// envOrDefault reads an environment variable, returning a fallback if unset or empty.
func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// envOrDefaultInt reads an integer environment variable with a fallback.
func envOrDefaultInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

// splitCSV splits a comma-separated value, trimming blanks.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
