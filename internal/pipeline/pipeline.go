// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package pipeline runs one end-to-end publication: topic, draft,
// render, publish, persist, notify, and log-store sync. Every stage
// after a successful publish is best effort; the post is already live
// and a notification failure must not mark the run failed.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"autopress/internal/ai"
	"autopress/internal/markdown"
	"autopress/internal/metrics"
	"autopress/internal/models"
	"autopress/internal/notify"
	"autopress/internal/notion"
	"autopress/internal/publish"
	"autopress/internal/render"
	"autopress/internal/state"
)

// Prompts are Korean because the destinations are Korean-language
// blogs; the models follow the prompt language.
const (
	topicSystem = "당신은 한국어 블로그의 SEO 에디터입니다. 클릭을 유도하되 과장 없는 주제를 제안합니다."
	topicUser   = "카테고리 '%s'에 대한 블로그 글 주제를 한 줄로 제안해 주세요. 따옴표 없이 주제만 출력합니다."

	outlineSystem = "당신은 한국어 블로그의 콘텐츠 구성 전문가입니다."
	outlineUser   = "'%s' 주제의 글에 들어갈 H2 소제목을 최대 6개, 한 줄에 하나씩 출력해 주세요. 번호나 기호 없이 제목만 씁니다."

	draftSystem = "당신은 한국어 블로그 작가입니다. 마크다운으로 본문을 작성합니다. 과장 없이 구체적인 정보를 담습니다."
	draftUser   = "'%s' 주제로 1000자 내외의 블로그 본문을 마크다운으로 작성해 주세요. 소제목(##)을 활용합니다."
)

// imagesPerPost is the number of image placeholders per document.
const imagesPerPost = 2

// LLM is the stage-routing model selector.
type LLM interface {
	Generate(ctx context.Context, stage ai.Stage, systemPrompt, userPrompt string) (string, error)
}

// Publisher delivers a content item to a destination.
type Publisher interface {
	Publish(ctx context.Context, dest *models.Destination, item *models.ContentItem) (*publish.Result, error)
}

// ArticleWriter persists the generated article row.
type ArticleWriter interface {
	Create(article *models.Article) error
}

// Announcer posts the run outcome to chat.
type Announcer interface {
	Announce(ctx context.Context, ev notify.Event) (string, error)
}

// LogSync upserts the run into the Notion content log.
type LogSync interface {
	Upsert(ctx context.Context, row *models.LogRow) (*notion.UpsertResult, error)
	SyncThumbnail(ctx context.Context, pageID, thumbURL string)
}

// Pipeline wires the stages together. Announcer and LogSync may be nil;
// Publisher and LLM are required.
type Pipeline struct {
	llm       LLM
	publisher Publisher
	articles  ArticleWriter
	announcer Announcer
	logSync   LogSync

	thumbnail string // optional thumbnail path or URL attached to every run
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithArticleWriter attaches article persistence.
func WithArticleWriter(w ArticleWriter) Option {
	return func(p *Pipeline) { p.articles = w }
}

// WithAnnouncer attaches chat notification.
func WithAnnouncer(a Announcer) Option {
	return func(p *Pipeline) { p.announcer = a }
}

// WithLogSync attaches the Notion content log.
func WithLogSync(s LogSync) Option {
	return func(p *Pipeline) { p.logSync = s }
}

// WithThumbnail sets the thumbnail attached to notifications and rows.
func WithThumbnail(path string) Option {
	return func(p *Pipeline) { p.thumbnail = path }
}

// New creates a Pipeline.
func New(llm LLM, publisher Publisher, opts ...Option) *Pipeline {
	p := &Pipeline{llm: llm, publisher: publisher}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Outcome summarizes one pipeline run.
type Outcome struct {
	Topic        string
	Slug         string
	URL          string
	PackageURI   string
	NotionPageID string
	Elapsed      time.Duration
}

// Run executes one publication against the destination. seedTopic, when
// non-empty, skips topic generation; operators use it for rerun and
// manual topics.
func (p *Pipeline) Run(ctx context.Context, dest *models.Destination, seedTopic string) (*Outcome, error) {
	start := time.Now()

	item, topic, err := p.compose(ctx, dest, seedTopic)
	if err != nil {
		metrics.PipelineRuns.WithLabelValues("compose_failed").Inc()
		return nil, err
	}

	res, pubErr := p.publisher.Publish(ctx, dest, item)
	elapsed := time.Since(start)
	elapsedMs := float64(elapsed.Milliseconds())
	metrics.PipelineDuration.Observe(elapsed.Seconds())

	if pubErr != nil {
		metrics.PipelineRuns.WithLabelValues("publish_failed").Inc()
		metrics.Publishes.WithLabelValues(string(dest.Platform), "failed").Inc()
		p.persistArticle(dest, item, nil, models.ArticleStatusFailed)
		p.report(ctx, item, "", state.StatusFailed, elapsedMs, pubErr.Error())
		return nil, pubErr
	}

	metrics.PipelineRuns.WithLabelValues("success").Inc()
	metrics.Publishes.WithLabelValues(string(dest.Platform), "success").Inc()
	p.persistArticle(dest, item, res, models.ArticleStatusPublished)
	pageID := p.report(ctx, item, res.URL, state.StatusPublished, elapsedMs, "")

	slog.Info("pipeline run complete",
		"destination", dest.Name,
		"slug", item.Slug,
		"url", res.URL,
		"elapsed", elapsed)

	return &Outcome{
		Topic:        topic,
		Slug:         item.Slug,
		URL:          res.URL,
		PackageURI:   res.PackageURI,
		NotionPageID: pageID,
		Elapsed:      elapsed,
	}, nil
}

// compose generates topic, outline, and draft, and renders the final
// document.
func (p *Pipeline) compose(ctx context.Context, dest *models.Destination, seedTopic string) (*models.ContentItem, string, error) {
	topic := strings.TrimSpace(seedTopic)
	if topic == "" {
		raw, err := p.llm.Generate(ctx, ai.StageTopic, topicSystem, fmt.Sprintf(topicUser, dest.Category))
		if err != nil {
			return nil, "", fmt.Errorf("pipeline topic: %w", err)
		}
		topic = firstLine(raw)
		if topic == "" {
			return nil, "", fmt.Errorf("pipeline topic: model returned no usable topic")
		}
	}

	outlineRaw, err := p.llm.Generate(ctx, ai.StageBench, outlineSystem, fmt.Sprintf(outlineUser, topic))
	if err != nil {
		return nil, "", fmt.Errorf("pipeline outline: %w", err)
	}
	outline := splitLines(outlineRaw)

	intent := fmt.Sprintf("'%s'에 대한 실용적인 정보 탐색", topic)
	doc := render.Render(topic, intent, outline, imagesPerPost)

	draftMD, err := p.llm.Generate(ctx, ai.StageDraft, draftSystem, fmt.Sprintf(draftUser, topic))
	if err != nil {
		return nil, "", fmt.Errorf("pipeline draft: %w", err)
	}
	draftHTML, err := markdown.ToHTML(draftMD)
	if err != nil {
		return nil, "", fmt.Errorf("pipeline draft render: %w", err)
	}
	body := render.SpliceDraft(doc.HTML, topic, draftHTML)

	item := &models.ContentItem{
		Title:          doc.Meta.Title,
		Slug:           doc.Meta.Slug,
		BodyHTML:       body,
		DestinationURL: dest.BaseURL,
		Keywords:       doc.Meta.Keywords,
		Description:    doc.Meta.Description,
	}
	return item, topic, nil
}

// persistArticle records the run in PostgreSQL. Best effort: the
// article table is an audit trail, not the source of truth.
func (p *Pipeline) persistArticle(dest *models.Destination, item *models.ContentItem, res *publish.Result, status models.ArticleStatus) {
	if p.articles == nil {
		return
	}
	article := &models.Article{
		DestinationID: dest.ID,
		Title:         item.Title,
		Slug:          item.Slug,
		HTMLContent:   item.BodyHTML,
		Status:        status,
	}
	if res != nil {
		if res.PostID != 0 {
			id := res.PostID
			article.WordPressPostID = &id
		}
		if res.PackageURI != "" {
			uri := res.PackageURI
			article.PackageURI = &uri
		}
	}
	if err := p.articles.Create(article); err != nil {
		slog.Warn("article persist failed", "slug", item.Slug, "error", err)
	}
}

// report announces the outcome and syncs the content log. Returns the
// Notion page ID when the sync succeeded.
func (p *Pipeline) report(ctx context.Context, item *models.ContentItem, url string, status state.Status, elapsedMs float64, errMsg string) string {
	var ts string
	if p.announcer != nil {
		var err error
		ts, err = p.announcer.Announce(ctx, notify.Event{
			Title:     item.Title,
			Slug:      item.Slug,
			URL:       url,
			Status:    string(status),
			Keywords:  item.Keywords,
			ErrorMsg:  errMsg,
			Thumbnail: p.thumbnail,
		})
		if err != nil {
			slog.Warn("announce failed", "slug", item.Slug, "error", err)
		}
	}

	if p.logSync == nil {
		return ""
	}
	row := &models.LogRow{
		Title:     item.Title,
		Slug:      item.Slug,
		URL:       url,
		Status:    status,
		Keywords:  item.Keywords,
		SlackTS:   ts,
		LastRunMs: &elapsedMs,
		ErrorMsg:  errMsg,
	}
	if _, err := p.logSync.Upsert(ctx, row); err != nil {
		slog.Warn("content log sync failed", "slug", item.Slug, "error", err)
		return ""
	}
	metrics.StateTransitions.WithLabelValues(string(status)).Inc()
	if p.thumbnail != "" {
		p.logSync.SyncThumbnail(ctx, row.PageID, p.thumbnail)
	}
	return row.PageID
}

func firstLine(s string) string {
	for _, line := range strings.Split(s, "\n") {
		l := strings.TrimSpace(line)
		l = strings.TrimSpace(strings.Trim(l, `"'`))
		if l != "" {
			return l
		}
	}
	return ""
}

func splitLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		if l := strings.TrimSpace(line); l != "" {
			out = append(out, l)
		}
	}
	return out
}
