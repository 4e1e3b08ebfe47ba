// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package markdown converts Markdown draft text into HTML using goldmark
// and sanitizes it with bluemonday. LLM output is untrusted, so everything
// that enters a rendered page passes through Sanitize first.
package markdown

import (
	"bytes"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
)

// md is the configured goldmark instance, reused across calls.
var md = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,         // tables, strikethrough, autolinks, task lists
		extension.Typographer, // smart quotes and dashes
		highlighting.NewHighlighting(
			highlighting.WithStyle("monokai"),
			highlighting.WithFormatOptions(),
		),
	),
	goldmark.WithParserOptions(
		parser.WithAutoHeadingID(),
	),
	goldmark.WithRendererOptions(
		html.WithUnsafe(), // raw HTML passes through here; Sanitize strips the dangerous parts after
	),
)

// policy allows the tags the renderer emits: headings, lists, tables,
// details/summary FAQ blocks, styled divs, and images with data URIs
// disallowed.
var policy = func() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowElements("details", "summary", "section", "figure", "figcaption")
	p.AllowAttrs("class", "id").Globally()
	p.AllowAttrs("style").OnElements("div", "span", "table", "td", "th")
	p.AllowImages()
	return p
}()

// ToHTML converts Markdown draft text into sanitized HTML.
func ToHTML(source string) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(source), &buf); err != nil {
		return "", err
	}
	return policy.Sanitize(buf.String()), nil
}

// Sanitize cleans an HTML fragment without Markdown conversion. Used for
// draft bodies that arrive as HTML from the model.
func Sanitize(fragment string) string {
	return policy.Sanitize(fragment)
}
