// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug provides URL-friendly slug generation from arbitrary strings.
// Korean syllables are preserved; everything else outside [a-z0-9] is
// stripped. The slug doubles as the idempotency key for log-row upserts, so
// generation must be deterministic.
package slug

import (
	"regexp"
	"strings"
)

var (
	// disallowed matches anything that isn't a lowercase letter, digit,
	// whitespace, hyphen, or Hangul syllable.
	disallowed = regexp.MustCompile(`[^a-z0-9\s\-가-힣]+`)
	// whitespace collapses runs of whitespace into a single hyphen.
	whitespace = regexp.MustCompile(`\s+`)
	// multipleHyphens collapses consecutive hyphens into one.
	multipleHyphens = regexp.MustCompile(`-{2,}`)
)

// Generate creates a URL-friendly slug from the given string.
// Example: "AI 블로그 자동화" → "ai-블로그-자동화".
// Returns "post" when nothing survives the transliteration.
func Generate(s string) string {
	result := strings.ToLower(strings.TrimSpace(s))
	result = disallowed.ReplaceAllString(result, "")
	result = whitespace.ReplaceAllString(result, "-")
	result = multipleHyphens.ReplaceAllString(result, "-")
	result = strings.Trim(result, "-")
	if result == "" {
		return "post"
	}
	return result
}
