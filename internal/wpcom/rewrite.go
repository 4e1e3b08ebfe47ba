// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package wpcom

import (
	"regexp"
	"sort"
	"strings"
)

var imgSrcPattern = regexp.MustCompile(`(?i)<img\s+[^>]*src=["']([^"']+)["']`)

// LocalImageRefs extracts local (relative-path) img src values from an
// HTML body. Absolute URLs and data URIs are ignored; those need no
// upload.
func LocalImageRefs(html string) []string {
	var refs []string
	for _, m := range imgSrcPattern.FindAllStringSubmatch(html, -1) {
		src := strings.TrimSpace(m[1])
		lower := strings.ToLower(src)
		if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") || strings.HasPrefix(lower, "data:") {
			continue
		}
		refs = append(refs, src)
	}
	return refs
}

// RewriteImageSrc replaces img src references using the given mapping of
// local filename/relative path to uploaded CDN URL. Longer keys are
// replaced first so "images/a.png" never corrupts a later match on
// "a.png".
func RewriteImageSrc(html string, mapping map[string]string) string {
	keys := make([]string, 0, len(mapping))
	for k := range mapping {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})

	for _, key := range keys {
		pattern := regexp.MustCompile(`(?i)(<img\s+[^>]*src=["'])` + regexp.QuoteMeta(key) + `(["'])`)
		html = pattern.ReplaceAllString(html, "${1}"+mapping[key]+"${2}")
	}
	return html
}
