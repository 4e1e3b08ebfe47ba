// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package wpcom

import (
	"reflect"
	"strings"
	"testing"
)

func TestLocalImageRefs(t *testing.T) {
	html := `
		<img src="cover.jpg">
		<img alt="x" src='images/detail.png'>
		<img src="https://cdn.example.com/remote.jpg">
		<img src="data:image/png;base64,AAAA">
	`
	got := LocalImageRefs(html)
	want := []string{"cover.jpg", "images/detail.png"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("LocalImageRefs: got %v, want %v", got, want)
	}
}

func TestRewriteImageSrcLongestKeyFirst(t *testing.T) {
	// "images/a.png" must be replaced before "a.png", otherwise the
	// shorter key corrupts the longer path.
	html := `<img src="images/a.png"><img src="a.png">`
	mapping := map[string]string{
		"a.png":        "https://cdn.example.com/short.png",
		"images/a.png": "https://cdn.example.com/long.png",
	}
	got := RewriteImageSrc(html, mapping)

	if !strings.Contains(got, `src="https://cdn.example.com/long.png"`) {
		t.Errorf("long key not rewritten: %s", got)
	}
	if !strings.Contains(got, `src="https://cdn.example.com/short.png"`) {
		t.Errorf("short key not rewritten: %s", got)
	}
	if strings.Contains(got, "images/") {
		t.Errorf("partial-match corruption: %s", got)
	}
}

func TestRewriteImageSrcPreservesQuotes(t *testing.T) {
	html := `<img src='cover.jpg'>`
	got := RewriteImageSrc(html, map[string]string{"cover.jpg": "https://cdn.example.com/cover.jpg"})
	if got != `<img src='https://cdn.example.com/cover.jpg'>` {
		t.Errorf("quote style changed: %s", got)
	}
}

func TestRewriteImageSrcIgnoresNonSrcText(t *testing.T) {
	html := `<p>see cover.jpg for details</p><img src="cover.jpg">`
	got := RewriteImageSrc(html, map[string]string{"cover.jpg": "https://cdn.example.com/cover.jpg"})
	if !strings.Contains(got, "<p>see cover.jpg for details</p>") {
		t.Errorf("prose text was rewritten: %s", got)
	}
	if !strings.Contains(got, `src="https://cdn.example.com/cover.jpg"`) {
		t.Errorf("src not rewritten: %s", got)
	}
}
