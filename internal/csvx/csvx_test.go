// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package csvx

import (
	"strings"
	"testing"
)

func TestReadCommaSeparated(t *testing.T) {
	in := "slug,url,title\nmy-post,https://example.com/my-post,My Post\nother,,\n"
	rows, err := Read(strings.NewReader(in))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows: got %d", len(rows))
	}
	if rows[0].Slug != "my-post" || rows[0].URL != "https://example.com/my-post" || rows[0].Title != "My Post" {
		t.Errorf("row 0: got %+v", rows[0])
	}
	if rows[1].Slug != "other" || rows[1].URL != "" {
		t.Errorf("row 1: got %+v", rows[1])
	}
}

func TestReadStripsBOM(t *testing.T) {
	in := "\ufeffslug,url\npost-1,https://example.com/1\n"
	rows, err := Read(strings.NewReader(in))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(rows) != 1 || rows[0].Slug != "post-1" {
		t.Errorf("rows: got %+v", rows)
	}
}

func TestReadSniffsSemicolonAndTab(t *testing.T) {
	semi := "slug;url\na;https://example.com/a\n"
	rows, err := Read(strings.NewReader(semi))
	if err != nil || len(rows) != 1 || rows[0].URL != "https://example.com/a" {
		t.Errorf("semicolon: rows=%+v err=%v", rows, err)
	}

	tab := "slug\turl\nb\thttps://example.com/b\n"
	rows, err = Read(strings.NewReader(tab))
	if err != nil || len(rows) != 1 || rows[0].Slug != "b" {
		t.Errorf("tab: rows=%+v err=%v", rows, err)
	}
}

func TestReadHeaderAliases(t *testing.T) {
	in := "Name, Link , SLUG\nTitle Here,https://example.com/x,x-post\n"
	rows, err := Read(strings.NewReader(in))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if rows[0].Slug != "x-post" || rows[0].URL != "https://example.com/x" || rows[0].Title != "Title Here" {
		t.Errorf("aliased headers: got %+v", rows[0])
	}
}

func TestReadSkipsEmptySlugRows(t *testing.T) {
	in := "slug,url\n,https://example.com/orphan\nreal,https://example.com/real\n"
	rows, err := Read(strings.NewReader(in))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(rows) != 1 || rows[0].Slug != "real" {
		t.Errorf("rows: got %+v", rows)
	}
}

func TestReadRequiresSlugColumn(t *testing.T) {
	if _, err := Read(strings.NewReader("foo,bar\n1,2\n")); err == nil {
		t.Fatal("expected missing slug column error")
	}
}

func TestReadRaggedRows(t *testing.T) {
	in := "slug,url,title\nshort-row\n"
	rows, err := Read(strings.NewReader(in))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(rows) != 1 || rows[0].Slug != "short-row" || rows[0].URL != "" {
		t.Errorf("ragged row: got %+v", rows)
	}
}
