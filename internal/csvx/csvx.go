// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package csvx reads operator-supplied CSV files of content rows. The
// files come from spreadsheets exported on different machines, so the
// reader tolerates a UTF-8 BOM, semicolon or tab delimiters, and header
// case/spacing variations.
package csvx

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// Row is one content entry from a bulk CSV.
type Row struct {
	Slug  string
	URL   string
	Title string
}

// headerAliases maps normalized header names onto canonical fields.
var headerAliases = map[string]string{
	"slug":      "slug",
	"url":       "url",
	"link":      "url",
	"title":     "title",
	"name":      "title",
	"post_slug": "slug",
}

// sniffDelimiter picks the delimiter from the header line. Comma wins
// ties; semicolon and tab cover European Excel and TSV exports.
func sniffDelimiter(header string) rune {
	counts := map[rune]int{',': strings.Count(header, ","), ';': strings.Count(header, ";"), '\t': strings.Count(header, "\t")}
	best := ','
	for _, d := range []rune{';', '\t'} {
		if counts[d] > counts[best] {
			best = d
		}
	}
	return best
}

func normalizeHeader(h string) string {
	return strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
}

// Read parses the CSV. The first line must be a header containing at
// least a slug column; unknown columns are ignored. Blank lines and
// rows with an empty slug are skipped.
func Read(r io.Reader) ([]Row, error) {
	br := bufio.NewReader(r)
	headerLine, err := br.ReadString('\n')
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("csv header: %w", err)
	}

	delim := sniffDelimiter(headerLine)
	cr := csv.NewReader(io.MultiReader(strings.NewReader(headerLine), br))
	cr.Comma = delim
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("csv header: %w", err)
	}
	cols := map[string]int{}
	for i, h := range header {
		if canonical, ok := headerAliases[normalizeHeader(h)]; ok {
			if _, dup := cols[canonical]; !dup {
				cols[canonical] = i
			}
		}
	}
	slugCol, ok := cols["slug"]
	if !ok {
		return nil, fmt.Errorf("csv: no slug column in header %v", header)
	}

	var rows []Row
	for {
		record, err := cr.Read()
		if err == io.EOF {
			return rows, nil
		}
		if err != nil {
			return nil, fmt.Errorf("csv row %d: %w", len(rows)+2, err)
		}
		row := Row{Slug: strings.TrimSpace(field(record, slugCol))}
		if row.Slug == "" {
			continue
		}
		if i, ok := cols["url"]; ok {
			row.URL = strings.TrimSpace(field(record, i))
		}
		if i, ok := cols["title"]; ok {
			row.Title = strings.TrimSpace(field(record, i))
		}
		rows = append(rows, row)
	}
}

func field(record []string, i int) string {
	if i < 0 || i >= len(record) {
		return ""
	}
	return record[i]
}
