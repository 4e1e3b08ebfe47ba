// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package notion

import "time"

// maxRichTextLength keeps rich_text payloads under Notion's 2000-char
// property limit with headroom.
const maxRichTextLength = 1900

// TextContent is the inner text object of a rich text span.
type TextContent struct {
	Content string `json:"content"`
}

// RichText is one span of a rich text property.
type RichText struct {
	Type      string       `json:"type,omitempty"`
	Text      *TextContent `json:"text,omitempty"`
	PlainText string       `json:"plain_text,omitempty"`
}

// SelectOption names a select or multi_select option.
type SelectOption struct {
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

// DateValue is a date property value; Start is ISO 8601.
type DateValue struct {
	Start string `json:"start"`
}

// ExternalFile points a files property at an externally hosted URL.
type ExternalFile struct {
	URL string `json:"url"`
}

// File is one entry of a files property.
type File struct {
	Type     string        `json:"type"`
	Name     string        `json:"name,omitempty"`
	External *ExternalFile `json:"external,omitempty"`
}

// PropertyValue is a page property. Exactly one field is set per value;
// which one depends on the property's schema type.
type PropertyValue struct {
	Title       []RichText     `json:"title,omitempty"`
	RichText    []RichText     `json:"rich_text,omitempty"`
	URL         *string        `json:"url,omitempty"`
	Select      *SelectOption  `json:"select,omitempty"`
	MultiSelect []SelectOption `json:"multi_select,omitempty"`
	Date        *DateValue     `json:"date,omitempty"`
	Number      *float64       `json:"number,omitempty"`
	Files       []File         `json:"files,omitempty"`
}

// Properties maps property names to values for page create/patch.
type Properties map[string]PropertyValue

// --- value builders ---

func textSpan(s string) RichText {
	if len(s) > maxRichTextLength {
		s = s[:maxRichTextLength]
	}
	return RichText{Type: "text", Text: &TextContent{Content: s}}
}

// Title builds a title property value.
func Title(s string) PropertyValue {
	return PropertyValue{Title: []RichText{textSpan(s)}}
}

// Text builds a rich_text property value, truncated to the API limit.
func Text(s string) PropertyValue {
	return PropertyValue{RichText: []RichText{textSpan(s)}}
}

// URL builds a url property value.
func URL(s string) PropertyValue {
	return PropertyValue{URL: &s}
}

// Select builds a select property value.
func Select(name string) PropertyValue {
	return PropertyValue{Select: &SelectOption{Name: name}}
}

// MultiSelect builds a multi_select property value.
func MultiSelect(names []string) PropertyValue {
	opts := make([]SelectOption, 0, len(names))
	for _, n := range names {
		opts = append(opts, SelectOption{Name: n})
	}
	return PropertyValue{MultiSelect: opts}
}

// Date builds a date property value from a time.
func Date(t time.Time) PropertyValue {
	return PropertyValue{Date: &DateValue{Start: t.UTC().Format(time.RFC3339)}}
}

// DateString builds a date property value from a preformatted date.
func DateString(s string) PropertyValue {
	return PropertyValue{Date: &DateValue{Start: s}}
}

// Number builds a number property value.
func Number(f float64) PropertyValue {
	return PropertyValue{Number: &f}
}

// ExternalFiles builds a files property holding one external URL.
func ExternalFiles(name, url string) PropertyValue {
	return PropertyValue{Files: []File{{Type: "external", Name: name, External: &ExternalFile{URL: url}}}}
}

// --- value extractors ---

// PlainText returns the concatenated plain text of a title or rich_text
// property value.
func (p PropertyValue) PlainText() string {
	spans := p.RichText
	if len(spans) == 0 {
		spans = p.Title
	}
	var out string
	for _, s := range spans {
		if s.PlainText != "" {
			out += s.PlainText
		} else if s.Text != nil {
			out += s.Text.Content
		}
	}
	return out
}

// SelectName returns the select option name, or "" when unset.
func (p PropertyValue) SelectName() string {
	if p.Select == nil {
		return ""
	}
	return p.Select.Name
}

// NumberValue returns the number and whether it is present.
func (p PropertyValue) NumberValue() (float64, bool) {
	if p.Number == nil {
		return 0, false
	}
	return *p.Number, true
}

// DateStart returns the date start string, or "" when unset.
func (p PropertyValue) DateStart() string {
	if p.Date == nil {
		return ""
	}
	return p.Date.Start
}

// Parent identifies where a page or database lives.
type Parent struct {
	Type       string `json:"type,omitempty"`
	DatabaseID string `json:"database_id,omitempty"`
	PageID     string `json:"page_id,omitempty"`
}

// Page is a Notion page as returned by the pages and query endpoints.
type Page struct {
	ID          string                   `json:"id"`
	Parent      Parent                   `json:"parent"`
	CreatedTime string                   `json:"created_time"`
	Properties  map[string]PropertyValue `json:"properties"`
}

// PropertySchema describes one property in a database's schema.
type PropertySchema struct {
	Type        string        `json:"type,omitempty"`
	Title       *struct{}     `json:"title,omitempty"`
	RichText    *struct{}     `json:"rich_text,omitempty"`
	URL         *struct{}     `json:"url,omitempty"`
	Select      *SelectSchema `json:"select,omitempty"`
	MultiSelect *struct{}     `json:"multi_select,omitempty"`
	Number      *struct{}     `json:"number,omitempty"`
	Date        *struct{}     `json:"date,omitempty"`
	Status      *struct{}     `json:"status,omitempty"`
	Files       *struct{}     `json:"files,omitempty"`
}

// SelectSchema carries the options of a select property schema.
type SelectSchema struct {
	Options []SelectOption `json:"options,omitempty"`
}

// Schema maps property names to schema definitions.
type Schema map[string]PropertySchema

// Database is database metadata from GET /databases/{id}.
type Database struct {
	ID         string     `json:"id"`
	Title      []RichText `json:"title"`
	Parent     Parent     `json:"parent"`
	Properties Schema     `json:"properties"`
}

// TitleText returns the database's display title.
func (d *Database) TitleText() string {
	var out string
	for _, s := range d.Title {
		if s.PlainText != "" {
			out += s.PlainText
		} else if s.Text != nil {
			out += s.Text.Content
		}
	}
	return out
}

// TitlePropertyName returns the name of the schema's title property.
// Every database has exactly one; "Name" is the Notion default.
func (d *Database) TitlePropertyName() string {
	for name, p := range d.Properties {
		if p.Type == "title" {
			return name
		}
	}
	return "Name"
}

// HasProperty reports whether the schema contains the named property.
func (d *Database) HasProperty(name string) bool {
	_, ok := d.Properties[name]
	return ok
}

// --- filters ---

// TextFilter matches rich_text and url properties.
type TextFilter struct {
	Equals string `json:"equals,omitempty"`
}

// DateFilter matches date properties and timestamps, inclusive.
type DateFilter struct {
	OnOrAfter  string `json:"on_or_after,omitempty"`
	OnOrBefore string `json:"on_or_before,omitempty"`
}

// Filter is a database query filter. Set Property plus one typed
// condition, or Timestamp for created_time filters, or And to combine.
type Filter struct {
	Property    string      `json:"property,omitempty"`
	Timestamp   string      `json:"timestamp,omitempty"`
	RichText    *TextFilter `json:"rich_text,omitempty"`
	URL         *TextFilter `json:"url,omitempty"`
	Date        *DateFilter `json:"date,omitempty"`
	CreatedTime *DateFilter `json:"created_time,omitempty"`
	And         []Filter    `json:"and,omitempty"`
}

// --- blocks (page children) ---

// BlockText holds the rich text of a content block.
type BlockText struct {
	RichText []RichText `json:"rich_text"`
}

// Block is a page content block. Used for the human-readable backup
// appended when a log row is first created.
type Block struct {
	Object           string     `json:"object"`
	Type             string     `json:"type"`
	Paragraph        *BlockText `json:"paragraph,omitempty"`
	Heading2         *BlockText `json:"heading_2,omitempty"`
	BulletedListItem *BlockText `json:"bulleted_list_item,omitempty"`
}

// ParagraphBlock builds a paragraph block.
func ParagraphBlock(text string) Block {
	return Block{Object: "block", Type: "paragraph", Paragraph: &BlockText{RichText: []RichText{textSpan(text)}}}
}

// Heading2Block builds a heading_2 block.
func Heading2Block(text string) Block {
	return Block{Object: "block", Type: "heading_2", Heading2: &BlockText{RichText: []RichText{textSpan(text)}}}
}

// BulletBlock builds a bulleted_list_item block.
func BulletBlock(text string) Block {
	return Block{Object: "block", Type: "bulleted_list_item", BulletedListItem: &BlockText{RichText: []RichText{textSpan(text)}}}
}
