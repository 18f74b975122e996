// Package search implements the free-text search box of the dashboard list
// pages: one text matched against several string fields of every record.
package search

import (
	"strings"

	"github.com/web-source-dev/dealboard/internal/values"
	"github.com/web-source-dev/dealboard/types"
)

// Matcher is a compiled search. It is immutable and safe for concurrent use.
type Matcher struct {
	text    string
	query   string // text as compared, lowered unless case sensitive
	fields  []string
	options Options
}

// Compile builds a matcher for a SearchSpec. Every named field must be a
// declared string or enum field; an empty field list searches all of them.
// An inactive spec (empty text) compiles to a matcher that accepts everything.
func Compile(spec types.SearchSpec, fields *types.FieldSet, options ...Options) (*Matcher, error) {
	var opts Options
	if len(options) > 0 {
		opts = options[0]
	}
	if opts.HighlightStartMarker == "" {
		opts.HighlightStartMarker = "**"
	}
	if opts.HighlightEndMarker == "" {
		opts.HighlightEndMarker = "**"
	}

	names := spec.Fields
	if len(names) == 0 {
		for _, field := range fields.OfType(types.FieldString, types.FieldEnum) {
			names = append(names, field.Name)
		}
	}

	for _, name := range names {
		field, ok := fields.Get(name)
		if !ok {
			return nil, types.NewConfigError("search", name, "field is not declared")
		}
		if !field.Type.IsText() {
			return nil, types.NewConfigError("search", name, "only string and enum fields can be searched, field is %s", field.Type)
		}
	}

	m := &Matcher{
		text:    spec.Text,
		query:   spec.Text,
		fields:  append([]string(nil), names...),
		options: opts,
	}
	if !opts.CaseSensitive {
		m.query = strings.ToLower(spec.Text)
	}
	return m, nil
}

// Active reports whether the matcher restricts anything
func (m *Matcher) Active() bool {
	return m != nil && m.text != ""
}

// Fields returns the fields searched
func (m *Matcher) Fields() []string {
	return m.fields
}

// Match reports whether any searched field contains the text.
// Missing fields never match.
func (m *Matcher) Match(record types.Record) bool {
	if !m.Active() {
		return true
	}
	for _, name := range m.fields {
		if text, ok := values.String(record.Value(name)); ok && m.contains(text) {
			return true
		}
	}
	return false
}

// MatchedFields returns the per-field matches for a record
func (m *Matcher) MatchedFields(record types.Record) []FieldMatch {
	if !m.Active() {
		return nil
	}
	var matches []FieldMatch
	for _, name := range m.fields {
		text, ok := values.String(record.Value(name))
		if !ok {
			continue
		}
		if positions := m.positions(text); len(positions) > 0 {
			matches = append(matches, FieldMatch{FieldName: name, Text: text, Positions: positions})
		}
	}
	return matches
}

// Highlight wraps every match of the search text in the configured markers
func (m *Matcher) Highlight(text string) string {
	positions := m.positions(text)
	if len(positions) == 0 {
		return text
	}

	var builder strings.Builder
	lastEnd := 0
	for _, start := range positions {
		end := start + len(m.query)
		builder.WriteString(text[lastEnd:start])
		builder.WriteString(m.options.HighlightStartMarker)
		builder.WriteString(text[start:end])
		builder.WriteString(m.options.HighlightEndMarker)
		lastEnd = end
	}
	builder.WriteString(text[lastEnd:])

	return builder.String()
}

func (m *Matcher) contains(text string) bool {
	if !m.options.CaseSensitive {
		text = strings.ToLower(text)
	}
	return strings.Contains(text, m.query)
}

// positions finds non-overlapping match offsets. Offsets index into the
// original text, so lowering must not change byte lengths; texts where it
// does fall back to no highlight positions.
func (m *Matcher) positions(text string) []int {
	if !m.Active() {
		return nil
	}
	searchText := text
	if !m.options.CaseSensitive {
		searchText = strings.ToLower(text)
		if len(searchText) != len(text) {
			return nil
		}
	}

	queryLen := len(m.query)
	var positions []int
	for i := 0; i <= len(searchText)-queryLen; i++ {
		if searchText[i:i+queryLen] == m.query {
			positions = append(positions, i)
			i += queryLen - 1
		}
	}
	return positions
}
