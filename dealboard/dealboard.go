// Package dealboard runs the list pages of the marketplace dashboard: deals,
// commitments, users, logs, announcements and orders. A page is a view (the
// fields it declares) plus the records fetched for it; every control change
// re-runs the same filter, sort and pagination pipeline over those records.
//
// The pipeline itself is pure and lives in the query package; exports live
// in the export package. This package ties them to views and datasets.
package dealboard

import (
	"context"
	"fmt"
	"io"
	"time"

	"golang.org/x/text/language"

	"github.com/web-source-dev/dealboard/dealboard/dataset"
	"github.com/web-source-dev/dealboard/dealboard/export"
	"github.com/web-source-dev/dealboard/dealboard/query"
	"github.com/web-source-dev/dealboard/dealboard/views"
	"github.com/web-source-dev/dealboard/search"
	"github.com/web-source-dev/dealboard/types"
)

// Plan is an alias for query.Plan
type Plan = query.Plan

// Run filters, sorts and paginates records
func Run(records []types.Record, cfg types.QueryConfiguration, fields *types.FieldSet) (types.QueryResult, error) {
	return query.Run(records, cfg, fields)
}

// Evaluate reports whether one record passes the filters
func Evaluate(record types.Record, filters []types.FilterClause, fields *types.FieldSet) (bool, error) {
	return query.Evaluate(record, filters, fields)
}

// Project turns records into an export row matrix, header row first
func Project(records []types.Record, columns []export.Column) ([][]string, error) {
	return export.Project(records, columns)
}

// Board is one list page: a view over a loaded record collection.
// It is safe for concurrent use; the records are never modified.
type Board struct {
	view    *views.View
	fields  *types.FieldSet
	records []types.Record
	locale  language.Tag
	search  *search.Options
}

// New creates a board over already fetched records. The view must not be
// modified afterwards.
func New(view *views.View, records []types.Record) *Board {
	return &Board{view: view, fields: view.FieldSet(), records: records, locale: language.Und}
}

// Open loads the records of a view from a snapshot file
func Open(ctx context.Context, view *views.View, path string, opts ...dataset.Option) (*Board, error) {
	records, err := dataset.NewStore(opts...).Load(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s data: %w", view.Name, err)
	}
	return New(view, records), nil
}

// WithLocale returns a copy of the board that collates strings for tag
func (b *Board) WithLocale(tag language.Tag) *Board {
	c := *b
	c.locale = tag
	return &c
}

// WithSearchOptions returns a copy of the board that searches with opts
func (b *Board) WithSearchOptions(opts search.Options) *Board {
	c := *b
	c.search = &opts
	return &c
}

// View returns the board's view
func (b *Board) View() *views.View {
	return b.view
}

// Records returns the loaded records
func (b *Board) Records() []types.Record {
	return b.records
}

// Plan compiles cfg against the view's fields
func (b *Board) Plan(cfg types.QueryConfiguration) (*query.Plan, error) {
	opts := []query.Option{query.WithLocale(b.locale)}
	if b.search != nil {
		opts = append(opts, query.WithSearchOptions(*b.search))
	}
	return query.Compile(cfg, b.fields, opts...)
}

// Query runs cfg over the board's records
func (b *Board) Query(cfg types.QueryConfiguration) (types.QueryResult, error) {
	plan, err := b.Plan(cfg)
	if err != nil {
		return types.QueryResult{}, err
	}
	return plan.Run(b.records), nil
}

// Bundle projects every record selected by cfg, ignoring its pagination,
// through the view's export columns
func (b *Board) Bundle(cfg types.QueryConfiguration, at time.Time) (*export.Bundle, error) {
	plan, err := b.Plan(cfg)
	if err != nil {
		return nil, err
	}
	return export.Build(plan, b.records, export.Options{
		View:    b.view.Name,
		Title:   b.view.DisplayTitle(),
		Columns: b.view.ExportColumns(),
		At:      at,
	})
}

// Export writes the records selected by cfg in the given kind and returns
// the bundle that was written
func (b *Board) Export(w io.Writer, kind export.Kind, cfg types.QueryConfiguration, at time.Time) (*export.Bundle, error) {
	bundle, err := b.Bundle(cfg, at)
	if err != nil {
		return nil, err
	}
	if err := export.Write(w, kind, bundle); err != nil {
		return nil, err
	}
	return bundle, nil
}
