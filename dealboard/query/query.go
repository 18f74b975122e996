// Package query runs the list-view pipeline of the dashboard: filter,
// search, stable sort, count and paginate. Nothing here performs I/O and
// no input is ever mutated, so a compiled Plan can be shared freely.
package query

import (
	"slices"

	"golang.org/x/text/language"

	"github.com/web-source-dev/dealboard/internal/validation"
	"github.com/web-source-dev/dealboard/search"
	"github.com/web-source-dev/dealboard/types"
)

// Option configures plan compilation
type Option func(*options)

type options struct {
	locale language.Tag
	search []search.Options
}

// WithLocale sets the collation locale used to order string and enum fields
func WithLocale(tag language.Tag) Option {
	return func(o *options) { o.locale = tag }
}

// WithSearchOptions overrides the free-text search options
func WithSearchOptions(opts search.Options) Option {
	return func(o *options) { o.search = []search.Options{opts} }
}

// Plan is a validated, compiled QueryConfiguration
type Plan struct {
	config  types.QueryConfiguration
	fields  *types.FieldSet
	filter  *Filter
	matcher *search.Matcher
	sort    *types.FieldDescriptor
	desc    bool
	locale  language.Tag
}

// Compile validates the configuration against the field set and resolves
// every predicate. Configuration errors surface here, never per record.
func Compile(cfg types.QueryConfiguration, fields *types.FieldSet, opts ...Option) (*Plan, error) {
	o := options{locale: language.Und}
	for _, opt := range opts {
		opt(&o)
	}

	if err := validation.ValidateConfig(cfg, fields); err != nil {
		return nil, err
	}

	filter, err := CompileFilters(cfg.Filters, fields)
	if err != nil {
		return nil, err
	}

	matcher, err := search.Compile(cfg.Search, fields, o.search...)
	if err != nil {
		return nil, err
	}

	p := &Plan{
		config:  cfg,
		fields:  fields,
		filter:  filter,
		matcher: matcher,
		locale:  o.locale,
	}
	if cfg.Sort != nil {
		p.sort, _ = fields.Get(cfg.Sort.Field)
		p.desc = cfg.Sort.Descending()
	}
	return p, nil
}

// Config returns the configuration the plan was compiled from
func (p *Plan) Config() types.QueryConfiguration {
	return p.config
}

// Fields returns the field set the plan was compiled against
func (p *Plan) Fields() *types.FieldSet {
	return p.fields
}

// Matcher returns the compiled free-text search
func (p *Plan) Matcher() *search.Matcher {
	return p.matcher
}

// ActiveFilterCount returns the number of filter clauses with a value
func (p *Plan) ActiveFilterCount() int {
	return p.filter.ActiveCount()
}

// Run executes the pipeline. The stages run in a fixed order: filter and
// search, stable sort, count, paginate. TotalCount is taken before
// pagination so it reflects the whole filtered set.
func (p *Plan) Run(records []types.Record) types.QueryResult {
	sorted := p.Sorted(records)

	page := paginate(sorted, p.config.Pagination)

	return types.QueryResult{
		Items:             page.Items,
		TotalCount:        len(sorted),
		TotalPages:        page.TotalPages,
		PageIndex:         page.PageIndex,
		Clamped:           page.Clamped,
		ActiveFilterCount: p.filter.ActiveCount(),
	}
}

// Sorted returns every record that passes the filters and search, in sort
// order, ignoring pagination. Exports are built from this set.
func (p *Plan) Sorted(records []types.Record) []types.Record {
	result := make([]types.Record, 0, len(records))
	for _, record := range records {
		if !p.filter.Match(record) {
			continue
		}
		if !p.matcher.Match(record) {
			continue
		}
		result = append(result, record)
	}

	if p.sort != nil {
		slices.SortStableFunc(result, newComparator(p.sort, p.desc, p.locale))
	}
	return result
}

// Run compiles the configuration and executes it once
func Run(records []types.Record, cfg types.QueryConfiguration, fields *types.FieldSet, opts ...Option) (types.QueryResult, error) {
	p, err := Compile(cfg, fields, opts...)
	if err != nil {
		return types.QueryResult{}, err
	}
	return p.Run(records), nil
}
