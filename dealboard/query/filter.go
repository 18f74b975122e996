package query

import (
	"github.com/web-source-dev/dealboard/internal/validation"
	"github.com/web-source-dev/dealboard/internal/values"
	"github.com/web-source-dev/dealboard/types"
)

// clause is a compiled, active filter clause
type clause struct {
	field     *types.FieldDescriptor
	predicate Predicate
	value     any
}

// matches reads the clause's field from the record and applies the predicate
func (c clause) matches(record types.Record) bool {
	value, exists := record.Lookup(c.field.Name)
	if !exists {
		value = nil
	}
	if c.field.Layout != "" {
		value = normalizeDate(value, c.field.Layout)
	}
	return c.predicate(value, c.value)
}

// Filter is the AND of all active clauses of a configuration
type Filter struct {
	clauses []clause
	active  int
}

// CompileFilters resolves every clause against the field set. All clauses
// are checked, active or not, so a misconfigured filter fails before the
// user ever types into it.
func CompileFilters(filters []types.FilterClause, fields *types.FieldSet) (*Filter, error) {
	f := &Filter{}

	for _, fc := range filters {
		field, err := validation.RequireField(fields, "filter", fc.Field)
		if err != nil {
			return nil, err
		}

		predicate, err := Resolve(fc.Operator, field.Type)
		if err != nil {
			if ce, ok := err.(*types.ConfigError); ok {
				ce.Field = fc.Field
			}
			return nil, err
		}

		if !fc.IsActive() {
			continue
		}

		value := fc.Value
		if field.Layout != "" {
			value = normalizeDate(value, field.Layout)
		}

		f.clauses = append(f.clauses, clause{field: field, predicate: predicate, value: value})
		f.active++
	}

	return f, nil
}

// Match reports whether the record satisfies every active clause.
// A filter without active clauses matches everything.
func (f *Filter) Match(record types.Record) bool {
	if f == nil {
		return true
	}
	for _, c := range f.clauses {
		if !c.matches(record) {
			return false
		}
	}
	return true
}

// ActiveCount returns the number of active clauses
func (f *Filter) ActiveCount() int {
	if f == nil {
		return 0
	}
	return f.active
}

// Evaluate checks one record against the filters. Prefer CompileFilters
// when evaluating many records.
func Evaluate(record types.Record, filters []types.FilterClause, fields *types.FieldSet) (bool, error) {
	f, err := CompileFilters(filters, fields)
	if err != nil {
		return false, err
	}
	return f.Match(record), nil
}

// ActiveFilterCount counts clauses with a non-empty value, matching the
// "N filters applied" badge of the list pages
func ActiveFilterCount(filters []types.FilterClause) int {
	count := 0
	for _, fc := range filters {
		if fc.IsActive() {
			count++
		}
	}
	return count
}

// normalizeDate parses date values with a field's custom layout so the
// predicates, which only know the default layouts, can compare them.
// inSet values are normalized member by member.
func normalizeDate(value any, layout string) any {
	if members, ok := values.Slice(value); ok {
		out := make([]any, len(members))
		for i, member := range members {
			out[i] = normalizeDate(member, layout)
		}
		return out
	}
	if t, ok := values.Time(value, layout); ok {
		return t
	}
	return value
}
