package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/pflag"

	"github.com/web-source-dev/dealboard/dealboard"
	"github.com/web-source-dev/dealboard/dealboard/views"
	"github.com/web-source-dev/dealboard/search"
	"github.com/web-source-dev/dealboard/types"
)

// queryFlags are the list page controls, shared by query and export
type queryFlags struct {
	filters       []string
	sort          string
	search        string
	searchFields  []string
	caseSensitive bool
	page          int
	pageSize      int
	all           bool
}

func (f *queryFlags) register(flags *pflag.FlagSet, paginated bool) {
	flags.StringArrayVar(&f.filters, "filter", nil, "Filter as field:operator:value (repeatable, all must match)")
	flags.StringVarP(&f.sort, "sort", "s", "", "Sort as field, field:desc or -field; 'none' disables the view's default sort")
	flags.StringVar(&f.search, "search", "", "Free-text search")
	flags.StringSliceVar(&f.searchFields, "search-field", nil, "Fields to search (default: the view's search fields)")
	flags.BoolVar(&f.caseSensitive, "case-sensitive", false, "Match --search case-sensitively")
	if paginated {
		flags.IntVarP(&f.page, "page", "p", 1, "Page number, starting at 1")
		flags.IntVar(&f.pageSize, "page-size", 0, "Rows per page (default: the view's page size)")
		flags.BoolVar(&f.all, "all", false, "Show every matching row on one page")
	}
}

// board applies the search flags that configure the board rather than the query
func (f *queryFlags) board(b *dealboard.Board) *dealboard.Board {
	if f.caseSensitive {
		return b.WithSearchOptions(search.Options{CaseSensitive: true})
	}
	return b
}

// config applies the flags on top of the view's starting configuration
func (f *queryFlags) config(operation string, view *views.View, flags *pflag.FlagSet) (types.QueryConfiguration, error) {
	cfg := view.Config()

	for _, arg := range f.filters {
		clause, err := parseFilter(operation, arg)
		if err != nil {
			return cfg, err
		}
		cfg.Filters = append(cfg.Filters, clause)
	}

	if flags.Changed("sort") {
		sort, err := parseSort(f.sort)
		if err != nil {
			return cfg, NewValidationError(operation, "sort", f.sort,
				"Use format: --sort field, --sort field:desc or --sort -field",
				CommonSuggestions.CheckFields)
		}
		cfg.Sort = sort
	}

	cfg.Search.Text = f.search
	if len(f.searchFields) > 0 {
		cfg.Search.Fields = f.searchFields
	}

	if f.all {
		cfg.Pagination = types.Unpaginated()
		return cfg, nil
	}
	if flags.Lookup("page") != nil {
		if f.page < 1 {
			return cfg, NewValidationError(operation, "page", strconv.Itoa(f.page), "Pages are numbered from 1")
		}
		cfg.Pagination.PageIndex = f.page - 1
	}
	if f.pageSize < 0 {
		return cfg, NewValidationError(operation, "page-size", strconv.Itoa(f.pageSize), "Use a positive page size, or --all")
	}
	if f.pageSize > 0 {
		cfg.Pagination.PageSize = f.pageSize
	}
	return cfg, nil
}

// parseFilter reads "field:operator:value". Operators accept their short
// aliases (eq, ne, gte, in, ...); names that are not built in are passed
// through so registered predicates can be used. The value may itself
// contain colons. An empty value leaves the clause inactive.
func parseFilter(operation, arg string) (types.FilterClause, error) {
	parts := strings.SplitN(arg, ":", 3)
	if len(parts) < 2 || strings.TrimSpace(parts[0]) == "" || strings.TrimSpace(parts[1]) == "" {
		return types.FilterClause{}, NewFilterError(operation, arg, "expected field:operator:value")
	}

	name := strings.TrimSpace(parts[1])
	op, err := types.ParseOperator(name)
	if err != nil {
		op = types.Operator(name)
	}

	clause := types.FilterClause{Field: strings.TrimSpace(parts[0]), Operator: op}
	if len(parts) == 3 {
		clause.Value = parseFilterValue(op, parts[2])
	}
	return clause, nil
}

// parseFilterValue splits inSet values on commas. Other values stay
// strings; the predicates convert them to the field's type.
func parseFilterValue(op types.Operator, raw string) any {
	if op != types.OpInSet {
		return raw
	}
	var members []any
	for _, member := range strings.Split(raw, ",") {
		if member = strings.TrimSpace(member); member != "" {
			members = append(members, member)
		}
	}
	if len(members) == 0 {
		return nil
	}
	return members
}

// parseSort reads "field", "field:asc", "field:desc" or "-field".
// "none" and "" clear the sort.
func parseSort(arg string) (*types.SortSpec, error) {
	arg = strings.TrimSpace(arg)
	if arg == "" || strings.EqualFold(arg, "none") {
		return nil, nil
	}

	if strings.HasPrefix(arg, "-") {
		return &types.SortSpec{Field: arg[1:], Direction: types.Descending}, nil
	}

	field, direction, _ := strings.Cut(arg, ":")
	dir, err := types.ParseSortDirection(direction)
	if err != nil {
		return nil, err
	}
	if field == "" {
		return nil, types.NewConfigError("sort", "", "missing field in %q", arg)
	}
	return &types.SortSpec{Field: field, Direction: dir}, nil
}

// unknownEnumValues describes equals, notEquals and inSet values that an
// enum field does not declare. Such filters still run; they just never
// match (or, for notEquals, always do).
func unknownEnumValues(view *views.View, filters []types.FilterClause) []string {
	var notes []string
	for _, clause := range filters {
		switch clause.Operator {
		case types.OpEquals, types.OpNotEquals, types.OpInSet:
		default:
			continue
		}
		field, ok := view.FieldSet().Get(clause.Field)
		if !ok || field.Type != types.FieldEnum {
			continue
		}

		var given []string
		switch v := clause.Value.(type) {
		case string:
			given = []string{v}
		case []any:
			for _, member := range v {
				if s, ok := member.(string); ok {
					given = append(given, s)
				}
			}
		}
		for _, value := range given {
			if value != "" && !field.Allows(value) {
				notes = append(notes, fmt.Sprintf("%q is not a %s value (expected one of %s)",
					value, field.Name, strings.Join(field.Values, ", ")))
			}
		}
	}
	return notes
}
