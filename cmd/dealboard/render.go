package main

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"

	"github.com/web-source-dev/dealboard/dealboard/export"
	"github.com/web-source-dev/dealboard/dealboard/query"
	"github.com/web-source-dev/dealboard/dealboard/views"
	"github.com/web-source-dev/dealboard/formats"
	"github.com/web-source-dev/dealboard/types"
)

// resultTable projects one page of a query result through the view's
// export columns. Markdown output highlights search matches in the columns
// of searched fields.
func resultTable(view *views.View, plan *query.Plan, result types.QueryResult, format *formats.TableFormat, quiet bool) (*formats.Table, error) {
	columns := view.ExportColumns()
	matrix, err := export.Project(result.Items, columns)
	if err != nil {
		return nil, err
	}

	table := &formats.Table{Header: matrix[0], Rows: matrix[1:]}
	if !quiet {
		table.Title = view.DisplayTitle()
		table.Summary = summarize(view, plan, result)
	}

	if matcher := plan.Matcher(); format == formats.Markdown && matcher.Active() {
		searched := make(map[string]bool, len(matcher.Fields()))
		for _, name := range matcher.Fields() {
			searched[name] = true
		}
		for _, row := range table.Rows {
			for i, cell := range row {
				if i < len(columns) && searched[columns[i].Field] {
					row[i] = matcher.Highlight(cell)
				}
			}
		}
	}
	return table, nil
}

// summarize describes the page the way the list footer does, e.g.
// "Showing 11-20 of 1,204 deals (page 2 of 121), 2 filters applied"
func summarize(view *views.View, plan *query.Plan, result types.QueryResult) string {
	noun := english.PluralWord(result.TotalCount, singular(view.Name), view.Name)

	var b strings.Builder
	if result.TotalCount == 0 || len(result.Items) == 0 {
		fmt.Fprintf(&b, "No %s", view.Name)
	} else {
		size := plan.Config().Pagination.PageSize
		first := result.PageIndex*size + 1
		last := first + len(result.Items) - 1
		fmt.Fprintf(&b, "Showing %s-%s of %s %s (page %d of %s)",
			humanize.Comma(int64(first)), humanize.Comma(int64(last)),
			humanize.Comma(int64(result.TotalCount)), noun,
			result.PageIndex+1, humanize.Comma(int64(result.TotalPages)))
	}

	if n := result.ActiveFilterCount; n > 0 {
		fmt.Fprintf(&b, ", %s applied", english.Plural(n, "filter", ""))
	}
	if search := plan.Config().Search; search.IsActive() {
		fmt.Fprintf(&b, ", matching %q", search.Text)
	}
	return b.String()
}

// singular trims the plural "s" of a view name
func singular(name string) string {
	return strings.TrimSuffix(name, "s")
}

// viewsTable lists registered views
func viewsTable(registry *views.Registry) (*formats.Table, error) {
	table := &formats.Table{
		Title:  "Views",
		Header: []string{"Name", "Title", "Fields", "Page Size", "Default Sort", "Description"},
	}

	for _, name := range registry.Names() {
		v, err := registry.Get(name)
		if err != nil {
			return nil, err
		}
		sort := ""
		if v.DefaultSort != nil {
			sort = v.DefaultSort.Field + " " + string(v.DefaultSort.Direction)
		}
		pageSize := v.PageSize
		if pageSize == 0 {
			pageSize = views.DefaultPageSize
		}
		table.Rows = append(table.Rows, []string{
			v.Name, v.DisplayTitle(), humanize.Comma(int64(len(v.Fields))),
			humanize.Comma(int64(pageSize)), strings.TrimSpace(sort), v.Description,
		})
	}
	table.Summary = english.Plural(len(table.Rows), "view", "")
	return table, nil
}

// fieldsTable describes the fields of a view
func fieldsTable(v *views.View) *formats.Table {
	table := &formats.Table{
		Title:  v.DisplayTitle(),
		Header: []string{"Field", "Label", "Type", "Operators", "Values"},
	}

	for _, field := range v.FieldSet().All() {
		label := field.Label
		if label == "" {
			label = export.Header(field.Name)
		}
		values := strings.Join(field.Values, ", ")
		if field.Layout != "" {
			values = "layout " + field.Layout
		}
		table.Rows = append(table.Rows, []string{
			field.Name, label, string(field.Type), strings.Join(operatorNames(field.Type), ", "), values,
		})
	}

	table.Summary = v.Description
	return table
}

// operatorNames lists the operators that apply to a field type
func operatorNames(fieldType types.FieldType) []string {
	var names []string
	for _, op := range types.Operators() {
		if _, err := query.Resolve(op, fieldType); err == nil {
			names = append(names, string(op))
		}
	}
	return names
}
