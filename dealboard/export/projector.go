package export

import (
	"fmt"
	"strings"

	"github.com/iancoleman/strcase"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/web-source-dev/dealboard/dealboard/query"
	"github.com/web-source-dev/dealboard/internal/validation"
	"github.com/web-source-dev/dealboard/internal/values"
	"github.com/web-source-dev/dealboard/types"
)

// resolved is a column with its header and formatter settled
type resolved struct {
	field     string
	header    string
	formatter Formatter
}

// Project turns records into a row matrix: the header row first, then one
// row per record with cells in column order. A cell whose formatter fails
// or panics reads Unavailable; the rest of the export is unaffected.
func Project(records []types.Record, columns []Column) ([][]string, error) {
	cols, err := resolveColumns(columns)
	if err != nil {
		return nil, err
	}

	rows := make([][]string, 0, len(records)+1)

	header := make([]string, len(cols))
	for i, col := range cols {
		header[i] = col.header
	}
	rows = append(rows, header)

	for _, record := range records {
		row := make([]string, len(cols))
		for i, col := range cols {
			row[i] = col.cell(record)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Rows exports what a plan selects, ignoring its pagination, so the row
// count always equals the plan's TotalCount
func Rows(plan *query.Plan, records []types.Record, columns []Column) ([][]string, error) {
	return Project(plan.Sorted(records), columns)
}

// ValidateColumns checks that every column reads a declared field and
// names a registered formatter
func ValidateColumns(columns []Column, fields *types.FieldSet) error {
	if len(columns) == 0 {
		return types.NewConfigError("export", "", "at least one column is required")
	}
	for _, col := range columns {
		if err := validation.Struct("export", col); err != nil {
			return err
		}
		if _, err := validation.RequireField(fields, "export", col.Field); err != nil {
			return err
		}
	}
	_, err := resolveColumns(columns)
	return err
}

// DefaultColumns returns one column per declared field with a formatter
// matching its type
func DefaultColumns(fields *types.FieldSet) []Column {
	all := fields.All()
	columns := make([]Column, 0, len(all))
	for _, field := range all {
		col := Column{Field: field.Name, Header: field.Label}
		switch field.Type {
		case types.FieldDate:
			col.Format = "date"
		case types.FieldBoolean:
			col.Format = "bool"
		}
		columns = append(columns, col)
	}
	return columns
}

// Header converts a field name such as "distributor.businessName" into a
// column header, "Distributor Business Name"
func Header(field string) string {
	words := strcase.ToDelimited(strings.ReplaceAll(field, ".", " "), ' ')
	return cases.Title(language.English).String(words)
}

func resolveColumns(columns []Column) ([]resolved, error) {
	cols := make([]resolved, len(columns))
	for i, col := range columns {
		if col.Field == "" {
			return nil, types.NewConfigError("export", "", "column %d has no field", i)
		}

		r := resolved{field: col.Field, header: col.Header, formatter: col.Formatter}
		if r.header == "" {
			r.header = Header(col.Field)
		}
		if r.formatter == nil && col.Format != "" {
			f, err := GetFormatter(col.Format)
			if err != nil {
				return nil, types.NewConfigError("export", col.Field, "%v (available: %s)", err, strings.Join(Formatters(), ", "))
			}
			r.formatter = f
		}
		cols[i] = r
	}
	return cols, nil
}

func (c resolved) cell(record types.Record) (cell string) {
	value := record.Value(c.field)

	if c.formatter == nil {
		return rawCell(value)
	}

	defer func() {
		if recover() != nil {
			cell = Unavailable
		}
	}()
	out, err := c.formatter(value)
	if err != nil {
		return Unavailable
	}
	return out
}

// rawCell renders an unformatted value. Missing values are blank and
// lists are joined with ", ".
func rawCell(value any) string {
	if value == nil {
		return ""
	}
	if _, isString := value.(string); !isString {
		if items, ok := values.Slice(value); ok {
			parts := make([]string, len(items))
			for i, item := range items {
				parts[i] = rawCell(item)
			}
			return strings.Join(parts, ", ")
		}
	}
	if s, ok := values.String(value); ok {
		return s
	}
	return fmt.Sprint(value)
}
