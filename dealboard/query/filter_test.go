package query

import (
	"testing"
	"time"

	"github.com/web-source-dev/dealboard/types"
)

func dealFields() *types.FieldSet {
	return types.NewFieldSet([]types.FieldDescriptor{
		{Name: "name", Type: types.FieldString},
		{Name: "category", Type: types.FieldEnum, Values: []string{"produce", "dairy", "bakery"}},
		{Name: "discountPrice", Type: types.FieldNumber},
		{Name: "dealEndsAt", Type: types.FieldDate},
		{Name: "isActive", Type: types.FieldBoolean},
		{Name: "shipDate", Type: types.FieldDate, Layout: "02.01.2006"},
		{Name: "distributor.businessName", Type: types.FieldString},
	})
}

func TestEvaluate(t *testing.T) {
	deal := types.Record{
		"name":          "Organic Apples",
		"category":      "produce",
		"discountPrice": 12.5,
		"dealEndsAt":    "2024-03-15T18:30:00Z",
		"isActive":      true,
		"shipDate":      "20.03.2024",
		"distributor":   map[string]any{"businessName": "Green Valley Co-op"},
	}

	tests := []struct {
		name   string
		clause types.FilterClause
		want   bool
	}{
		{"equals string", types.FilterClause{Field: "name", Operator: types.OpEquals, Value: "Organic Apples"}, true},
		{"equals is case sensitive", types.FilterClause{Field: "name", Operator: types.OpEquals, Value: "organic apples"}, false},
		{"contains ignores case", types.FilterClause{Field: "name", Operator: types.OpContains, Value: "APPLE"}, true},
		{"contains nested", types.FilterClause{Field: "distributor.businessName", Operator: types.OpContains, Value: "valley"}, true},
		{"not equals", types.FilterClause{Field: "category", Operator: types.OpNotEquals, Value: "dairy"}, true},
		{"in set", types.FilterClause{Field: "category", Operator: types.OpInSet, Value: []string{"dairy", "produce"}}, true},
		{"in set miss", types.FilterClause{Field: "category", Operator: types.OpInSet, Value: []any{"dairy", "bakery"}}, false},
		{"in set scalar", types.FilterClause{Field: "category", Operator: types.OpInSet, Value: "produce"}, true},
		{"number equals string value", types.FilterClause{Field: "discountPrice", Operator: types.OpEquals, Value: "12.5"}, true},
		{"number gte", types.FilterClause{Field: "discountPrice", Operator: types.OpGreaterOrEqual, Value: 12.5}, true},
		{"number lte", types.FilterClause{Field: "discountPrice", Operator: types.OpLessOrEqual, Value: 10}, false},
		{"number unparseable filter", types.FilterClause{Field: "discountPrice", Operator: types.OpGreaterOrEqual, Value: "cheap"}, false},
		{"date equals same day", types.FilterClause{Field: "dealEndsAt", Operator: types.OpEquals, Value: "2024-03-15"}, true},
		{"date after", types.FilterClause{Field: "dealEndsAt", Operator: types.OpDateAfter, Value: "2024-03-01"}, true},
		{"date before", types.FilterClause{Field: "dealEndsAt", Operator: types.OpDateBefore, Value: "2024-03-01"}, false},
		{"date gte time value", types.FilterClause{Field: "dealEndsAt", Operator: types.OpGreaterOrEqual, Value: time.Date(2024, 3, 15, 18, 30, 0, 0, time.UTC)}, true},
		{"date with layout", types.FilterClause{Field: "shipDate", Operator: types.OpDateAfter, Value: "19.03.2024"}, true},
		{"boolean", types.FilterClause{Field: "isActive", Operator: types.OpEquals, Value: "true"}, true},
		{"boolean false", types.FilterClause{Field: "isActive", Operator: types.OpEquals, Value: false}, false},
		{"inactive clause", types.FilterClause{Field: "name", Operator: types.OpEquals, Value: ""}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Evaluate(deal, []types.FilterClause{tt.clause}, dealFields())
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("Evaluate(%s) = %v, want %v", tt.clause, got, tt.want)
			}
		})
	}
}

func TestEvaluateMissingData(t *testing.T) {
	record := types.Record{"name": "No dates", "dealEndsAt": "not a date"}

	tests := []struct {
		name   string
		clause types.FilterClause
		want   bool
	}{
		{"missing field equals", types.FilterClause{Field: "category", Operator: types.OpEquals, Value: "dairy"}, false},
		{"missing field not equals", types.FilterClause{Field: "category", Operator: types.OpNotEquals, Value: "dairy"}, true},
		{"missing nested field", types.FilterClause{Field: "distributor.businessName", Operator: types.OpContains, Value: "a"}, false},
		{"unparseable record date", types.FilterClause{Field: "dealEndsAt", Operator: types.OpDateAfter, Value: "2020-01-01"}, false},
		{"missing number", types.FilterClause{Field: "discountPrice", Operator: types.OpLessOrEqual, Value: 100}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Evaluate(record, []types.FilterClause{tt.clause}, dealFields())
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("Evaluate(%s) = %v, want %v", tt.clause, got, tt.want)
			}
		})
	}
}

func TestFilterIsConjunction(t *testing.T) {
	filters := []types.FilterClause{
		{Field: "category", Operator: types.OpEquals, Value: "produce"},
		{Field: "discountPrice", Operator: types.OpLessOrEqual, Value: 10},
	}
	f, err := CompileFilters(filters, dealFields())
	if err != nil {
		t.Fatal(err)
	}

	if !f.Match(types.Record{"category": "produce", "discountPrice": 8}) {
		t.Error("record satisfying both clauses was rejected")
	}
	if f.Match(types.Record{"category": "produce", "discountPrice": 18}) {
		t.Error("record failing one clause was accepted")
	}
	if f.ActiveCount() != 2 {
		t.Errorf("ActiveCount() = %d, want 2", f.ActiveCount())
	}
}

func TestCompileFiltersErrors(t *testing.T) {
	tests := []struct {
		name   string
		clause types.FilterClause
	}{
		{"undeclared field", types.FilterClause{Field: "price", Operator: types.OpEquals, Value: 1}},
		{"unknown operator", types.FilterClause{Field: "name", Operator: "matches", Value: "x"}},
		{"contains on number", types.FilterClause{Field: "discountPrice", Operator: types.OpContains, Value: "1"}},
		{"date operator on string", types.FilterClause{Field: "name", Operator: types.OpDateAfter, Value: "2024-01-01"}},
		{"inactive but invalid", types.FilterClause{Field: "isActive", Operator: types.OpGreaterOrEqual}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CompileFilters([]types.FilterClause{tt.clause}, dealFields())
			if !types.IsConfigError(err) {
				t.Fatalf("CompileFilters() error = %v, want a config error", err)
			}
		})
	}
}

func TestActiveFilterCount(t *testing.T) {
	filters := []types.FilterClause{
		{Field: "name", Value: "x"},
		{Field: "name", Value: ""},
		{Field: "name", Value: nil},
		{Field: "name", Value: 0},
		{Field: "name", Value: false},
		{Field: "name", Value: []string{}},
	}
	if got := ActiveFilterCount(filters); got != 3 {
		t.Errorf("ActiveFilterCount() = %d, want 3", got)
	}
}

func TestRegisterCustomPredicate(t *testing.T) {
	const op types.Operator = "startsWith"

	if _, err := Resolve(op, types.FieldString); !types.IsConfigError(err) {
		t.Fatalf("unregistered operator resolved, err = %v", err)
	}

	Register(op, types.FieldString, func(rv, fv any) bool {
		s, _ := rv.(string)
		prefix, _ := fv.(string)
		return len(s) >= len(prefix) && s[:len(prefix)] == prefix
	})

	p, err := Resolve(op, types.FieldString)
	if err != nil {
		t.Fatal(err)
	}
	if !p("Organic", "Org") || p("Organic", "gan") {
		t.Error("custom predicate not applied")
	}
}
