package types

import (
	"fmt"
	"reflect"
	"strings"
)

// Operator names a filter comparison
type Operator string

const (
	OpEquals         Operator = "equals"
	OpNotEquals      Operator = "notEquals"
	OpContains       Operator = "contains"
	OpGreaterOrEqual Operator = "greaterOrEqual"
	OpLessOrEqual    Operator = "lessOrEqual"
	OpDateAfter      Operator = "dateAfter"
	OpDateBefore     Operator = "dateBefore"
	OpInSet          Operator = "inSet"
)

// Operators returns every supported operator
func Operators() []Operator {
	return []Operator{
		OpEquals, OpNotEquals, OpContains, OpGreaterOrEqual,
		OpLessOrEqual, OpDateAfter, OpDateBefore, OpInSet,
	}
}

// operatorAliases maps short operator names, as typed on the command line,
// to operators
var operatorAliases = map[string]Operator{
	"eq":       OpEquals,
	"=":        OpEquals,
	"ne":       OpNotEquals,
	"noteq":    OpNotEquals,
	"!=":       OpNotEquals,
	"like":     OpContains,
	"gte":      OpGreaterOrEqual,
	">=":       OpGreaterOrEqual,
	"lte":      OpLessOrEqual,
	"<=":       OpLessOrEqual,
	"after":    OpDateAfter,
	"before":   OpDateBefore,
	"in":       OpInSet,
	"oneof":    OpInSet,
	"contains": OpContains,
}

// ParseOperator resolves an operator by its name or a short alias
func ParseOperator(name string) (Operator, error) {
	for _, op := range Operators() {
		if strings.EqualFold(string(op), name) {
			return op, nil
		}
	}
	if op, ok := operatorAliases[strings.ToLower(name)]; ok {
		return op, nil
	}
	return "", NewConfigError("filter", "", "unknown operator %q", name)
}

// IsValid checks the operator against the known set
func (o Operator) IsValid() bool {
	for _, op := range Operators() {
		if o == op {
			return true
		}
	}
	return false
}

// ParseSortDirection accepts "asc", "desc" and their long forms
func ParseSortDirection(s string) (SortDirection, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "asc", "ascending":
		return Ascending, nil
	case "desc", "descending":
		return Descending, nil
	default:
		return "", NewConfigError("sort", "", "direction must be either 'asc' or 'desc', got %q", s)
	}
}

// IsEmptyValue reports whether a filter value leaves its clause inactive:
// nil, the empty string, or a slice with no elements.
func IsEmptyValue(v any) bool {
	if v == nil {
		return true
	}
	switch val := v.(type) {
	case string:
		return val == ""
	case []any:
		return len(val) == 0
	case []string:
		return len(val) == 0
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		return rv.Len() == 0
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return true
		}
		return IsEmptyValue(rv.Elem().Interface())
	}
	return false
}

// String renders the clause the way the CLI accepts it
func (c FilterClause) String() string {
	return fmt.Sprintf("%s:%s:%v", c.Field, c.Operator, c.Value)
}
