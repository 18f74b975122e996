package query

import (
	"strings"
	"sync"
	"time"

	"github.com/web-source-dev/dealboard/internal/values"
	"github.com/web-source-dev/dealboard/types"
)

// Predicate compares one record value against a filter value. Predicates
// never fail: a missing or unparseable value simply does not match.
type Predicate func(recordValue, filterValue any) bool

type predicateKey struct {
	op        types.Operator
	fieldType types.FieldType
}

var (
	registryMu sync.RWMutex
	registry   = make(map[predicateKey]Predicate)
)

// Register adds or replaces the predicate for an operator and field type.
// Call it during program initialization.
func Register(op types.Operator, fieldType types.FieldType, p Predicate) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[predicateKey{op, fieldType}] = p
}

// Resolve returns the predicate for an operator applied to a field type.
// Combinations without a predicate, such as contains on a number field,
// are configuration errors.
func Resolve(op types.Operator, fieldType types.FieldType) (Predicate, error) {
	registryMu.RLock()
	p, ok := registry[predicateKey{op, fieldType}]
	registryMu.RUnlock()

	if !ok {
		if !op.IsValid() {
			return nil, types.NewConfigError("filter", "", "unknown operator %q", op)
		}
		return nil, types.NewConfigError("filter", "", "operator %s does not apply to %s fields", op, fieldType)
	}
	return p, nil
}

func init() {
	for _, t := range []types.FieldType{types.FieldString, types.FieldEnum, types.FieldNumber, types.FieldDate, types.FieldBoolean} {
		eq := equalsFor(t)
		Register(types.OpEquals, t, eq)
		Register(types.OpNotEquals, t, notEquals(eq))
		Register(types.OpInSet, t, inSet(eq))
	}

	Register(types.OpContains, types.FieldString, containsFold)

	Register(types.OpGreaterOrEqual, types.FieldNumber, compareNumbers(func(a, b float64) bool { return a >= b }))
	Register(types.OpLessOrEqual, types.FieldNumber, compareNumbers(func(a, b float64) bool { return a <= b }))

	Register(types.OpGreaterOrEqual, types.FieldDate, compareDates(func(a, b time.Time) bool { return !a.Before(b) }))
	Register(types.OpLessOrEqual, types.FieldDate, compareDates(func(a, b time.Time) bool { return !a.After(b) }))
	Register(types.OpDateAfter, types.FieldDate, compareDates(time.Time.After))
	Register(types.OpDateBefore, types.FieldDate, compareDates(time.Time.Before))
}

// equalsFor returns the equality used by equals, notEquals and inSet
func equalsFor(t types.FieldType) Predicate {
	switch t {
	case types.FieldNumber:
		return func(rv, fv any) bool {
			a, okA := values.Float(rv)
			b, okB := values.Float(fv)
			return okA && okB && a == b
		}
	case types.FieldDate:
		return compareDates(values.SameDay)
	case types.FieldBoolean:
		return func(rv, fv any) bool {
			a, okA := values.Bool(rv)
			b, okB := values.Bool(fv)
			return okA && okB && a == b
		}
	default:
		return func(rv, fv any) bool {
			a, okA := values.String(rv)
			b, okB := values.String(fv)
			return okA && okB && a == b
		}
	}
}

// notEquals negates an equality. A record missing the field is not equal.
func notEquals(eq Predicate) Predicate {
	return func(rv, fv any) bool {
		return !eq(rv, fv)
	}
}

// inSet matches when the record value equals any member of the filter value
func inSet(eq Predicate) Predicate {
	return func(rv, fv any) bool {
		members, ok := values.Slice(fv)
		if !ok {
			members = []any{fv}
		}
		for _, member := range members {
			if eq(rv, member) {
				return true
			}
		}
		return false
	}
}

func containsFold(rv, fv any) bool {
	text, ok := values.String(rv)
	if !ok {
		return false
	}
	needle, ok := values.String(fv)
	if !ok {
		return false
	}
	return strings.Contains(strings.ToLower(text), strings.ToLower(needle))
}

func compareNumbers(cmp func(a, b float64) bool) Predicate {
	return func(rv, fv any) bool {
		a, okA := values.Float(rv)
		b, okB := values.Float(fv)
		return okA && okB && cmp(a, b)
	}
}

func compareDates(cmp func(a, b time.Time) bool) Predicate {
	return func(rv, fv any) bool {
		a, okA := values.Time(rv, "")
		b, okB := values.Time(fv, "")
		return okA && okB && cmp(a, b)
	}
}
