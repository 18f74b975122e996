package query

import (
	"cmp"
	"math"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/web-source-dev/dealboard/internal/validation"
	"github.com/web-source-dev/dealboard/internal/values"
	"github.com/web-source-dev/dealboard/types"
)

// Comparator orders two records, returning -1, 0 or 1
type Comparator func(a, b types.Record) int

// BuildComparator returns the comparator for a sort spec. A nil spec yields
// a comparator that treats every pair as equal, which keeps input order
// under a stable sort.
//
// Strings and enums compare with a case-insensitive collator for the
// given locale (language.Und when omitted). Missing values, NaN numbers and
// unparseable dates sort last in both directions.
func BuildComparator(spec *types.SortSpec, fields *types.FieldSet, locale ...language.Tag) (Comparator, error) {
	if spec == nil {
		return func(a, b types.Record) int { return 0 }, nil
	}
	if err := validation.ValidateSort(*spec, fields); err != nil {
		return nil, err
	}
	field, _ := fields.Get(spec.Field)

	tag := language.Und
	if len(locale) > 0 {
		tag = locale[0]
	}
	return newComparator(field, spec.Descending(), tag), nil
}

// newComparator builds the comparator for an already validated field.
// Collators keep internal buffers, so every comparator gets its own.
func newComparator(field *types.FieldDescriptor, descending bool, tag language.Tag) Comparator {
	var compareKeys func(a, b any) int

	switch field.Type {
	case types.FieldNumber:
		compareKeys = func(a, b any) int { return cmp.Compare(a.(float64), b.(float64)) }
	case types.FieldDate:
		compareKeys = func(a, b any) int { return a.(time.Time).Compare(b.(time.Time)) }
	case types.FieldBoolean:
		compareKeys = func(a, b any) int {
			return cmp.Compare(boolRank(a.(bool)), boolRank(b.(bool)))
		}
	default:
		collator := collate.New(tag, collate.IgnoreCase)
		compareKeys = func(a, b any) int { return collator.CompareString(a.(string), b.(string)) }
	}

	return func(a, b types.Record) int {
		ka, okA := sortKey(field, a)
		kb, okB := sortKey(field, b)

		switch {
		case !okA && !okB:
			return 0
		case !okA:
			return 1
		case !okB:
			return -1
		}

		c := compareKeys(ka, kb)
		if descending {
			c = -c
		}
		return sign(c)
	}
}

// sortKey extracts a comparable key for the field, reporting false for
// values that must sort last
func sortKey(field *types.FieldDescriptor, record types.Record) (any, bool) {
	raw := record.Value(field.Name)

	switch field.Type {
	case types.FieldNumber:
		f, ok := values.Float(raw)
		if !ok || math.IsNaN(f) {
			return nil, false
		}
		return f, true
	case types.FieldDate:
		t, ok := values.Time(raw, field.Layout)
		if !ok {
			return nil, false
		}
		return t, true
	case types.FieldBoolean:
		b, ok := values.Bool(raw)
		return b, ok
	default:
		s, ok := values.String(raw)
		return s, ok
	}
}

func boolRank(b bool) int {
	if b {
		return 1
	}
	return 0
}

func sign(c int) int {
	switch {
	case c < 0:
		return -1
	case c > 0:
		return 1
	default:
		return 0
	}
}
