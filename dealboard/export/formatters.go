package export

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/dustin/go-humanize"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/web-source-dev/dealboard/internal/values"
	"github.com/web-source-dev/dealboard/types"
)

var (
	formattersMu sync.RWMutex
	formatters   = make(map[string]Formatter)
)

// RegisterFormatter adds a named formatter usable from Column.Format
func RegisterFormatter(name string, f Formatter) error {
	if !isValidFormatterName(name) {
		return fmt.Errorf("invalid formatter name %q: must be lowercase alphanumeric with dashes and underscores only", name)
	}
	if f == nil {
		return fmt.Errorf("formatter %q is nil", name)
	}

	formattersMu.Lock()
	defer formattersMu.Unlock()
	if _, exists := formatters[name]; exists {
		return fmt.Errorf("formatter %q already registered", name)
	}
	formatters[name] = f
	return nil
}

// GetFormatter returns a formatter by name
func GetFormatter(name string) (Formatter, error) {
	formattersMu.RLock()
	defer formattersMu.RUnlock()
	f, exists := formatters[name]
	if !exists {
		return nil, fmt.Errorf("unknown formatter %q", name)
	}
	return f, nil
}

// Formatters returns the registered formatter names, sorted
func Formatters() []string {
	formattersMu.RLock()
	defer formattersMu.RUnlock()
	names := make([]string, 0, len(formatters))
	for name := range formatters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func isValidFormatterName(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range name {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') && r != '-' && r != '_' {
			return false
		}
	}
	return true
}

func init() {
	builtins := map[string]Formatter{
		"date":     FormatDate("2006-01-02"),
		"datetime": FormatDate("2006-01-02 15:04"),
		"money":    formatMoney,
		"number":   formatNumber,
		"percent":  formatPercent,
		"bool":     formatBool,
		"upper":    formatUpper,
		"tiers":    formatTiers,
	}
	for name, f := range builtins {
		if err := RegisterFormatter(name, f); err != nil {
			panic(err)
		}
	}
}

// FormatDate renders dates in UTC with the given layout
func FormatDate(layout string) Formatter {
	return func(value any) (string, error) {
		t, ok := values.Time(value, "")
		if !ok {
			return "", fmt.Errorf("not a date: %v", value)
		}
		return t.UTC().Format(layout), nil
	}
}

func number(value any) (float64, error) {
	f, ok := values.Float(value)
	if !ok {
		return 0, fmt.Errorf("not a number: %v", value)
	}
	return f, nil
}

// formatMoney renders 1234.5 as $1,234.50
func formatMoney(value any) (string, error) {
	f, err := number(value)
	if err != nil {
		return "", err
	}
	sign := ""
	if f < 0 {
		sign = "-"
		f = -f
	}
	return sign + "$" + humanize.FormatFloat("#,###.##", f), nil
}

// formatNumber renders 1234567.5 as 1,234,567.5
func formatNumber(value any) (string, error) {
	f, err := number(value)
	if err != nil {
		return "", err
	}
	return humanize.Commaf(f), nil
}

// formatPercent renders 12.5 as 12.5%
func formatPercent(value any) (string, error) {
	f, err := number(value)
	if err != nil {
		return "", err
	}
	return humanize.Ftoa(f) + "%", nil
}

func formatBool(value any) (string, error) {
	b, ok := values.Bool(value)
	if !ok {
		return "", fmt.Errorf("not a boolean: %v", value)
	}
	if b {
		return "Yes", nil
	}
	return "No", nil
}

func formatUpper(value any) (string, error) {
	s, ok := values.String(value)
	if !ok {
		return "", fmt.Errorf("missing value")
	}
	return cases.Upper(language.Und).String(s), nil
}

// formatTiers renders a deal's discount tiers, [{minQty: 100, discount: 5}],
// as "100+: 5%; 200+: 10%"
func formatTiers(value any) (string, error) {
	tiers, ok := values.Slice(value)
	if !ok {
		return "", fmt.Errorf("not a tier list: %v", value)
	}
	if len(tiers) == 0 {
		return "", nil
	}

	parts := make([]string, 0, len(tiers))
	for _, raw := range tiers {
		var tier map[string]any
		switch t := raw.(type) {
		case map[string]any:
			tier = t
		case types.Record:
			tier = t
		default:
			return "", fmt.Errorf("not a tier: %v", raw)
		}
		qty, okQty := values.Float(firstOf(tier, "minQty", "minQuantity", "quantity"))
		discount, okDiscount := values.Float(firstOf(tier, "discount", "discountPercent"))
		if !okQty || !okDiscount {
			return "", fmt.Errorf("incomplete tier: %v", tier)
		}
		parts = append(parts, fmt.Sprintf("%s+: %s%%", humanize.Comma(int64(qty)), humanize.Ftoa(discount)))
	}
	return strings.Join(parts, "; "), nil
}

func firstOf(m map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := m[k]; ok {
			return v
		}
	}
	return nil
}
