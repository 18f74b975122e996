package export

import (
	"regexp"
	"strings"
	"time"
	"unicode"
)

var dashes = regexp.MustCompile("-+")

// Filename builds "<view>-<yyyymmdd-hhmmss>.<ext>" for a download,
// e.g. "deals-20240315-183000.csv"
func Filename(view, ext string, at time.Time) string {
	ext = strings.TrimPrefix(ext, ".")
	name := sanitizeName(view) + "-" + at.UTC().Format("20060102-150405")
	if ext == "" {
		return name
	}
	return name + "." + ext
}

// sanitizeName lowercases a name and keeps only letters, digits, dashes and
// underscores, truncated to 40 characters
func sanitizeName(name string) string {
	result := strings.ToLower(strings.TrimSpace(name))
	result = strings.ReplaceAll(result, " ", "-")

	var builder strings.Builder
	for _, r := range result {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_' {
			builder.WriteRune(r)
		}
	}

	result = dashes.ReplaceAllString(builder.String(), "-")
	result = strings.Trim(result, "-")

	if runes := []rune(result); len(runes) > 40 {
		result = strings.TrimRight(string(runes[:40]), "-")
	}

	if result == "" {
		result = "export"
	}
	return result
}
