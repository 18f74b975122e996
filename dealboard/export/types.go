package export

import (
	"time"
)

// Formatter renders one cell value. An error makes the cell read
// Unavailable instead of aborting the export.
type Formatter func(value any) (string, error)

// Unavailable is written to cells whose formatter failed
const Unavailable = "N/A"

// Column is one column of an export
type Column struct {
	// Field is read from every record, dotted paths included
	Field string `yaml:"field" json:"field" validate:"required"`

	// Header defaults to the field name in title case
	Header string `yaml:"header,omitempty" json:"header,omitempty"`

	// Format names a registered formatter, see Formatters
	Format string `yaml:"format,omitempty" json:"format,omitempty"`

	// Formatter takes precedence over Format when set
	Formatter Formatter `yaml:"-" json:"-"`
}

// Kind is an export file type
type Kind string

const (
	KindCSV     Kind = "csv"
	KindPDF     Kind = "pdf"
	KindArchive Kind = "zip"
)

// Manifest describes the contents of an export archive
type Manifest struct {
	ExportID    string    `json:"exportId"`
	View        string    `json:"view"`
	Title       string    `json:"title,omitempty"`
	GeneratedAt time.Time `json:"generatedAt"`
	Rows        int       `json:"rows"`
	Columns     []string  `json:"columns"`
	Filters     []string  `json:"filters,omitempty"`
	Search      string    `json:"search,omitempty"`
	Files       []string  `json:"files"`
}

// Bundle is a projected export ready to be written
type Bundle struct {
	View        string
	Title       string
	GeneratedAt time.Time

	// Rows holds the header row followed by one row per record
	Rows [][]string

	Filters []string
	Search  string
}

// RecordCount returns the number of data rows, header excluded
func (b *Bundle) RecordCount() int {
	if len(b.Rows) == 0 {
		return 0
	}
	return len(b.Rows) - 1
}
