// Package export turns the filtered and sorted records of a list view into
// downloadable CSV, PDF or zip files.
//
// Exporting happens in two steps:
// 1. Build a Bundle: run the query plan without pagination and project the
// records through the view's columns into a row matrix.
// 2. Write the bundle in the requested Kind.
//
// Keeping the row matrix separate from the writers lets tests check
// projected content without decoding files.
package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/web-source-dev/dealboard/dealboard/query"
	"github.com/web-source-dev/dealboard/types"
)

// Kinds returns the supported export kinds
func Kinds() []Kind {
	return []Kind{KindCSV, KindPDF, KindArchive}
}

// ParseKind parses an export kind, accepting "archive" for zip
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ".")) {
	case "csv":
		return KindCSV, nil
	case "pdf":
		return KindPDF, nil
	case "zip", "archive":
		return KindArchive, nil
	}
	return "", types.NewConfigError("export", "kind", "unknown export kind %q (supported: csv, pdf, zip)", s)
}

// Extension returns the file extension of the kind, without the dot
func (k Kind) Extension() string {
	return string(k)
}

// Options describes the export of one view
type Options struct {
	View    string
	Title   string
	Columns []Column

	// At stamps the export, defaulting to the current time
	At time.Time
}

// Build runs the plan over records without pagination and projects the
// result. The bundle's record count equals the plan's TotalCount.
func Build(plan *query.Plan, records []types.Record, opts Options) (*Bundle, error) {
	columns := opts.Columns
	if len(columns) == 0 {
		columns = DefaultColumns(plan.Fields())
	}
	if err := ValidateColumns(columns, plan.Fields()); err != nil {
		return nil, err
	}

	rows, err := Rows(plan, records, columns)
	if err != nil {
		return nil, err
	}

	at := opts.At
	if at.IsZero() {
		at = time.Now().UTC()
	}

	cfg := plan.Config()
	bundle := &Bundle{
		View:        opts.View,
		Title:       opts.Title,
		GeneratedAt: at,
		Rows:        rows,
		Search:      cfg.Search.Text,
	}
	for _, clause := range cfg.Filters {
		if clause.IsActive() {
			bundle.Filters = append(bundle.Filters, clause.String())
		}
	}
	return bundle, nil
}

// Write writes the bundle in the given kind
func Write(w io.Writer, kind Kind, bundle *Bundle) error {
	switch kind {
	case KindCSV:
		return WriteCSV(w, bundle.Rows)
	case KindPDF:
		return WritePDF(w, bundle.Title, bundle.Rows)
	case KindArchive:
		_, err := WriteArchive(w, bundle)
		return err
	}
	return fmt.Errorf("unsupported export kind %q", kind)
}

// BundleFilename returns the download name of the bundle in the given kind
func BundleFilename(bundle *Bundle, kind Kind) string {
	return Filename(bundle.View, kind.Extension(), bundle.GeneratedAt)
}
