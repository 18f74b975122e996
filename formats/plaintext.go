package formats

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

// PlainText renders aligned columns:
//   - title line, if any, followed by a blank line
//   - header row and a dashed rule
//   - one line per row, or "(no results)"
//   - summary line, if any, after a blank line
var PlainText = &TableFormat{
	Name:      "plaintext",
	Extension: ".txt",
	Render: func(w io.Writer, table *Table) error {
		if table.Title != "" {
			if _, err := fmt.Fprintf(w, "%s\n\n", table.Title); err != nil {
				return err
			}
		}

		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		if len(table.Header) > 0 {
			fmt.Fprintln(tw, strings.Join(table.Header, "\t"))
			rules := make([]string, len(table.Header))
			for i, h := range table.Header {
				rules[i] = strings.Repeat("-", max(len([]rune(h)), 3))
			}
			fmt.Fprintln(tw, strings.Join(rules, "\t"))
		}
		for _, row := range table.Rows {
			fmt.Fprintln(tw, strings.Join(flatten(row), "\t"))
		}
		if err := tw.Flush(); err != nil {
			return err
		}

		if len(table.Rows) == 0 {
			if _, err := fmt.Fprintln(w, "(no results)"); err != nil {
				return err
			}
		}

		if table.Summary != "" {
			if _, err := fmt.Fprintf(w, "\n%s\n", table.Summary); err != nil {
				return err
			}
		}
		return nil
	},
}

// flatten keeps multi-line cells on one terminal line
func flatten(row []string) []string {
	out := make([]string, len(row))
	for i, cell := range row {
		out[i] = strings.Join(strings.Fields(cell), " ")
	}
	return out
}

func init() {
	if err := Register(PlainText); err != nil {
		panic(fmt.Sprintf("failed to register PlainText format: %v", err))
	}
}
