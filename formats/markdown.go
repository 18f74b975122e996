package formats

import (
	"fmt"
	"io"
	"strings"
)

// Markdown renders a GitHub flavored table under a "# Title" heading.
// Pipes inside cells are escaped.
var Markdown = &TableFormat{
	Name:      "markdown",
	Extension: ".md",
	Render: func(w io.Writer, table *Table) error {
		var b strings.Builder

		if table.Title != "" {
			b.WriteString("# " + table.Title + "\n\n")
		}

		if len(table.Header) > 0 {
			writeMarkdownRow(&b, table.Header)
			rules := make([]string, len(table.Header))
			for i := range rules {
				rules[i] = "---"
			}
			writeMarkdownRow(&b, rules)
			for _, row := range table.Rows {
				writeMarkdownRow(&b, row)
			}
		}

		if len(table.Rows) == 0 {
			b.WriteString("\n_No results._\n")
		}

		if table.Summary != "" {
			b.WriteString("\n" + table.Summary + "\n")
		}

		_, err := io.WriteString(w, b.String())
		return err
	},
}

var markdownEscaper = strings.NewReplacer("|", `\|`, "\r\n", "<br>", "\n", "<br>")

func writeMarkdownRow(b *strings.Builder, cells []string) {
	b.WriteString("|")
	for _, cell := range cells {
		b.WriteString(" " + markdownEscaper.Replace(cell) + " |")
	}
	b.WriteString("\n")
}

func init() {
	if err := Register(Markdown); err != nil {
		panic(fmt.Sprintf("failed to register Markdown format: %v", err))
	}
}
