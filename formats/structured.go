package formats

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// document is the shape of structured output
type document struct {
	Title   string              `json:"title,omitempty" yaml:"title,omitempty"`
	Columns []string            `json:"columns" yaml:"columns"`
	Rows    []map[string]string `json:"rows" yaml:"rows"`
	Summary string              `json:"summary,omitempty" yaml:"summary,omitempty"`
}

func newDocument(table *Table) document {
	return document{
		Title:   table.Title,
		Columns: table.Header,
		Rows:    table.Records(),
		Summary: table.Summary,
	}
}

// JSON renders the table as an indented object of rows keyed by column
var JSON = &TableFormat{
	Name:      "json",
	Extension: ".json",
	Render: func(w io.Writer, table *Table) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(newDocument(table))
	},
}

// YAML renders the same document as JSON, in YAML
var YAML = &TableFormat{
	Name:      "yaml",
	Extension: ".yaml",
	Render: func(w io.Writer, table *Table) error {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(newDocument(table)); err != nil {
			return err
		}
		return enc.Close()
	},
}

func init() {
	for _, format := range []*TableFormat{JSON, YAML} {
		if err := Register(format); err != nil {
			panic(fmt.Sprintf("failed to register %s format: %v", format.Name, err))
		}
	}
}
