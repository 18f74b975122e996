// Package views holds the per-page configuration of the dashboard list
// pages. A view declares the fields a page can filter, sort, search and
// export on, plus its defaults. Pages differ only through this data; they
// all run the same pipeline.
package views

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/web-source-dev/dealboard/dealboard/export"
	"github.com/web-source-dev/dealboard/internal/validation"
	"github.com/web-source-dev/dealboard/search"
	"github.com/web-source-dev/dealboard/types"
)

// DefaultPageSize is used by views that do not set one
const DefaultPageSize = 10

// View is one list page
type View struct {
	Name        string `yaml:"name" validate:"required"`
	Title       string `yaml:"title"`
	Description string `yaml:"description,omitempty"`

	Fields  []types.FieldDescriptor `yaml:"fields" validate:"required,min=1"`
	Columns []export.Column         `yaml:"columns,omitempty"`

	DefaultSort  *types.SortSpec `yaml:"defaultSort,omitempty"`
	PageSize     int             `yaml:"pageSize,omitempty" validate:"gte=0"`
	SearchFields []string        `yaml:"searchFields,omitempty"`

	fieldSet *types.FieldSet
}

// Parse decodes and validates a YAML view definition. Unknown keys are
// rejected so a typo in a definition does not silently drop a setting.
func Parse(data []byte) (*View, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var v View
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("failed to parse view: %w", err)
	}
	if err := v.Validate(); err != nil {
		return nil, err
	}
	return &v, nil
}

// Load reads a view definition from a YAML file
func Load(path string) (*View, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read view: %w", err)
	}
	v, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return v, nil
}

// Validate checks the view's fields, default sort, search fields and
// export columns, in that order
func (v *View) Validate() error {
	if err := validation.Struct("view", v); err != nil {
		return err
	}

	fields := types.NewFieldSet(v.Fields)
	if err := validation.ValidateFields(fields); err != nil {
		return err
	}

	if v.DefaultSort != nil {
		if err := validation.ValidateSort(*v.DefaultSort, fields); err != nil {
			return err
		}
	}

	if _, err := search.Compile(types.SearchSpec{Fields: v.SearchFields}, fields); err != nil {
		return err
	}

	if len(v.Columns) > 0 {
		if err := export.ValidateColumns(v.Columns, fields); err != nil {
			return err
		}
	}

	v.fieldSet = fields
	return nil
}

// FieldSet returns the view's declared fields. Validate caches the set;
// a view that was never validated builds a fresh one per call, so reads
// never write to the view.
func (v *View) FieldSet() *types.FieldSet {
	if v.fieldSet != nil {
		return v.fieldSet
	}
	return types.NewFieldSet(v.Fields)
}

// Config returns the configuration a page starts with: no filters, the
// default sort, the first page and the view's search fields. Callers own
// the returned value.
func (v *View) Config() types.QueryConfiguration {
	cfg := types.QueryConfiguration{
		Pagination: types.PaginationSpec{PageIndex: 0, PageSize: v.PageSize},
		Search:     types.SearchSpec{Fields: append([]string(nil), v.SearchFields...)},
	}
	if cfg.Pagination.PageSize == 0 {
		cfg.Pagination.PageSize = DefaultPageSize
	}
	if v.DefaultSort != nil {
		sort := *v.DefaultSort
		cfg.Sort = &sort
	}
	return cfg
}

// ExportColumns returns the view's export columns, or one column per
// field when none are declared
func (v *View) ExportColumns() []export.Column {
	if len(v.Columns) > 0 {
		return append([]export.Column(nil), v.Columns...)
	}
	return export.DefaultColumns(v.FieldSet())
}

// DisplayTitle returns the title, falling back to the name
func (v *View) DisplayTitle() string {
	if v.Title != "" {
		return v.Title
	}
	return v.Name
}
