package types

import "math"

// Record is one entity fetched from the dashboard API: a deal, a commitment,
// a user, a log entry or an announcement. The pipeline never depends on a
// concrete shape, only on field lookups through Lookup.
type Record map[string]any

// SortDirection is the direction of a SortSpec
type SortDirection string

const (
	Ascending  SortDirection = "asc"
	Descending SortDirection = "desc"
)

// FilterClause restricts a listing to records whose Field satisfies Operator
// against Value. A clause whose Value is empty is inactive.
type FilterClause struct {
	Field    string   `yaml:"field" json:"field" validate:"required"`
	Operator Operator `yaml:"operator" json:"operator" validate:"required"`
	Value    any      `yaml:"value" json:"value"`
}

// IsActive reports whether the clause takes part in evaluation.
// nil, "" and empty slices mark a clause inactive.
func (c FilterClause) IsActive() bool {
	return !IsEmptyValue(c.Value)
}

// SortSpec orders a listing by a single field
type SortSpec struct {
	Field     string        `yaml:"field" json:"field" validate:"required"`
	Direction SortDirection `yaml:"direction" json:"direction" validate:"omitempty,oneof=asc desc"`
}

// Descending reports whether the sort runs from high to low
func (s SortSpec) Descending() bool {
	return s.Direction == Descending
}

// PaginationSpec selects one page of a listing
type PaginationSpec struct {
	// PageIndex is zero based
	PageIndex int `yaml:"pageIndex" json:"pageIndex" validate:"gte=0"`
	PageSize  int `yaml:"pageSize" json:"pageSize" validate:"gt=0"`
}

// AllRows is the page size used by Unpaginated
const AllRows = math.MaxInt32

// Unpaginated returns a pagination spec that keeps every record on page 0.
// Exports use it so a download always reflects the full filtered set.
func Unpaginated() PaginationSpec {
	return PaginationSpec{PageIndex: 0, PageSize: AllRows}
}

// SearchSpec is the free-text search box of a list page. It matches records
// where any of Fields contains Text, case-insensitively.
type SearchSpec struct {
	Text string `yaml:"text" json:"text"`
	// Fields to search; empty means every string and enum field
	Fields []string `yaml:"fields" json:"fields"`
}

// IsActive reports whether the search restricts the listing
func (s SearchSpec) IsActive() bool {
	return s.Text != ""
}

// QueryConfiguration is the complete state of a list page's controls.
// It is owned by the caller; the pipeline only reads it.
type QueryConfiguration struct {
	Filters    []FilterClause `yaml:"filters" json:"filters" validate:"dive"`
	Sort       *SortSpec      `yaml:"sort" json:"sort"`
	Pagination PaginationSpec `yaml:"pagination" json:"pagination"`
	Search     SearchSpec     `yaml:"search" json:"search"`
}

// QueryResult is what a list page renders. It is a pure function of the
// records and the configuration that produced it.
type QueryResult struct {
	Items []Record `json:"items"`

	// TotalCount is the size of the filtered set before pagination
	TotalCount int `json:"totalCount"`

	// TotalPages is at least 1, even for an empty result
	TotalPages int `json:"totalPages"`

	// PageIndex is the page actually used. It differs from the requested
	// index when the filtered set shrank below the requested page.
	PageIndex int  `json:"pageIndex"`
	Clamped   bool `json:"clamped"`

	ActiveFilterCount int `json:"activeFilterCount"`
}
