package search

// Options configures a Matcher beyond the SearchSpec it is compiled from
type Options struct {
	// CaseSensitive disables the default case-insensitive matching
	CaseSensitive bool

	// HighlightStartMarker and HighlightEndMarker wrap matches in Highlight.
	// Both default to "**".
	HighlightStartMarker string
	HighlightEndMarker   string
}

// FieldMatch describes where a search text was found in one record field
type FieldMatch struct {
	FieldName string
	Text      string
	// Positions are byte offsets of each non-overlapping match in Text
	Positions []int
}
