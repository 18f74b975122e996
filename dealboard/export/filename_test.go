package export

import (
	"testing"
	"time"
)

func TestFilename(t *testing.T) {
	at := time.Date(2024, 3, 15, 18, 30, 5, 0, time.FixedZone("EST", -5*3600))

	tests := []struct {
		name     string
		view     string
		ext      string
		expected string
	}{
		{"simple view", "deals", "csv", "deals-20240315-233005.csv"},
		{"extension with dot", "deals", ".pdf", "deals-20240315-233005.pdf"},
		{"spaces and case", "My Commitments", "zip", "my-commitments-20240315-233005.zip"},
		{"special characters", "Orders & Returns!", "csv", "orders-returns-20240315-233005.csv"},
		{"empty view", "", "csv", "export-20240315-233005.csv"},
		{"no extension", "logs", "", "logs-20240315-233005"},
		{
			"long view truncated",
			"a view name that is far too long to be used verbatim in a filename",
			"csv",
			"a-view-name-that-is-far-too-long-to-be-u-20240315-233005.csv",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Filename(tt.view, tt.ext, at); got != tt.expected {
				t.Errorf("Filename() = %q, want %q", got, tt.expected)
			}
		})
	}
}
