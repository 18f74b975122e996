package export

import (
	"encoding/csv"
	"fmt"
	"io"
)

// WriteCSV writes the row matrix as RFC 4180 CSV
func WriteCSV(w io.Writer, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	return nil
}
