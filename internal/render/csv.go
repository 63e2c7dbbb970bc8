package render

import (
	"encoding/csv"
	"fmt"
	"io"

	"fintrack/internal/report"
)

// WriteCSV streams the report as CSV.
func WriteCSV(w io.Writer, rep *report.Report) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(Rows(rep)); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}
