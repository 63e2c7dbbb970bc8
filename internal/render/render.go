// Package render formats assembled reports for export. Renderers only
// format what the report already contains; totals are never recomputed
// here.
package render

import (
	"fintrack/internal/core"
	"fintrack/internal/report"
)

var transactionHeader = []string{"date", "type", "amount", "description", "category", "payment_method"}

// Rows flattens a report into tabular records shared by the CSV and
// spreadsheet exporters. The layout is a totals block followed by the
// transaction table; annual reports repeat the table per month bucket.
func Rows(rep *report.Report) [][]string {
	rows := [][]string{
		{"period", rep.Label},
		{"total_credits", rep.Credits.String()},
		{"total_debits", rep.Debits.String()},
		{"balance", rep.Balance.String()},
	}

	if rep.Kind == report.Annual {
		for _, b := range rep.Months {
			rows = append(rows,
				[]string{"month", b.Month},
				[]string{"month_credits", b.Credits.String()},
				[]string{"month_debits", b.Debits.String()},
				[]string{"month_balance", b.Balance.String()},
				transactionHeader)
			rows = appendTransactions(rows, b.Transactions)
		}
		return rows
	}

	rows = append(rows, transactionHeader)
	return appendTransactions(rows, rep.Transactions)
}

func appendTransactions(rows [][]string, txs []core.Transaction) [][]string {
	for _, t := range txs {
		rows = append(rows, []string{
			t.Date,
			string(t.Kind),
			t.Amount.String(),
			t.Description,
			t.Category,
			t.PaymentMethod,
		})
	}
	return rows
}

// Filename suggests a download name for an exported report.
func Filename(rep *report.Report) string {
	return "report-" + string(rep.Kind) + "-" + sanitizeLabel(rep.Label) + ".csv"
}

func sanitizeLabel(label string) string {
	out := make([]rune, 0, len(label))
	for _, r := range label {
		if (r >= '0' && r <= '9') || r == '-' {
			out = append(out, r)
		} else if n := len(out); n > 0 && out[n-1] != '_' {
			out = append(out, '_')
		}
	}
	return string(out)
}
