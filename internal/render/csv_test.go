package render

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"fintrack/internal/core"
	"fintrack/internal/report"
)

func flatReport() *report.Report {
	return &report.Report{
		Kind:  report.Daily,
		Label: "2024-03-20",
		Totals: report.Totals{
			Credits: core.Money{Cents: 10000},
			Debits:  core.Money{Cents: 2550},
			Balance: core.Money{Cents: 7450},
		},
		Transactions: []core.Transaction{
			{
				Kind:          core.Credit,
				Amount:        core.Money{Cents: 10000},
				Description:   "salary",
				PaymentMethod: "bank_transfer",
				Date:          "2024-03-20",
			},
			{
				Kind:          core.Debit,
				Amount:        core.Money{Cents: 2550},
				Description:   "groceries, market",
				Category:      "food",
				PaymentMethod: "cash",
				Date:          "2024-03-20",
			},
		},
	}
}

func TestWriteCSVFlat(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, flatReport()); err != nil {
		t.Fatalf("write: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("reparse: %v", err)
	}
	// 4 totals rows + header + 2 transactions
	if len(records) != 7 {
		t.Fatalf("got %d records, want 7", len(records))
	}
	if records[0][0] != "period" || records[0][1] != "2024-03-20" {
		t.Fatalf("period row %v", records[0])
	}
	if records[3][0] != "balance" || records[3][1] != "74.50" {
		t.Fatalf("balance row %v", records[3])
	}
	if records[6][3] != "groceries, market" {
		t.Fatalf("comma in description not preserved: %v", records[6])
	}
}

func TestWriteCSVAnnual(t *testing.T) {
	rep := &report.Report{
		Kind:  report.Annual,
		Label: "2024",
		Totals: report.Totals{
			Credits: core.Money{Cents: 300},
			Debits:  core.Money{Cents: 100},
			Balance: core.Money{Cents: 200},
		},
		Months: []report.MonthBucket{
			{
				Month: "2024-01",
				Totals: report.Totals{
					Credits: core.Money{Cents: 300},
					Debits:  core.Money{Cents: 100},
					Balance: core.Money{Cents: 200},
				},
				Transactions: []core.Transaction{
					{Kind: core.Credit, Amount: core.Money{Cents: 300}, Description: "x", Date: "2024-01-05", PaymentMethod: "cash"},
					{Kind: core.Debit, Amount: core.Money{Cents: 100}, Description: "y", Date: "2024-01-06", PaymentMethod: "cash"},
				},
			},
		},
	}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, rep); err != nil {
		t.Fatalf("write: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "month,2024-01") {
		t.Fatalf("missing month section:\n%s", out)
	}
	if !strings.Contains(out, "month_balance,2.00") {
		t.Fatalf("missing month totals:\n%s", out)
	}
}

func TestFilename(t *testing.T) {
	cases := []struct {
		rep  *report.Report
		want string
	}{
		{&report.Report{Kind: report.Daily, Label: "2024-03-20"}, "report-daily-2024-03-20.csv"},
		{&report.Report{Kind: report.Weekly, Label: "2024-01-01 to 2024-01-07"}, "report-weekly-2024-01-01_2024-01-07.csv"},
		{&report.Report{Kind: report.Annual, Label: "2024"}, "report-annual-2024.csv"},
	}
	for i, tc := range cases {
		if got := Filename(tc.rep); got != tc.want {
			t.Fatalf("case %d: got %q, want %q", i, got, tc.want)
		}
	}
}
