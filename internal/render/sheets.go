package render

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"fintrack/internal/report"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

// SheetsExporter appends report rows to a Google spreadsheet. It is used
// by the worker for monthly snapshots.
type SheetsExporter struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
}

// NewSheetsExporter creates an exporter for one spreadsheet. Credentials
// come from GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or
// GOOGLE_APPLICATION_CREDENTIALS.
func NewSheetsExporter(ctx context.Context, spreadsheetID, sheetName string) (*SheetsExporter, error) {
	if strings.TrimSpace(spreadsheetID) == "" {
		return nil, errors.New("missing spreadsheet id")
	}
	if sheetName == "" {
		sheetName = "Reports"
	}

	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &SheetsExporter{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
	}, nil
}

// Append adds the report rows, tagged with the owner, at the end of the
// sheet.
func (e *SheetsExporter) Append(ctx context.Context, ownerEmail string, rep *report.Report) error {
	if e.svc == nil {
		return errors.New("sheets service not initialized")
	}

	rows := Rows(rep)
	values := make([][]any, 0, len(rows)+1)
	values = append(values, []any{"owner", ownerEmail})
	for _, row := range rows {
		r := make([]any, len(row))
		for i, cell := range row {
			r[i] = cell
		}
		values = append(values, r)
	}

	rng := fmt.Sprintf("%s!A:F", e.sheetName)
	_, err := e.svc.Spreadsheets.Values.Append(e.spreadsheetID, rng,
		&gsheet.ValueRange{Values: values}).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("append to sheet %s: %w", e.sheetName, err)
	}

	slog.InfoContext(ctx, "Report exported to spreadsheet",
		"sheet", e.sheetName,
		"label", rep.Label,
		"rows", len(values))
	return nil
}

// newSheetsService initializes a Sheets Service using Service Account
// credentials.
func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	serviceAccountJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	serviceAccountFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	var err error
	switch {
	case serviceAccountJSON != "":
		credentialsJSON = []byte(serviceAccountJSON)
	case serviceAccountFile != "":
		credentialsJSON, err = os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return service, nil
}
