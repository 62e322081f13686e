package rowstore

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// SheetsStore appends rows to a Google Sheets spreadsheet using a service
// account, the hosted counterpart of the XLSX backend.
type SheetsStore struct {
	svc           *sheets.Service
	spreadsheetID string
	sheetName     string
	logger        *slog.Logger
}

func NewSheetsStore(ctx context.Context, spreadsheetID, sheetName, credentialsPath string, logger *slog.Logger) (*SheetsStore, error) {
	if sheetName == "" {
		sheetName = "Sheet1"
	}
	if logger == nil {
		logger = slog.Default()
	}

	data, err := os.ReadFile(credentialsPath)
	if err != nil {
		return nil, fmt.Errorf("read sheets credentials: %w", err)
	}
	creds, err := google.CredentialsFromJSON(ctx, data, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("parse sheets credentials: %w", err)
	}
	svc, err := sheets.NewService(ctx, option.WithCredentials(creds))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return &SheetsStore{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
		logger:        logger,
	}, nil
}

// EnsureHeader writes the header row when the first cell does not already
// carry it. Safe to call on every startup.
func (s *SheetsStore) EnsureHeader(ctx context.Context) error {
	rangeRef := fmt.Sprintf("%s!A1:E1", s.sheetName)
	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, rangeRef).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("read header row: %w", err)
	}
	if len(resp.Values) > 0 && len(resp.Values[0]) > 0 {
		if first, ok := resp.Values[0][0].(string); ok && first == Header[0] {
			return nil
		}
	}

	row := make([]interface{}, len(Header))
	for i, h := range Header {
		row[i] = h
	}
	_, err = s.svc.Spreadsheets.Values.Update(s.spreadsheetID, rangeRef,
		&sheets.ValueRange{Values: [][]interface{}{row}}).
		ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("write header row: %w", err)
	}
	s.logger.Info("rowstore.sheets.header_written", "spreadsheet_id", s.spreadsheetID, "sheet", s.sheetName)
	return nil
}

// AppendRow appends one five-column row below the existing data.
func (s *SheetsStore) AppendRow(ctx context.Context, row [5]string) error {
	start := time.Now()
	vals := make([]interface{}, len(row))
	for i, v := range row {
		vals[i] = v
	}
	_, err := s.svc.Spreadsheets.Values.Append(s.spreadsheetID,
		fmt.Sprintf("%s!A:E", s.sheetName),
		&sheets.ValueRange{Values: [][]interface{}{vals}}).
		ValueInputOption("RAW").InsertDataOption("INSERT_ROWS").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("append row: %w", err)
	}
	s.logger.Info("rowstore.sheets.append_ok",
		"spreadsheet_id", s.spreadsheetID,
		"elapsed_ms", time.Since(start).Milliseconds())
	return nil
}
