package rowstore

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/xuri/excelize/v2"
)

// XLSXStore appends rows to a local workbook. The HTTP server handles
// requests concurrently, so the open-modify-save cycle is serialized.
type XLSXStore struct {
	path   string
	sheet  string
	mu     sync.Mutex
	logger *slog.Logger
}

func NewXLSXStore(path, sheet string, logger *slog.Logger) *XLSXStore {
	if sheet == "" {
		sheet = "Sheet1"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &XLSXStore{path: path, sheet: sheet, logger: logger}
}

// EnsureHeader creates the workbook with the header row when missing, or
// writes the header into an existing workbook whose first cell is wrong.
func (s *XLSXStore) EnsureHeader(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, created, err := s.open()
	if err != nil {
		return err
	}
	defer f.Close()

	first, _ := f.GetCellValue(s.sheet, "A1")
	if !created && first == Header[0] {
		return nil
	}
	if err := s.writeRow(f, 1, Header); err != nil {
		return err
	}
	if err := f.SaveAs(s.path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	s.logger.Info("rowstore.xlsx.header_written", "path", s.path, "sheet", s.sheet)
	return nil
}

// AppendRow adds one row after the last populated row.
func (s *XLSXStore) AppendRow(_ context.Context, row [5]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, _, err := s.open()
	if err != nil {
		return err
	}
	defer f.Close()

	rows, err := f.GetRows(s.sheet)
	if err != nil {
		return fmt.Errorf("read rows: %w", err)
	}
	if err := s.writeRow(f, len(rows)+1, row); err != nil {
		return err
	}
	if err := f.SaveAs(s.path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	s.logger.Info("rowstore.xlsx.append_ok", "path", s.path, "row", len(rows)+1)
	return nil
}

func (s *XLSXStore) open() (*excelize.File, bool, error) {
	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		f := excelize.NewFile()
		if s.sheet != "Sheet1" {
			f.SetSheetName("Sheet1", s.sheet)
		}
		return f, true, nil
	}
	f, err := excelize.OpenFile(s.path)
	if err != nil {
		return nil, false, fmt.Errorf("open workbook: %w", err)
	}
	if idx, _ := f.GetSheetIndex(s.sheet); idx == -1 {
		if _, err := f.NewSheet(s.sheet); err != nil {
			return nil, false, fmt.Errorf("create sheet: %w", err)
		}
	}
	return f, false, nil
}

func (s *XLSXStore) writeRow(f *excelize.File, rowNum int, values [5]string) error {
	for i, v := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, rowNum)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(s.sheet, cell, v); err != nil {
			return fmt.Errorf("set cell %s: %w", cell, err)
		}
	}
	return nil
}
