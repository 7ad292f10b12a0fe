package export

import (
	"context"
	"fmt"
	"os"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/shinsei-trade/permit-ledger/internal/ledger"
)

// XLSXSink appends ledger rows to a workbook on disk, creating the file,
// sheet and header row when they do not exist yet.
type XLSXSink struct {
	path   string
	sheet  string
	logger *zap.Logger
}

// NewXLSXSink creates a sink writing to the workbook at path.
func NewXLSXSink(path, sheet string, logger *zap.Logger) *XLSXSink {
	if sheet == "" {
		sheet = "仕訳"
	}
	return &XLSXSink{path: path, sheet: sheet, logger: logger}
}

// Append writes rows after the last populated row of the sheet.
func (s *XLSXSink) Append(_ context.Context, rows []ledger.Row) error {
	f, created, err := s.open()
	if err != nil {
		return err
	}
	defer f.Close()

	next := 1
	if !created {
		existing, err := f.GetRows(s.sheet)
		if err != nil {
			return fmt.Errorf("failed to read sheet %q: %w", s.sheet, err)
		}
		next = len(existing) + 1
	}

	if next == 1 {
		for col, h := range header {
			cell, _ := excelize.CoordinatesToCellName(col+1, 1)
			if err := f.SetCellValue(s.sheet, cell, h); err != nil {
				return fmt.Errorf("failed to write header: %w", err)
			}
		}
		next = 2
	}

	for _, r := range rows {
		for col, v := range rowCells(r) {
			cell, _ := excelize.CoordinatesToCellName(col+1, next)
			if err := f.SetCellValue(s.sheet, cell, v); err != nil {
				return fmt.Errorf("failed to write cell %s: %w", cell, err)
			}
		}
		next++
	}

	if err := f.SaveAs(s.path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}

	s.logger.Info("Appended ledger rows to workbook",
		zap.String("path", s.path),
		zap.Int("rows", len(rows)))
	return nil
}

// open returns the workbook at s.path, creating a fresh one with the target
// sheet when the file does not exist yet.
func (s *XLSXSink) open() (*excelize.File, bool, error) {
	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		f := excelize.NewFile()
		if _, err := f.NewSheet(s.sheet); err != nil {
			return nil, false, fmt.Errorf("failed to create sheet %q: %w", s.sheet, err)
		}
		if s.sheet != "Sheet1" {
			if err := f.DeleteSheet("Sheet1"); err != nil {
				return nil, false, fmt.Errorf("failed to drop default sheet: %w", err)
			}
		}
		return f, true, nil
	}

	f, err := excelize.OpenFile(s.path)
	if err != nil {
		return nil, false, fmt.Errorf("failed to open workbook: %w", err)
	}
	if idx, _ := f.GetSheetIndex(s.sheet); idx == -1 {
		if _, err := f.NewSheet(s.sheet); err != nil {
			f.Close()
			return nil, false, fmt.Errorf("failed to create sheet %q: %w", s.sheet, err)
		}
	}
	return f, false, nil
}
