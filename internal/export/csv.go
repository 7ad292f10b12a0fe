package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/shinsei-trade/permit-ledger/internal/ledger"
)

// CSVSink writes ledger rows as CSV to an io.Writer. The header row is
// written once, before the first appended row.
type CSVSink struct {
	w           *csv.Writer
	wroteHeader bool
}

// NewCSVSink creates a sink writing to w. withHeader false suppresses the
// header row, for appending to a file that already has one.
func NewCSVSink(w io.Writer, withHeader bool) *CSVSink {
	return &CSVSink{w: csv.NewWriter(w), wroteHeader: !withHeader}
}

// Append writes rows in order and flushes.
func (s *CSVSink) Append(_ context.Context, rows []ledger.Row) error {
	if !s.wroteHeader {
		if err := s.w.Write(header); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
		s.wroteHeader = true
	}
	for _, r := range rows {
		record := []string{r.Date, r.Description, strconv.FormatInt(r.Amount, 10), r.Category.AccountTitle(), r.SubCategory, r.Memo}
		if err := s.w.Write(record); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	s.w.Flush()
	return s.w.Error()
}
