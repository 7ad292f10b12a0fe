// Package export delivers generated ledger rows to their destination.
// Sinks own column ordering, header presence and persistence; the row
// generator only guarantees logical row content and order.
package export

import (
	"context"

	"github.com/shinsei-trade/permit-ledger/internal/ledger"
)

// Sink receives generated ledger rows in order.
type Sink interface {
	Append(ctx context.Context, rows []ledger.Row) error
}

// header is the shared column layout of the file-based sinks.
var header = []string{"取引日", "摘要", "金額(円)", "勘定科目", "補助科目", "仕訳メモ"}

func rowCells(r ledger.Row) []interface{} {
	return []interface{}{r.Date, r.Description, r.Amount, r.Category.AccountTitle(), r.SubCategory, r.Memo}
}
