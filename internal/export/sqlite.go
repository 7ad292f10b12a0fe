package export

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/shinsei-trade/permit-ledger/internal/ledger"
	"github.com/shinsei-trade/permit-ledger/pkg/database"
)

const ledgerSchema = `
	CREATE TABLE IF NOT EXISTS ledger_rows (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		date TEXT NOT NULL,
		description TEXT NOT NULL,
		amount INTEGER NOT NULL,
		account_category TEXT NOT NULL,
		account_title TEXT NOT NULL,
		sub_category TEXT NOT NULL DEFAULT '',
		memo TEXT NOT NULL DEFAULT '',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
`

// SQLiteSink persists ledger rows into a local SQLite database.
type SQLiteSink struct {
	db     *database.DB
	logger *zap.Logger
}

// NewSQLiteSink creates the sink and ensures the ledger table exists.
func NewSQLiteSink(db *database.DB, logger *zap.Logger) (*SQLiteSink, error) {
	if _, err := db.Exec(ledgerSchema); err != nil {
		return nil, fmt.Errorf("failed to create ledger table: %w", err)
	}
	return &SQLiteSink{db: db, logger: logger}, nil
}

// Append inserts rows in order within one transaction.
func (s *SQLiteSink) Append(ctx context.Context, rows []ledger.Row) error {
	err := s.db.WithTransaction(func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO ledger_rows (date, description, amount, account_category, account_title, sub_category, memo)
			VALUES (?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("failed to prepare insert: %w", err)
		}
		defer stmt.Close()

		for _, r := range rows {
			if _, err := stmt.ExecContext(ctx,
				r.Date, r.Description, r.Amount, r.Category.String(), r.Category.AccountTitle(), r.SubCategory, r.Memo); err != nil {
				return fmt.Errorf("failed to insert row: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("Persisted ledger rows", zap.Int("rows", len(rows)))
	return nil
}
