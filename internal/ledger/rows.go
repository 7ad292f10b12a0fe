// Package ledger derives bookkeeping ledger rows from a validated import
// permit. Generation is total and deterministic: identical input always
// yields identical, identically ordered output, and no new error kinds
// arise here.
package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/shinsei-trade/permit-ledger/internal/permit"
)

// Row is one record destined for a bookkeeping import.
type Row struct {
	Date        string   `json:"date"`             // issue date as YYYY/MM/DD
	Description string   `json:"description"`      // transaction label with the permit number
	Amount      int64    `json:"amount"`           // positive integer yen
	Category    Category `json:"account_category"` // closed account category
	SubCategory string   `json:"sub_category"`     // always empty for this generator
	Memo        string   `json:"memo"`             // permit number, tracking number and breakdown
}

// Generator maps a validated ImportPermit into its ledger rows.
type Generator struct{}

// NewGenerator creates a row generator.
func NewGenerator() *Generator {
	return &Generator{}
}

// Generate returns the permit's ledger rows in fixed order: one row per
// strictly positive tax amount (duty, consumption tax, local consumption
// tax), then always exactly one purchase row carrying the total amount.
func (g *Generator) Generate(p *permit.ImportPermit) []Row {
	breakdown := fmt.Sprintf("内訳: 関税 %s / 消費税 %s / 地方消費税 %s",
		p.CustomsDuty, p.ConsumptionTax, p.LocalConsumptionTax)
	memoBase := fmt.Sprintf("輸入許可書番号: %s, 追跡番号: %s", p.PermitNumber, p.TrackingNumber)
	date := p.IssueDate.Format("2006/01/02")

	row := func(c Category, amount decimal.Decimal) Row {
		return Row{
			Date:        date,
			Description: fmt.Sprintf("輸入許可書 %s %s", p.PermitNumber, c.Label()),
			Amount:      amount.IntPart(),
			Category:    c,
			SubCategory: "",
			Memo:        fmt.Sprintf("%s (%s) %s", memoBase, c.Label(), breakdown),
		}
	}

	rows := make([]Row, 0, 4)
	if p.CustomsDuty.IsPositive() {
		rows = append(rows, row(CategoryDuty, p.CustomsDuty))
	}
	if p.ConsumptionTax.IsPositive() {
		rows = append(rows, row(CategoryConsumptionTax, p.ConsumptionTax))
	}
	if p.LocalConsumptionTax.IsPositive() {
		rows = append(rows, row(CategoryLocalConsumptionTax, p.LocalConsumptionTax))
	}
	rows = append(rows, row(CategoryPurchase, p.TotalAmount))
	return rows
}
