package ledger

// Category classifies a ledger row for accounting purposes. The enumeration
// is closed: these four are the only categories this generator emits.
type Category int

const (
	CategoryDuty Category = iota
	CategoryConsumptionTax
	CategoryLocalConsumptionTax
	CategoryPurchase
)

// The external label strings are explicit mapping tables, not inferred
// from the document text.
var (
	categoryNames = map[Category]string{
		CategoryDuty:                "duty",
		CategoryConsumptionTax:      "consumption_tax",
		CategoryLocalConsumptionTax: "local_consumption_tax",
		CategoryPurchase:            "purchase",
	}

	// Account titles for the bookkeeping import (勘定科目).
	accountTitles = map[Category]string{
		CategoryDuty:                "租税公課",
		CategoryConsumptionTax:      "仮払消費税",
		CategoryLocalConsumptionTax: "仮払消費税",
		CategoryPurchase:            "仕入高",
	}

	// Semantic labels embedded in row descriptions and memos.
	rowLabels = map[Category]string{
		CategoryDuty:                "関税",
		CategoryConsumptionTax:      "消費税",
		CategoryLocalConsumptionTax: "地方消費税",
		CategoryPurchase:            "仕入",
	}
)

func (c Category) String() string { return categoryNames[c] }

// MarshalText renders the category by name in JSON and text output.
func (c Category) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

// AccountTitle returns the account name the export sink writes for rows of
// this category.
func (c Category) AccountTitle() string { return accountTitles[c] }

// Label returns the semantic label for this category.
func (c Category) Label() string { return rowLabels[c] }
