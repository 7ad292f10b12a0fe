package permit

import (
	"time"

	"github.com/shopspring/decimal"
)

// ImportPermitItem is a single goods line on an import permit.
// Items are value objects: built once, compared with Equal.
type ImportPermitItem struct {
	ItemName string          `json:"item_name"`
	Amount   decimal.Decimal `json:"amount"`
	Quantity decimal.Decimal `json:"quantity"`
	Unit     string          `json:"unit"`
}

// Equal reports whether two items carry the same values.
func (i ImportPermitItem) Equal(other ImportPermitItem) bool {
	return i.ItemName == other.ItemName &&
		i.Amount.Equal(other.Amount) &&
		i.Quantity.Equal(other.Quantity) &&
		i.Unit == other.Unit
}

// ImportPermit is the validated financial record of one customs import
// permit. It is constructed exactly once per document by the Builder and
// never mutated afterwards. All monetary amounts are yen.
type ImportPermit struct {
	PermitNumber        string             `json:"permit_number"`
	IssueDate           time.Time          `json:"issue_date"`
	ImporterName        string             `json:"importer_name"`
	TrackingNumber      string             `json:"tracking_number"`
	CustomsDuty         decimal.Decimal    `json:"customs_duty"`
	ConsumptionTax      decimal.Decimal    `json:"consumption_tax"`
	LocalConsumptionTax decimal.Decimal    `json:"local_consumption_tax"`
	Subtotal            decimal.Decimal    `json:"subtotal"`
	TotalAmount         decimal.Decimal    `json:"total_amount"`
	Items               []ImportPermitItem `json:"items"`
	SourceRef           string             `json:"source_ref"`
}

// TaxSum returns customs duty + consumption tax + local consumption tax.
func (p *ImportPermit) TaxSum() decimal.Decimal {
	return p.CustomsDuty.Add(p.ConsumptionTax).Add(p.LocalConsumptionTax)
}

// Equal reports whether two permits carry the same values, item order
// included. SourceRef participates: two parses of the same document
// compare equal, the same text from different documents does not.
func (p *ImportPermit) Equal(other *ImportPermit) bool {
	if p == nil || other == nil {
		return p == other
	}
	if p.PermitNumber != other.PermitNumber ||
		!p.IssueDate.Equal(other.IssueDate) ||
		p.ImporterName != other.ImporterName ||
		p.TrackingNumber != other.TrackingNumber ||
		!p.CustomsDuty.Equal(other.CustomsDuty) ||
		!p.ConsumptionTax.Equal(other.ConsumptionTax) ||
		!p.LocalConsumptionTax.Equal(other.LocalConsumptionTax) ||
		!p.Subtotal.Equal(other.Subtotal) ||
		!p.TotalAmount.Equal(other.TotalAmount) ||
		p.SourceRef != other.SourceRef {
		return false
	}
	if len(p.Items) != len(other.Items) {
		return false
	}
	for idx := range p.Items {
		if !p.Items[idx].Equal(other.Items[idx]) {
			return false
		}
	}
	return true
}
