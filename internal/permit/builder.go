package permit

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/shinsei-trade/permit-ledger/internal/parse"
)

// Options tune the validation the Builder performs.
type Options struct {
	// ToleranceYen is the allowed discrepancy, in yen, between the total
	// amount and subtotal + customs duty + consumption tax + local
	// consumption tax. Tax rounding can legitimately differ by a few yen;
	// zero demands exact reconciliation.
	ToleranceYen int64

	// CheckItemSubtotal additionally requires the item amounts to sum to
	// the subtotal. Independent of the total reconciliation check.
	CheckItemSubtotal bool
}

// Builder converts the raw field mapping into a validated ImportPermit.
// Pure transformation: no side effects, nothing is ever silently corrected
// or dropped.
type Builder struct {
	opts   Options
	logger *zap.Logger
}

// NewBuilder creates a builder with the given validation options.
func NewBuilder(opts Options, logger *zap.Logger) *Builder {
	return &Builder{opts: opts, logger: logger}
}

// Build converts and validates one parsed document. sourceRef identifies
// the originating document, typically its path.
func (b *Builder) Build(fields *parse.Fields, sourceRef string) (*ImportPermit, error) {
	permitNumber := fields.Values[parse.FieldPermitNumber]
	if permitNumber == "" {
		return nil, &parse.MissingMandatoryFieldError{Field: parse.FieldPermitNumber}
	}
	// Fields may arrive from the AI fallback rather than the anchor parser,
	// so the permit number format is checked here as well.
	if !parse.ValidPermitNumber(permitNumber) {
		return nil, &parse.InvalidFieldFormatError{Field: parse.FieldPermitNumber, Value: permitNumber, Reason: "does not match permit number format"}
	}

	rawDate := fields.Values[parse.FieldIssueDate]
	if rawDate == "" {
		return nil, &parse.MissingMandatoryFieldError{Field: parse.FieldIssueDate}
	}
	issueDate, err := time.Parse("2006-01-02", rawDate)
	if err != nil {
		return nil, &parse.InvalidFieldFormatError{Field: parse.FieldIssueDate, Value: rawDate, Reason: "not an ISO calendar date"}
	}

	amounts := make(map[string]decimal.Decimal, 5)
	for _, field := range []string{
		parse.FieldCustomsDuty,
		parse.FieldConsumptionTax,
		parse.FieldLocalConsumptionTax,
		parse.FieldSubtotal,
		parse.FieldTotalAmount,
	} {
		raw := fields.Values[field]
		if raw == "" {
			raw = "0"
		}
		d, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, &parse.InvalidFieldFormatError{Field: field, Value: raw, Reason: "not a decimal amount"}
		}
		if d.IsNegative() {
			return nil, &InvariantViolationError{
				Invariant: InvariantNonNegative,
				Detail:    fmt.Sprintf("%s = %s", field, d),
			}
		}
		if !d.Equal(d.Truncate(0)) {
			return nil, &InvariantViolationError{
				Invariant: InvariantWholeYen,
				Detail:    fmt.Sprintf("%s = %s", field, d),
			}
		}
		amounts[field] = d
	}

	items, err := buildItems(fields.Items)
	if err != nil {
		return nil, err
	}

	p := &ImportPermit{
		PermitNumber:        permitNumber,
		IssueDate:           issueDate,
		ImporterName:        fields.Values[parse.FieldImporterName],
		TrackingNumber:      fields.Values[parse.FieldTrackingNumber],
		CustomsDuty:         amounts[parse.FieldCustomsDuty],
		ConsumptionTax:      amounts[parse.FieldConsumptionTax],
		LocalConsumptionTax: amounts[parse.FieldLocalConsumptionTax],
		Subtotal:            amounts[parse.FieldSubtotal],
		TotalAmount:         amounts[parse.FieldTotalAmount],
		Items:               items,
		SourceRef:           sourceRef,
	}

	expected := p.Subtotal.Add(p.TaxSum())
	diff := p.TotalAmount.Sub(expected).Abs()
	if diff.GreaterThan(decimal.NewFromInt(b.opts.ToleranceYen)) {
		return nil, &InvariantViolationError{
			Invariant: InvariantTotalReconciles,
			Detail:    fmt.Sprintf("total %s, components sum to %s, tolerance %d yen", p.TotalAmount, expected, b.opts.ToleranceYen),
		}
	}

	if b.opts.CheckItemSubtotal && len(p.Items) > 0 {
		itemSum := decimal.Zero
		for _, item := range p.Items {
			itemSum = itemSum.Add(item.Amount)
		}
		if !itemSum.Equal(p.Subtotal) {
			return nil, &InvariantViolationError{
				Invariant: InvariantItemsSubtotal,
				Detail:    fmt.Sprintf("items sum to %s, subtotal is %s", itemSum, p.Subtotal),
			}
		}
	}

	b.logger.Debug("built import permit",
		zap.String("permit_number", p.PermitNumber),
		zap.String("total_amount", p.TotalAmount.String()),
		zap.String("source", sourceRef))

	return p, nil
}

func buildItems(raw []parse.RawItem) ([]ImportPermitItem, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	items := make([]ImportPermitItem, 0, len(raw))
	for _, r := range raw {
		if r.Name == "" {
			return nil, &InvariantViolationError{Invariant: InvariantItemName}
		}
		amount, err := decimal.NewFromString(r.Amount)
		if err != nil {
			return nil, &parse.InvalidFieldFormatError{Field: "items.amount", Value: r.Amount, Reason: "not a decimal amount"}
		}
		quantity, err := decimal.NewFromString(r.Quantity)
		if err != nil {
			return nil, &parse.InvalidFieldFormatError{Field: "items.quantity", Value: r.Quantity, Reason: "not a decimal quantity"}
		}
		if amount.IsNegative() {
			return nil, &InvariantViolationError{
				Invariant: InvariantNonNegative,
				Detail:    fmt.Sprintf("items.amount = %s", amount),
			}
		}
		if quantity.IsNegative() {
			return nil, &InvariantViolationError{
				Invariant: InvariantNonNegative,
				Detail:    fmt.Sprintf("items.quantity = %s", quantity),
			}
		}
		items = append(items, ImportPermitItem{
			ItemName: r.Name,
			Amount:   amount,
			Quantity: quantity,
			Unit:     r.Unit,
		})
	}
	return items, nil
}
