package parse

import (
	"regexp"
	"strings"
	"time"
)

// Field names emitted by the parser. The Builder consumes these keys.
const (
	FieldPermitNumber        = "permit_number"
	FieldIssueDate           = "issue_date"
	FieldImporterName        = "importer_name"
	FieldTrackingNumber      = "tracking_number"
	FieldCustomsDuty         = "customs_duty"
	FieldConsumptionTax      = "consumption_tax"
	FieldLocalConsumptionTax = "local_consumption_tax"
	FieldSubtotal            = "subtotal"
	FieldTotalAmount         = "total_amount"
)

// valueKind selects how a captured anchor value is checked and canonicalized.
type valueKind int

const (
	kindText valueKind = iota
	kindAmount
	kindDate
	kindPermitNumber
)

// anchor binds one label set of the permit layout to a target field.
// The table below is the closed anchor-to-field mapping: supporting a new
// permit layout means adding label variants here, not changing parser logic.
type anchor struct {
	field     string
	labels    []string
	kind      valueKind
	mandatory bool
}

// permitAnchors is the label layout of NACCS import permits. Label variants
// are ordered longest-first within the whole table so that a segment like
// 地方消費税額 is never claimed by the shorter 消費税額 anchor.
var permitAnchors = []anchor{
	{field: FieldPermitNumber, labels: []string{"輸入許可書番号", "許可書番号", "許可番号"}, kind: kindPermitNumber, mandatory: true},
	{field: FieldIssueDate, labels: []string{"輸入許可年月日", "許可年月日", "許可日", "発行日"}, kind: kindDate, mandatory: true},
	{field: FieldImporterName, labels: []string{"輸入者名", "輸入者"}, kind: kindText},
	{field: FieldTrackingNumber, labels: []string{"追跡番号"}, kind: kindText},
	{field: FieldCustomsDuty, labels: []string{"関税額", "関税"}, kind: kindAmount},
	{field: FieldLocalConsumptionTax, labels: []string{"地方消費税額", "地方消費税"}, kind: kindAmount},
	{field: FieldConsumptionTax, labels: []string{"消費税額", "消費税"}, kind: kindAmount},
	{field: FieldSubtotal, labels: []string{"課税価格", "小計"}, kind: kindAmount},
	{field: FieldTotalAmount, labels: []string{"納付税額合計", "合計金額", "合計"}, kind: kindAmount},
}

var (
	permitNumberPattern = regexp.MustCompile(`^[A-Z0-9]{6,20}$`)

	// Date formats seen across permit layouts, all normalized to ISO.
	dateLayouts = []string{"2006年1月2日", "2006-1-2", "2006/1/2", "2006.1.2"}
)

// ValidPermitNumber reports whether s matches the authority's permit number
// format. The Builder re-checks it so values that bypass the anchor table,
// such as AI fallback output, face the same rule.
func ValidPermitNumber(s string) bool {
	return permitNumberPattern.MatchString(s)
}

// canonicalize checks a captured raw value against the anchor's kind and
// returns the normalized textual form the Builder will consume.
func (a anchor) canonicalize(raw string) (string, error) {
	value := strings.TrimSpace(raw)
	switch a.kind {
	case kindAmount:
		num := normalizeAmount(value)
		if num == "" {
			return "", &InvalidFieldFormatError{Field: a.field, Value: raw, Reason: "not a decimal amount"}
		}
		return num, nil
	case kindDate:
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, value); err == nil {
				return t.Format("2006-01-02"), nil
			}
		}
		return "", &InvalidFieldFormatError{Field: a.field, Value: raw, Reason: "not a recognized calendar date"}
	case kindPermitNumber:
		if !ValidPermitNumber(value) {
			return "", &InvalidFieldFormatError{Field: a.field, Value: raw, Reason: "does not match permit number format"}
		}
		return value, nil
	default:
		return value, nil
	}
}
