package parse

import (
	"regexp"
	"strings"

	"golang.org/x/text/width"
)

var (
	currencyMarkers = strings.NewReplacer("¥", "", "￥", "", "円", "", ",", "")
	amountPattern   = regexp.MustCompile(`-?[0-9]+(?:\.[0-9]+)?`)
)

// normalizeText folds full-width digits, letters and punctuation to their
// standard-width equivalents and unifies line endings. Everything downstream
// works on the folded form, so anchor labels and captured values never have
// to care which width the source document used.
func normalizeText(text string) string {
	folded := width.Fold.String(text)
	return strings.ReplaceAll(folded, "\r\n", "\n")
}

// normalizeAmount strips currency markers and thousands separators from a
// captured value and returns the bare numeric token, or "" when the value
// carries no digits at all.
func normalizeAmount(raw string) string {
	cleaned := currencyMarkers.Replace(strings.TrimSpace(raw))
	return amountPattern.FindString(cleaned)
}
