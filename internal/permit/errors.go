package permit

import "fmt"

// Invariant names reported by InvariantViolationError.
const (
	InvariantNonNegative     = "monetary fields must be non-negative"
	InvariantWholeYen        = "monetary amounts must be whole yen"
	InvariantTotalReconciles = "total does not reconcile with subtotal and taxes"
	InvariantItemsSubtotal   = "item amounts do not sum to subtotal"
	InvariantItemName        = "item name must not be empty"
)

// InvariantViolationError reports which record invariant failed during
// construction. The record is never built when one of these is returned.
type InvariantViolationError struct {
	Invariant string
	Detail    string
}

func (e *InvariantViolationError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("invariant violation: %s", e.Invariant)
	}
	return fmt.Sprintf("invariant violation: %s (%s)", e.Invariant, e.Detail)
}
