package parse

import "fmt"

// MissingMandatoryFieldError reports that a mandatory anchor could not be
// located in the extracted text.
type MissingMandatoryFieldError struct {
	Field string
}

func (e *MissingMandatoryFieldError) Error() string {
	return fmt.Sprintf("mandatory field %q not found in document text", e.Field)
}

// InvalidFieldFormatError reports that a located value cannot be read as
// the type its anchor expects (date, decimal amount, permit number format).
type InvalidFieldFormatError struct {
	Field  string
	Value  string
	Reason string
}

func (e *InvalidFieldFormatError) Error() string {
	return fmt.Sprintf("field %q has malformed value %q: %s", e.Field, e.Value, e.Reason)
}
