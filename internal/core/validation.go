package core

// validation.go provides row-level validation for tabular input before records are built.
//
// Every row is checked against the positional FieldSpecs of its SourceDefinition.
// The RowValidator returns all problems in a row (never just the first) so that a
// single parse can report every offending line and field at once.

import (
	"fmt"
	"strings"
)

// ValidationError represents a single validation error for a field.
type ValidationError struct {
	Line    int    // 1-based line number in the source file
	Field   string // Field label
	Value   string // The invalid value
	Message string // Human-readable error message
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Message)
}

// RowValidator validates rows against a source's field specifications.
type RowValidator struct {
	specs []FieldSpec
}

// NewRowValidator creates a validator for the given field specifications.
func NewRowValidator(specs []FieldSpec) *RowValidator {
	return &RowValidator{specs: specs}
}

// ValidateRow validates a single row and returns all validation errors.
// A nil result means the row can be built into a record.
func (v *RowValidator) ValidateRow(row Row) []ValidationError {
	if len(row.Cells) < len(v.specs) {
		return []ValidationError{{
			Line:    row.Line,
			Message: fmt.Sprintf("row has %d columns, expected %d", len(row.Cells), len(v.specs)),
		}}
	}

	var errs []ValidationError
	for i, spec := range v.specs {
		raw := CleanCell(row.Cells[i])
		if err := ValidateCell(raw, spec); err != nil {
			errs = append(errs, ValidationError{
				Line:    row.Line,
				Field:   spec.Name,
				Value:   raw,
				Message: err.Error(),
			})
		}
	}
	return errs
}

// ValidateCell validates a single cleaned cell value against a field specification.
// Returns nil if valid, or an error describing the problem.
func ValidateCell(value string, spec FieldSpec) error {
	switch spec.Type {
	case FieldInteger:
		if !ToPgInt4(value).Valid {
			return fmt.Errorf("%s %s is not an integer", spec.Name, displayValue(value))
		}
	case FieldTimestamp:
		if !ToPgTimestamp(value).Valid {
			return fmt.Errorf("%s (%s) not recognised, please use this format: dd/MM/yyyy HH:mm, e.g. 05/06/2020 09:00",
				spec.Name, value)
		}
	case FieldText:
		// no-op
	}
	return nil
}

// displayValue renders empty cells visibly in diagnostics.
func displayValue(s string) string {
	if strings.TrimSpace(s) == "" {
		return `""`
	}
	return s
}
