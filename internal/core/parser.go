package core

// parser.go turns tabular files into typed records.
//
// Parsing never partially succeeds: every row is validated, every problem is collected,
// and if any row failed the whole file is rejected with a *ParseError listing them all.

import (
	"context"
	"fmt"
	"strings"

	"github.com/JonMunkholm/volumereport/internal/logging"
)

// ParseError is returned when one or more rows of a file failed validation.
type ParseError struct {
	Path   string
	Label  string // "device file", "data file"
	Errors []ValidationError
}

func (e *ParseError) Error() string {
	lines := make([]string, len(e.Errors))
	for i, ve := range e.Errors {
		lines[i] = ve.Error()
	}
	return fmt.Sprintf("error parsing %s %s:\n  %s", e.Label, e.Path, strings.Join(lines, "\n  "))
}

// Lines returns the distinct offending line numbers in file order.
func (e *ParseError) Lines() []int {
	var out []int
	seen := make(map[int]bool)
	for _, ve := range e.Errors {
		if !seen[ve.Line] {
			seen[ve.Line] = true
			out = append(out, ve.Line)
		}
	}
	return out
}

// ParseSource reads path and builds one record per data row using the definition
// registered under key. The first row is a header and is discarded without checks.
func ParseSource(ctx context.Context, path, key string, dec TextDecoder) ([]any, error) {
	def, ok := Source(key)
	if !ok {
		return nil, fmt.Errorf("unknown source: %s", key)
	}

	rows, err := ReadRows(ctx, path, dec, def.FieldSpecs)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	validator := NewRowValidator(def.FieldSpecs)
	var diagnostics []ValidationError
	records := make([]any, 0, len(rows)-1)

	for _, row := range rows[1:] {
		if errs := validator.ValidateRow(row); len(errs) > 0 {
			diagnostics = append(diagnostics, errs...)
			continue
		}
		records = append(records, def.BuildRecord(row.Cells))
	}

	if len(diagnostics) > 0 {
		return nil, &ParseError{Path: path, Label: def.Info.Label, Errors: diagnostics}
	}

	logging.FromContext(ctx).Debug("source parsed", "source", key, "path", path, "records", len(records))
	return records, nil
}

// ParseDevices parses a device file (id, name, location).
func ParseDevices(ctx context.Context, path string, dec TextDecoder) ([]Device, error) {
	return parseAs[Device](ctx, path, SourceDevice, dec)
}

// ParseReadings parses a data file (device id, dd/MM/yyyy H:mm, volume).
func ParseReadings(ctx context.Context, path string, dec TextDecoder) ([]Reading, error) {
	return parseAs[Reading](ctx, path, SourceData, dec)
}

func parseAs[T any](ctx context.Context, path, key string, dec TextDecoder) ([]T, error) {
	records, err := ParseSource(ctx, path, key, dec)
	if err != nil {
		return nil, err
	}

	out := make([]T, 0, len(records))
	for _, rec := range records {
		v, ok := rec.(T)
		if !ok {
			return nil, fmt.Errorf("source %s built %T, want %T", key, rec, v)
		}
		out = append(out, v)
	}
	return out, nil
}
