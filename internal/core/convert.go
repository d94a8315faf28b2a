package core

// convert.go provides type conversion functions for tabular cell values.
//
// These functions handle the messy reality of exported device data:
//   - Excel formula prefixes (="value") and stray quotes
//   - Leading/trailing whitespace around numbers
//   - A single, locale-independent timestamp layout
//
// All ToPg* functions return pgtype values with Valid=false for empty/invalid input,
// so callers can tell "absent" from a legitimate zero.

import (
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

// ReadingTimeLayout is the timestamp layout of the data file (dd/MM/yyyy H:mm).
// Day, month and minute are two digits; the hour may be one or two digits.
const ReadingTimeLayout = "02/01/2006 15:04"

// ToPgText converts a string to pgtype.Text.
// Returns invalid if the string is empty or only whitespace.
func ToPgText(s string) pgtype.Text {
	s = strings.TrimSpace(s)
	if s == "" {
		return pgtype.Text{Valid: false}
	}
	return pgtype.Text{String: s, Valid: true}
}

// ToPgInt4 converts a base-10 integer string to pgtype.Int4.
// An optional leading sign is accepted; thousands separators and decimals are not.
func ToPgInt4(s string) pgtype.Int4 {
	s = strings.TrimSpace(s)
	if s == "" {
		return pgtype.Int4{Valid: false}
	}

	i, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return pgtype.Int4{Valid: false}
	}
	return pgtype.Int4{Int32: int32(i), Valid: true}
}

// ToPgTimestamp converts a dd/MM/yyyy H:mm string to pgtype.Timestamp (UTC).
func ToPgTimestamp(s string) pgtype.Timestamp {
	s = strings.TrimSpace(s)
	if s == "" {
		return pgtype.Timestamp{Valid: false}
	}

	t, err := time.Parse(ReadingTimeLayout, s)
	if err != nil {
		return pgtype.Timestamp{Valid: false}
	}
	return pgtype.Timestamp{Time: t, Valid: true}
}

// ToPgFloat8 wraps a computed value in pgtype.Float8.
func ToPgFloat8(f float64) pgtype.Float8 {
	return pgtype.Float8{Float64: f, Valid: true}
}

// CleanCell removes common export artifacts from a cell value:
// - Trims whitespace
// - Removes Excel formula prefix (="...")
// - Removes surrounding quotes
func CleanCell(s string) string {
	s = strings.TrimSpace(s)

	// Remove leading '='
	if strings.HasPrefix(s, "=\"") && strings.HasSuffix(s, "\"") {
		s = s[2 : len(s)-1]
	} else if strings.HasPrefix(s, "=") {
		s = s[1:]
	}

	// Remove any surrounding quotes
	s = strings.Trim(s, `"'`)

	return strings.TrimSpace(s)
}

// isBlankRow reports whether every cell in the row is empty after trimming.
func isBlankRow(cells []string) bool {
	for _, v := range cells {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
