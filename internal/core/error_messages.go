package core

// error_messages.go maps run failures to operator-facing messages with codes.
//
// Error codes are grouped by category:
//
//	PARSE001 - Malformed rows: one or more rows failed validation; the file was rejected
//	PARSE002 - Unreadable table: the file is not valid delimited text or spreadsheet
//	IO001    - File not found
//	IO002    - Permission denied
//	IO003    - Unsupported encoding
//	IN001    - No inputs: no device or data file was given or discovered
//	DATA001  - Missing data: a device had no recent readings (abort policy)
//	DATA002  - No results: no device had recent readings
//	DATA003  - No readings: the data files were empty
//	DATA004  - Duplicate device: a device id was loaded twice (reject policy)
//	ERR000   - Unknown error
//
// Typed errors are matched first with errors.Is / errors.As; remaining errors are
// matched case-insensitively against message patterns. The first match wins.

import (
	"errors"
	"io/fs"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

// errorMatcher matches errors by type or identity.
type errorMatcher struct {
	match func(error) bool
	msg   UserMessage
}

// errorPattern matches errors by message substring.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

func isAs[T error](err error) bool {
	var target T
	return errors.As(err, &target)
}

func isErr(target error) func(error) bool {
	return func(err error) bool { return errors.Is(err, target) }
}

var errorMatchers = []errorMatcher{
	{
		match: isAs[*ParseError],
		msg: UserMessage{
			Message: "One or more rows could not be parsed",
			Action:  "Fix the listed lines and run again",
			Code:    "PARSE001",
		},
	},
	{
		match: isAs[*DuplicateDeviceError],
		msg: UserMessage{
			Message: "A device id appears more than once",
			Action:  "Remove the duplicate or set DUPLICATE_DEVICE_POLICY=merge",
			Code:    "DATA004",
		},
	},
	{
		match: isAs[*MissingDataError],
		msg: UserMessage{
			Message: "A device has no readings in the recent window",
			Action:  "Check the data file or set MISSING_DATA_POLICY=skip",
			Code:    "DATA001",
		},
	},
	{
		match: isErr(ErrNoResults),
		msg: UserMessage{
			Message: "No device has readings in the recent window",
			Action:  "Check that device ids in the data file match the device file",
			Code:    "DATA002",
		},
	},
	{
		match: isErr(ErrNoReadings),
		msg: UserMessage{
			Message: "The data files contain no readings",
			Action:  "Provide a data file with at least one reading",
			Code:    "DATA003",
		},
	},
	{
		match: isErr(ErrNoInputs),
		msg: UserMessage{
			Message: "No device or data file to process",
			Action:  "Pass --device-file and --data-file, or --input-dir",
			Code:    "IN001",
		},
	},
	{
		match: isErr(fs.ErrNotExist),
		msg: UserMessage{
			Message: "Input file or directory not found",
			Action:  "Check the path and run again",
			Code:    "IO001",
		},
	},
	{
		match: isErr(fs.ErrPermission),
		msg: UserMessage{
			Message: "Input file could not be opened",
			Action:  "Check file permissions",
			Code:    "IO002",
		},
	},
}

var errorPatterns = []errorPattern{
	{
		pattern: "unsupported input encoding",
		msg: UserMessage{
			Message: "The input encoding is not supported",
			Action:  "Use an encoding label such as utf-8 or windows-1252",
			Code:    "IO003",
		},
	},
	{
		pattern: "not a valid zip file",
		msg: UserMessage{
			Message: "The spreadsheet could not be read",
			Action:  "Save the file as .xlsx or export it as CSV",
			Code:    "PARSE002",
		},
	},
	{
		pattern: "parse error on line",
		msg: UserMessage{
			Message: "The file is not valid comma-separated text",
			Action:  "Check quoting and delimiters in the file",
			Code:    "PARSE002",
		},
	},
}

// defaultMessage is returned when no pattern matches.
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Run with LOG_LEVEL=debug for details",
	Code:    "ERR000",
}

// MapError converts a technical error into a UserMessage.
// Returns an empty UserMessage for nil.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	for _, m := range errorMatchers {
		if m.match(err) {
			return m.msg
		}
	}

	lower := strings.ToLower(err.Error())
	for _, p := range errorPatterns {
		if strings.Contains(lower, p.pattern) {
			return p.msg
		}
	}

	return defaultMessage
}
