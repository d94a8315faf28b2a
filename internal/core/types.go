package core

import (
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

// FieldType represents the expected data type for a tabular field.
type FieldType int

const (
	FieldText FieldType = iota
	FieldInteger
	FieldTimestamp
)

// FieldSpec defines validation rules for a single positional column.
type FieldSpec struct {
	Name string    // Label used in diagnostics: "Device Id", "Volume"
	Type FieldType // Expected data type
}

// SourceInfo contains descriptive information about an input kind.
type SourceInfo struct {
	Key     string // Unique identifier: "device", "data"
	Label   string // Used in messages: "device file"
	Pattern string // Filename substring used by directory discovery
}

// BuildRecordFunc builds a typed record from a row that has already passed validation.
type BuildRecordFunc func(cells []string) any

// SourceDefinition contains everything needed to parse one input kind.
type SourceDefinition struct {
	Info        SourceInfo
	FieldSpecs  []FieldSpec
	BuildRecord BuildRecordFunc
}

// Row is one non-blank row read from a tabular file.
type Row struct {
	Line  int      // 1-based line (CSV) or row (spreadsheet) number
	Cells []string // Raw cell values
}

// Device is a single entry of the device registry.
type Device struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Location string `json:"location"`
}

// Reading is a single volume sample for a device.
type Reading struct {
	DeviceID  int       `json:"deviceId"`
	Timestamp time.Time `json:"timestamp"`
	Volume    int       `json:"volume"`
}

// Trend classifies the current average against the prior window.
type Trend int

const (
	TrendFlat Trend = iota
	TrendIncreasing
	TrendDecreasing
)

// String returns the label printed in the report.
func (t Trend) String() string {
	switch t {
	case TrendIncreasing:
		return "Increasing"
	case TrendDecreasing:
		return "Decreasing"
	default:
		return "-"
	}
}

// Result is the aggregate computed for one device.
type Result struct {
	DeviceID    int           `json:"deviceId"`
	DeviceName  string        `json:"deviceName"`
	LastAverage pgtype.Float8 `json:"lastAverage"` // Valid=false when the prior window is empty
	Average     float64       `json:"average"`
	Trend       Trend         `json:"trend"`
	IsValid     bool          `json:"isValid"`
}

// Inputs lists the files that feed one run.
type Inputs struct {
	DeviceFiles []string
	DataFiles   []string
}
