// Package config provides centralized configuration management for the report tool.
// It loads configuration from environment variables and command-line flags with
// sensible defaults and validates all settings on startup to fail fast on
// misconfiguration.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Config holds all application configuration.
// Every setting can be configured via environment variable; most also via flag.
type Config struct {
	Input   InputConfig
	Window  WindowConfig
	Policy  PolicyConfig
	Report  ReportConfig
	Logging LoggingConfig
}

// InputConfig holds the input file settings.
type InputConfig struct {
	// DeviceFile is the device registry file (id, name, location)
	DeviceFile string `env:"DEVICE_FILE" flag:"device-file" usage:"device file (.csv or .xlsx)"`

	// DataFile is the readings file (device id, dd/MM/yyyy H:mm, volume)
	DataFile string `env:"DATA_FILE" flag:"data-file" usage:"data file (.csv or .xlsx)"`

	// Dir is scanned for device and data files instead of naming them
	Dir string `env:"INPUT_DIR" flag:"input-dir" usage:"directory to scan for device and data files"`

	// DevicePattern is the filename substring of device files (default: Device)
	DevicePattern string `env:"DEVICE_PATTERN" default:"Device" flag:"device-pattern" usage:"filename substring of device files in --input-dir"`

	// DataPattern is the filename substring of data files (default: Data)
	DataPattern string `env:"DATA_PATTERN" default:"Data" flag:"data-pattern" usage:"filename substring of data files in --input-dir"`

	// Encoding is the text encoding of delimited input files (default: utf-8)
	Encoding string `env:"INPUT_ENCODING" envAlt:"ENCODING" default:"utf-8" flag:"encoding" usage:"input text encoding, e.g. utf-8, windows-1252"`
}

// WindowConfig holds the aggregation windows.
type WindowConfig struct {
	// Recent is the length of the averaging window (default: 4h)
	Recent time.Duration `env:"WINDOW_RECENT" default:"4h" flag:"recent-window" usage:"length of the recent averaging window"`

	// Prior is how far back the trend baseline reaches (default: 8h)
	Prior time.Duration `env:"WINDOW_PRIOR" default:"8h" flag:"prior-window" usage:"end of the prior (baseline) window"`

	// InvalidVolume marks a device invalid when a recent reading reaches it (default: 30)
	InvalidVolume int `env:"INVALID_VOLUME" default:"30" flag:"invalid-volume" usage:"volume at which a recent reading invalidates a device"`
}

// PolicyConfig holds the data-quality policies.
type PolicyConfig struct {
	// MissingData is skip or abort (default: skip)
	MissingData string `env:"MISSING_DATA_POLICY" default:"skip" flag:"missing-data" usage:"device without recent readings: skip or abort"`

	// Duplicates is merge or reject (default: merge)
	Duplicates string `env:"DUPLICATE_DEVICE_POLICY" default:"merge" flag:"duplicates" usage:"duplicate device ids: merge or reject"`
}

// ReportConfig holds report presentation settings.
type ReportConfig struct {
	// WarningAverage is the lower bound of the warning tier (default: 10)
	WarningAverage float64 `env:"WARNING_AVERAGE" default:"10" flag:"warning-average" usage:"average at which a line is a warning"`

	// AlertAverage is the lower bound of the alert tier (default: 15)
	AlertAverage float64 `env:"ALERT_AVERAGE" default:"15" flag:"alert-average" usage:"average at which a line is an alert"`

	// Color is auto, always or never (default: auto)
	Color string `env:"REPORT_COLOR" default:"auto" flag:"color" usage:"colour output: auto, always or never"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info" flag:"log-level" usage:"debug, info, warn or error"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text" flag:"log-format" usage:"text or json"`
}

// Empty reports whether no input was configured at all.
func (c *InputConfig) Empty() bool {
	return c.DeviceFile == "" && c.DataFile == "" && c.Dir == ""
}

// Validate checks that the inputs name either a directory or both files.
func (c *InputConfig) Validate() error {
	switch {
	case c.Dir != "" && (c.DeviceFile != "" || c.DataFile != ""):
		return fmt.Errorf("--input-dir cannot be combined with --device-file or --data-file")
	case c.Dir != "":
		return nil
	case c.DeviceFile == "" || c.DataFile == "":
		return fmt.Errorf("both --device-file and --data-file are required (or --input-dir)")
	}
	return nil
}

// String returns a compact representation of the config for logging.
func (c *Config) String() string {
	var b strings.Builder
	b.WriteString("Config{")
	b.WriteString(fmt.Sprintf("Input: {DeviceFile: %q, DataFile: %q, Dir: %q, Encoding: %q}, ",
		c.Input.DeviceFile, c.Input.DataFile, c.Input.Dir, c.Input.Encoding))
	b.WriteString(fmt.Sprintf("Window: {Recent: %s, Prior: %s, InvalidVolume: %d}, ",
		c.Window.Recent, c.Window.Prior, c.Window.InvalidVolume))
	b.WriteString(fmt.Sprintf("Policy: {MissingData: %q, Duplicates: %q}, ",
		c.Policy.MissingData, c.Policy.Duplicates))
	b.WriteString(fmt.Sprintf("Report: {Warning: %g, Alert: %g, Color: %q}, ",
		c.Report.WarningAverage, c.Report.AlertAverage, c.Report.Color))
	b.WriteString(fmt.Sprintf("Logging: {Level: %q, Format: %q}",
		c.Logging.Level, c.Logging.Format))
	b.WriteString("}")
	return b.String()
}
