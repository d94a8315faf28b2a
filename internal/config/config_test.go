package config

import (
	"errors"
	"flag"
	"io"
	"reflect"
	"strings"
	"testing"
	"time"
)

func validConfig() *Config {
	return &Config{
		Input:   InputConfig{DeviceFile: "devices.csv", DataFile: "data.csv", Encoding: "utf-8"},
		Window:  WindowConfig{Recent: 4 * time.Hour, Prior: 8 * time.Hour, InvalidVolume: 30},
		Policy:  PolicyConfig{MissingData: "skip", Duplicates: "merge"},
		Report:  ReportConfig{WarningAverage: 10, AlertAverage: 15, Color: "auto"},
		Logging: LoggingConfig{Level: "info", Format: "text"},
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := LoadWithOutput(nil, io.Discard)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Input.DevicePattern != "Device" {
		t.Errorf("Input.DevicePattern = %q, want %q", cfg.Input.DevicePattern, "Device")
	}
	if cfg.Input.DataPattern != "Data" {
		t.Errorf("Input.DataPattern = %q, want %q", cfg.Input.DataPattern, "Data")
	}
	if cfg.Input.Encoding != "utf-8" {
		t.Errorf("Input.Encoding = %q, want %q", cfg.Input.Encoding, "utf-8")
	}
	if cfg.Window.Recent != 4*time.Hour {
		t.Errorf("Window.Recent = %v, want %v", cfg.Window.Recent, 4*time.Hour)
	}
	if cfg.Window.Prior != 8*time.Hour {
		t.Errorf("Window.Prior = %v, want %v", cfg.Window.Prior, 8*time.Hour)
	}
	if cfg.Window.InvalidVolume != 30 {
		t.Errorf("Window.InvalidVolume = %d, want %d", cfg.Window.InvalidVolume, 30)
	}
	if cfg.Policy.MissingData != "skip" {
		t.Errorf("Policy.MissingData = %q, want %q", cfg.Policy.MissingData, "skip")
	}
	if cfg.Policy.Duplicates != "merge" {
		t.Errorf("Policy.Duplicates = %q, want %q", cfg.Policy.Duplicates, "merge")
	}
	if cfg.Report.WarningAverage != 10 {
		t.Errorf("Report.WarningAverage = %g, want %g", cfg.Report.WarningAverage, 10.0)
	}
	if cfg.Report.AlertAverage != 15 {
		t.Errorf("Report.AlertAverage = %g, want %g", cfg.Report.AlertAverage, 15.0)
	}
	if !cfg.Input.Empty() {
		t.Error("Input.Empty() = false, want true with no inputs configured")
	}
}

func TestLoad_OverrideDefaults(t *testing.T) {
	t.Setenv("DEVICE_FILE", "/tmp/devices.csv")
	t.Setenv("DATA_FILE", "/tmp/data.csv")
	t.Setenv("MISSING_DATA_POLICY", "abort")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := LoadWithOutput(nil, io.Discard)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Input.DeviceFile != "/tmp/devices.csv" {
		t.Errorf("Input.DeviceFile = %q, want %q", cfg.Input.DeviceFile, "/tmp/devices.csv")
	}
	if cfg.Policy.MissingData != "abort" {
		t.Errorf("Policy.MissingData = %q, want %q", cfg.Policy.MissingData, "abort")
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "debug")
	}
}

func TestLoad_AltEnvVar(t *testing.T) {
	t.Setenv("ENCODING", "windows-1252")

	cfg, err := LoadWithOutput(nil, io.Discard)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Input.Encoding != "windows-1252" {
		t.Errorf("Input.Encoding = %q, want %q", cfg.Input.Encoding, "windows-1252")
	}
}

func TestLoad_FlagsOverrideEnv(t *testing.T) {
	t.Setenv("DATA_FILE", "/env/data.csv")
	t.Setenv("ALERT_AVERAGE", "20")

	cfg, err := LoadWithOutput([]string{
		"--device-file", "devices.csv",
		"--data-file", "flag-data.csv",
		"--recent-window", "2h",
		"--warning-average", "7.5",
		"--color", "never",
	}, io.Discard)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Input.DataFile != "flag-data.csv" {
		t.Errorf("Input.DataFile = %q, want %q", cfg.Input.DataFile, "flag-data.csv")
	}
	if cfg.Window.Recent != 2*time.Hour {
		t.Errorf("Window.Recent = %v, want %v", cfg.Window.Recent, 2*time.Hour)
	}
	if cfg.Report.WarningAverage != 7.5 {
		t.Errorf("Report.WarningAverage = %g, want %g", cfg.Report.WarningAverage, 7.5)
	}
	if cfg.Report.AlertAverage != 20 {
		t.Errorf("Report.AlertAverage = %g, want %g (env kept when no flag)", cfg.Report.AlertAverage, 20.0)
	}
	if cfg.Report.Color != "never" {
		t.Errorf("Report.Color = %q, want %q", cfg.Report.Color, "never")
	}
}

func TestLoad_InvalidEnvValue(t *testing.T) {
	t.Setenv("WINDOW_RECENT", "four hours")

	_, err := LoadWithOutput(nil, io.Discard)
	if err == nil {
		t.Fatal("Load() expected error for invalid duration")
	}
	if !strings.Contains(err.Error(), "WINDOW_RECENT") {
		t.Errorf("error should mention WINDOW_RECENT: %v", err)
	}
}

func TestLoad_InvalidFlagValue(t *testing.T) {
	_, err := LoadWithOutput([]string{"--invalid-volume", "lots"}, io.Discard)
	if err == nil {
		t.Fatal("Load() expected error for invalid integer flag")
	}
}

func TestLoad_Help(t *testing.T) {
	_, err := LoadWithOutput([]string{"-h"}, io.Discard)
	if !errors.Is(err, flag.ErrHelp) {
		t.Errorf("Load(-h) error = %v, want flag.ErrHelp", err)
	}
}

func TestLoad_UnexpectedArgs(t *testing.T) {
	_, err := LoadWithOutput([]string{"devices.csv"}, io.Discard)
	if err == nil {
		t.Fatal("Load() expected error for positional argument")
	}
}

// ----------------------------------------------------------------------------
// Validate Tests
// ----------------------------------------------------------------------------

func TestValidate_Valid(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestValidate_Failures(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantKey string
	}{
		{
			name:    "prior not after recent",
			mutate:  func(c *Config) { c.Window.Prior = c.Window.Recent },
			wantKey: "WINDOW_PRIOR",
		},
		{
			name:    "non-positive recent window",
			mutate:  func(c *Config) { c.Window.Recent = 0 },
			wantKey: "WINDOW_RECENT",
		},
		{
			name:    "non-positive invalid volume",
			mutate:  func(c *Config) { c.Window.InvalidVolume = 0 },
			wantKey: "INVALID_VOLUME",
		},
		{
			name:    "unknown missing data policy",
			mutate:  func(c *Config) { c.Policy.MissingData = "ignore" },
			wantKey: "MISSING_DATA_POLICY",
		},
		{
			name:    "unknown duplicate policy",
			mutate:  func(c *Config) { c.Policy.Duplicates = "keep" },
			wantKey: "DUPLICATE_DEVICE_POLICY",
		},
		{
			name:    "alert below warning",
			mutate:  func(c *Config) { c.Report.AlertAverage = 5 },
			wantKey: "ALERT_AVERAGE",
		},
		{
			name:    "unknown colour mode",
			mutate:  func(c *Config) { c.Report.Color = "rainbow" },
			wantKey: "REPORT_COLOR",
		},
		{
			name:    "directory combined with files",
			mutate:  func(c *Config) { c.Input.Dir = "/data" },
			wantKey: "INPUT_DIR",
		},
		{
			name:    "invalid log level",
			mutate:  func(c *Config) { c.Logging.Level = "verbose" },
			wantKey: "LOG_LEVEL",
		},
		{
			name:    "invalid log format",
			mutate:  func(c *Config) { c.Logging.Format = "xml" },
			wantKey: "LOG_FORMAT",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if err == nil {
				t.Fatal("Validate() expected error")
			}
			if !strings.Contains(err.Error(), tt.wantKey) {
				t.Errorf("error should mention %s: %v", tt.wantKey, err)
			}
		})
	}
}

func TestValidate_ReportsAllProblems(t *testing.T) {
	cfg := validConfig()
	cfg.Logging.Level = "verbose"
	cfg.Report.Color = "rainbow"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate() expected error")
	}
	for _, key := range []string{"LOG_LEVEL", "REPORT_COLOR"} {
		if !strings.Contains(err.Error(), key) {
			t.Errorf("error should mention %s: %v", key, err)
		}
	}
}

func TestInputConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		input   InputConfig
		wantErr bool
	}{
		{"both files", InputConfig{DeviceFile: "d.csv", DataFile: "r.csv"}, false},
		{"directory", InputConfig{Dir: "/data"}, false},
		{"nothing", InputConfig{}, true},
		{"device file only", InputConfig{DeviceFile: "d.csv"}, true},
		{"data file only", InputConfig{DataFile: "r.csv"}, true},
		{"directory and file", InputConfig{Dir: "/data", DataFile: "r.csv"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.input.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfigString(t *testing.T) {
	str := validConfig().String()
	for _, want := range []string{"devices.csv", "Recent: 4h0m0s", `MissingData: "skip"`} {
		if !strings.Contains(str, want) {
			t.Errorf("String() = %q, should contain %q", str, want)
		}
	}
}

func TestSetField(t *testing.T) {
	var target struct {
		Name    string
		Count   int
		Average float64
		Window  time.Duration
		Enabled bool
	}
	v := reflect.ValueOf(&target).Elem()

	tests := []struct {
		field   string
		value   string
		wantErr string
	}{
		{"Name", "devices", ""},
		{"Count", "30", ""},
		{"Average", "12.5", ""},
		{"Window", "90m", ""},
		{"Count", "thirty", "invalid integer"},
		{"Average", "high", "invalid number"},
		{"Window", "soon", "invalid duration"},
		{"Enabled", "true", "unsupported field type: bool"},
	}

	for _, tt := range tests {
		t.Run(tt.field+"="+tt.value, func(t *testing.T) {
			err := setField(v.FieldByName(tt.field), tt.value)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("setField() error = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("setField() error = %v, want %q", err, tt.wantErr)
			}
		})
	}

	if target.Name != "devices" || target.Count != 30 || target.Average != 12.5 || target.Window != 90*time.Minute {
		t.Errorf("setField() left target = %+v", target)
	}
}
