package core

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgtype"
)

func TestFormatAverage(t *testing.T) {
	tests := []struct {
		input float64
		want  string
	}{
		{10.5, "10.5"},
		{10, "10.0"},
		{0, "0.0"},
		{7.25, "7.3"},
		{7.75, "7.8"},
		{2.0 / 3.0, "0.7"},
		{11.04, "11.0"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := FormatAverage(tt.input); got != tt.want {
				t.Errorf("FormatAverage(%v) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestFormatLine(t *testing.T) {
	tests := []struct {
		name   string
		result Result
		want   string
	}{
		{
			name:   "increasing",
			result: Result{DeviceID: 12, DeviceName: "PumpA", Average: 10.5, Trend: TrendIncreasing, IsValid: true},
			want:   "Device Id: 12, Device Name: PumpA, Average: 10.5, Trending: Increasing",
		},
		{
			name:   "decreasing",
			result: Result{DeviceID: 3, DeviceName: "Gauge C", Average: 4, Trend: TrendDecreasing, IsValid: true},
			want:   "Device Id: 3, Device Name: Gauge C, Average: 4.0, Trending: Decreasing",
		},
		{
			name:   "flat",
			result: Result{DeviceID: 1, DeviceName: "A", Average: 1.25, Trend: TrendFlat},
			want:   "Device Id: 1, Device Name: A, Average: 1.3, Trending: -",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatLine(tt.result); got != tt.want {
				t.Errorf("FormatLine() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestThresholdsClassify(t *testing.T) {
	th := DefaultThresholds()

	tests := []struct {
		name   string
		result Result
		want   Tier
	}{
		{"invalid is alert", Result{Average: 1, IsValid: false}, TierAlert},
		{"alert threshold inclusive", Result{Average: 15, IsValid: true}, TierAlert},
		{"above alert", Result{Average: 22.5, IsValid: true}, TierAlert},
		{"warning threshold inclusive", Result{Average: 10, IsValid: true}, TierWarning},
		{"just below alert", Result{Average: 14.9, IsValid: true}, TierWarning},
		{"just below warning", Result{Average: 9.99, IsValid: true}, TierNormal},
		{"zero", Result{Average: 0, IsValid: true}, TierNormal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := th.Classify(tt.result); got != tt.want {
				t.Errorf("Classify(%+v) = %v, want %v", tt.result, got, tt.want)
			}
		})
	}
}

func TestReporterWrite(t *testing.T) {
	results := []Result{
		{DeviceID: 1, DeviceName: "A", Average: 3, IsValid: true},
		{DeviceID: 2, DeviceName: "B", Average: 12, IsValid: true, LastAverage: pgtype.Float8{Float64: 11, Valid: true}, Trend: TrendIncreasing},
		{DeviceID: 3, DeviceName: "C", Average: 5, IsValid: false},
	}

	t.Run("plain", func(t *testing.T) {
		var buf bytes.Buffer
		if err := NewReporter(&buf, false, DefaultThresholds()).Write(results); err != nil {
			t.Fatalf("Write() error = %v", err)
		}

		want := "Device Id: 1, Device Name: A, Average: 3.0, Trending: -\n" +
			"Device Id: 2, Device Name: B, Average: 12.0, Trending: Increasing\n" +
			"Device Id: 3, Device Name: C, Average: 5.0, Trending: -\n"
		if buf.String() != want {
			t.Errorf("Write() output =\n%s\nwant\n%s", buf.String(), want)
		}
		if strings.Contains(buf.String(), "\x1b[") {
			t.Error("plain output contains ANSI escapes")
		}
	})

	t.Run("coloured", func(t *testing.T) {
		var buf bytes.Buffer
		if err := NewReporter(&buf, true, DefaultThresholds()).Write(results); err != nil {
			t.Fatalf("Write() error = %v", err)
		}

		lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
		if len(lines) != 3 {
			t.Fatalf("Write() wrote %d lines, want 3", len(lines))
		}
		wantPrefix := []string{tierColors[TierNormal], tierColors[TierWarning], tierColors[TierAlert]}
		for i, line := range lines {
			if !strings.HasPrefix(line, wantPrefix[i]) || !strings.HasSuffix(line, colorReset) {
				t.Errorf("line %d = %q, want %q prefix and reset suffix", i, line, wantPrefix[i])
			}
			if !strings.Contains(line, FormatLine(results[i])) {
				t.Errorf("line %d = %q, should contain the plain text", i, line)
			}
		}
	})

	t.Run("empty", func(t *testing.T) {
		var buf bytes.Buffer
		if err := NewReporter(&buf, false, DefaultThresholds()).Write(nil); err != nil {
			t.Fatalf("Write() error = %v", err)
		}
		if buf.Len() != 0 {
			t.Errorf("Write(nil) wrote %q, want nothing", buf.String())
		}
	})
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestReporterWrite_Error(t *testing.T) {
	err := NewReporter(failingWriter{}, false, DefaultThresholds()).Write([]Result{{DeviceID: 1}})
	if err == nil || !strings.Contains(err.Error(), "disk full") {
		t.Errorf("Write() error = %v, want disk full", err)
	}
}
