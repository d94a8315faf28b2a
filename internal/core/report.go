package core

// report.go renders Results as one colour-coded line each.
//
// The colour only reflects the severity tier; the text of a line is the same with
// or without colour so plain output can be diffed and piped.

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
)

// Tier is the severity used to colour a report line.
type Tier int

const (
	TierNormal Tier = iota
	TierWarning
	TierAlert
)

// String returns the tier name.
func (t Tier) String() string {
	switch t {
	case TierAlert:
		return "alert"
	case TierWarning:
		return "warning"
	default:
		return "normal"
	}
}

// ANSI colours per tier.
var tierColors = map[Tier]string{
	TierAlert:   "\x1b[31m", // red
	TierWarning: "\x1b[33m", // yellow
	TierNormal:  "\x1b[32m", // green
}

const colorReset = "\x1b[0m"

// ColorMode controls whether ANSI colours are written.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// Thresholds holds the average limits of the warning and alert tiers.
type Thresholds struct {
	Warning float64 // Averages at or above this are at least TierWarning
	Alert   float64 // Averages at or above this are TierAlert
}

// DefaultThresholds returns warning at 10 and alert at 15.
func DefaultThresholds() Thresholds {
	return Thresholds{Warning: 10, Alert: 15}
}

// Classify assigns the presentation tier of a result.
func (th Thresholds) Classify(r Result) Tier {
	switch {
	case !r.IsValid || r.Average >= th.Alert:
		return TierAlert
	case r.Average >= th.Warning:
		return TierWarning
	default:
		return TierNormal
	}
}

// Reporter writes report lines to an output stream.
type Reporter struct {
	out        io.Writer
	color      bool
	thresholds Thresholds
}

// NewReporter creates a reporter writing to out.
func NewReporter(out io.Writer, color bool, th Thresholds) *Reporter {
	return &Reporter{out: out, color: color, thresholds: th}
}

// NewTerminalReporter creates a reporter for a terminal file such as os.Stdout.
// Under ColorAuto colours are used only when f is a terminal.
func NewTerminalReporter(f *os.File, mode ColorMode, th Thresholds) *Reporter {
	var color bool
	switch mode {
	case ColorAlways:
		color = true
	case ColorNever:
	default:
		color = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}

	var out io.Writer = f
	if color {
		out = colorable.NewColorable(f)
	}
	return NewReporter(out, color, th)
}

// Write renders every result, one line each.
func (r *Reporter) Write(results []Result) error {
	w := bufio.NewWriter(r.out)
	for _, res := range results {
		line := FormatLine(res)
		if r.color {
			line = tierColors[r.thresholds.Classify(res)] + line + colorReset
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// FormatLine returns the uncoloured text of a report line.
func FormatLine(r Result) string {
	return fmt.Sprintf("Device Id: %d, Device Name: %s, Average: %s, Trending: %s",
		r.DeviceID, r.DeviceName, FormatAverage(r.Average), r.Trend)
}

// FormatAverage renders an average with one decimal, rounding half away from zero.
func FormatAverage(v float64) string {
	return fmt.Sprintf("%.1f", math.Round(v*10)/10)
}
