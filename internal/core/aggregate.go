package core

// aggregate.go computes the per-device windowed averages.
//
// All windows are measured back from a single reference time: the latest timestamp
// across every loaded reading. Nothing here looks at the wall clock, so identical
// input always yields identical results.

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/JonMunkholm/volumereport/internal/logging"
)

var (
	// ErrNoReadings is returned when there is no reading to derive a reference time from.
	ErrNoReadings = errors.New("no readings loaded")
	// ErrNoResults is returned when no device had readings in the recent window.
	ErrNoResults = errors.New("no device produced a result")
)

// MissingDataPolicy decides what happens to a device with an empty recent window.
type MissingDataPolicy string

const (
	// MissingSkip logs a warning and leaves the device out of the report.
	MissingSkip MissingDataPolicy = "skip"
	// MissingAbort fails the whole run.
	MissingAbort MissingDataPolicy = "abort"
)

// MissingDataError is returned under MissingAbort.
type MissingDataError struct {
	DeviceID   int
	DeviceName string
}

func (e *MissingDataError) Error() string {
	return fmt.Sprintf("no recent data found for device %s (%d)", e.DeviceName, e.DeviceID)
}

// WindowConfig holds the aggregation parameters.
type WindowConfig struct {
	Recent        time.Duration // Upper bound of the recent window (inclusive)
	Prior         time.Duration // Upper bound of the prior window (inclusive)
	InvalidVolume int           // A recent reading at or above this invalidates the device
}

// DefaultWindowConfig returns the standard 4h / 8h windows and the volume limit of 30.
func DefaultWindowConfig() WindowConfig {
	return WindowConfig{
		Recent:        4 * time.Hour,
		Prior:         8 * time.Hour,
		InvalidVolume: 30,
	}
}

// Aggregator computes Results from a registry and a reading store.
type Aggregator struct {
	window WindowConfig
	policy MissingDataPolicy
}

// NewAggregator creates an aggregator. An empty policy means MissingSkip.
func NewAggregator(window WindowConfig, policy MissingDataPolicy) *Aggregator {
	if policy == "" {
		policy = MissingSkip
	}
	return &Aggregator{window: window, policy: policy}
}

// Aggregate produces one Result per device, in registry order.
func (a *Aggregator) Aggregate(ctx context.Context, devices *DeviceRegistry, store *ReadingStore) ([]Result, error) {
	logger := logging.FromContext(ctx)

	ref, ok := store.ReferenceTime()
	if !ok {
		return nil, ErrNoReadings
	}
	logger.Debug("aggregation started",
		"reference_time", ref.Format(ReadingTimeLayout),
		"devices", devices.Len(),
		"readings", store.Len(),
	)

	results := make([]Result, 0, devices.Len())
	for _, device := range devices.Devices() {
		result, ok := a.aggregateDevice(device, store.ForDevice(device.ID), ref)
		if !ok {
			if a.policy == MissingAbort {
				return nil, &MissingDataError{DeviceID: device.ID, DeviceName: device.Name}
			}
			logger.Warn("no data found for device",
				"device_id", device.ID,
				"device_name", device.Name,
			)
			continue
		}
		results = append(results, result)
	}

	if len(results) == 0 {
		return nil, ErrNoResults
	}
	return results, nil
}

// aggregateDevice computes the Result for one device.
// Returns false when the recent window is empty.
func (a *Aggregator) aggregateDevice(device Device, readings []Reading, ref time.Time) (Result, bool) {
	var (
		recentSum, recentCount int
		priorSum, priorCount   int
		valid                  = true
	)

	for _, rd := range readings {
		delta := ref.Sub(rd.Timestamp)
		switch {
		case delta < 0:
			continue
		case delta <= a.window.Recent:
			recentSum += rd.Volume
			recentCount++
			if rd.Volume >= a.window.InvalidVolume {
				valid = false
			}
		case delta <= a.window.Prior:
			priorSum += rd.Volume
			priorCount++
		}
	}

	if recentCount == 0 {
		return Result{}, false
	}

	result := Result{
		DeviceID:   device.ID,
		DeviceName: device.Name,
		Average:    float64(recentSum) / float64(recentCount),
		IsValid:    valid,
	}
	if priorCount > 0 {
		result.LastAverage = ToPgFloat8(float64(priorSum) / float64(priorCount))
	}
	result.Trend = ClassifyTrend(result.Average, result.LastAverage)

	return result, true
}

// ClassifyTrend compares the current average with the prior one.
// An absent prior average is Flat.
func ClassifyTrend(average float64, last pgtype.Float8) Trend {
	if !last.Valid {
		return TrendFlat
	}
	switch {
	case average > last.Float64:
		return TrendIncreasing
	case average < last.Float64:
		return TrendDecreasing
	default:
		return TrendFlat
	}
}
