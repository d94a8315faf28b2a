package core

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/JonMunkholm/volumereport/internal/config"
	"github.com/JonMunkholm/volumereport/internal/logging"
)

// Service runs the report pipeline: parse, store, aggregate, report.
type Service struct {
	decoder    TextDecoder
	patterns   Patterns
	duplicates DuplicatePolicy
	aggregator *Aggregator
	thresholds Thresholds
	color      ColorMode
}

// NewService creates a Service from validated configuration.
func NewService(cfg *config.Config) (*Service, error) {
	decoder, err := NewTextDecoder(cfg.Input.Encoding)
	if err != nil {
		return nil, err
	}

	patterns := DefaultPatterns()
	if cfg.Input.DevicePattern != "" {
		patterns.Device = cfg.Input.DevicePattern
	}
	if cfg.Input.DataPattern != "" {
		patterns.Data = cfg.Input.DataPattern
	}

	window := WindowConfig{
		Recent:        cfg.Window.Recent,
		Prior:         cfg.Window.Prior,
		InvalidVolume: cfg.Window.InvalidVolume,
	}

	return &Service{
		decoder:    decoder,
		patterns:   patterns,
		duplicates: DuplicatePolicy(strings.ToLower(cfg.Policy.Duplicates)),
		aggregator: NewAggregator(window, MissingDataPolicy(strings.ToLower(cfg.Policy.MissingData))),
		thresholds: Thresholds{
			Warning: cfg.Report.WarningAverage,
			Alert:   cfg.Report.AlertAverage,
		},
		color: ColorMode(strings.ToLower(cfg.Report.Color)),
	}, nil
}

// ResolveInputs returns the files named in the input configuration, discovering
// them in the input directory when one is set.
func (s *Service) ResolveInputs(ctx context.Context, in config.InputConfig) (Inputs, error) {
	if in.Dir != "" {
		return DiscoverInputs(ctx, in.Dir, s.patterns)
	}
	if in.DeviceFile == "" || in.DataFile == "" {
		return Inputs{}, fmt.Errorf("%w: both a device file and a data file are required", ErrNoInputs)
	}
	return Inputs{
		DeviceFiles: []string{in.DeviceFile},
		DataFiles:   []string{in.DataFile},
	}, nil
}

// Load parses every input file into a device registry and a reading store.
// The first file that fails aborts the load.
func (s *Service) Load(ctx context.Context, in Inputs) (*DeviceRegistry, *ReadingStore, error) {
	logger := logging.WithFields(ctx, "encoding", s.decoder.Name())

	registry := NewDeviceRegistry(s.duplicates)
	for _, path := range in.DeviceFiles {
		devices, err := ParseDevices(ctx, path, s.decoder)
		if err != nil {
			return nil, nil, err
		}
		if err := registry.Add(ctx, path, devices); err != nil {
			return nil, nil, err
		}
		logger.Info("device file loaded", "path", path, "devices", len(devices))
	}

	store := NewReadingStore()
	for _, path := range in.DataFiles {
		readings, err := ParseReadings(ctx, path, s.decoder)
		if err != nil {
			return nil, nil, err
		}
		store.Add(readings)
		logger.Info("data file loaded", "path", path, "readings", len(readings))
	}

	return registry, store, nil
}

// Results loads the inputs and aggregates them.
func (s *Service) Results(ctx context.Context, in Inputs) ([]Result, error) {
	registry, store, err := s.Load(ctx, in)
	if err != nil {
		return nil, err
	}
	return s.aggregator.Aggregate(ctx, registry, store)
}

// Run loads, aggregates and writes the report with r.
func (s *Service) Run(ctx context.Context, in Inputs, r *Reporter) error {
	results, err := s.Results(ctx, in)
	if err != nil {
		return err
	}

	if err := r.Write(results); err != nil {
		return err
	}

	logging.FromContext(ctx).Info("report written", "results", len(results))
	return nil
}

// TerminalReporter returns a reporter for f using the configured colour mode
// and thresholds.
func (s *Service) TerminalReporter(f *os.File) *Reporter {
	return NewTerminalReporter(f, s.color, s.thresholds)
}

// Reporter returns a reporter writing plain or coloured lines to w.
func (s *Service) Reporter(w io.Writer, color bool) *Reporter {
	return NewReporter(w, color, s.thresholds)
}
