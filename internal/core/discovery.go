package core

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/JonMunkholm/volumereport/internal/logging"
)

// ErrNoInputs is returned when a directory holds no device or no data file.
var ErrNoInputs = errors.New("no input files found")

// Patterns are the filename substrings that classify discovered files.
type Patterns struct {
	Device string
	Data   string
}

// DefaultPatterns returns the patterns of the registered device and data sources.
func DefaultPatterns() Patterns {
	var p Patterns
	for _, def := range Sources() {
		switch def.Info.Key {
		case SourceDevice:
			p.Device = def.Info.Pattern
		case SourceData:
			p.Data = def.Info.Pattern
		}
	}
	return p
}

// DiscoverInputs lists the device and data files in dir.
//
// A file is a device file when its name contains p.Device and a data file when it
// contains p.Data (both case-insensitive). Files matching both are ambiguous and
// skipped. Only SupportedExtensions are considered; results are in name order.
func DiscoverInputs(ctx context.Context, dir string, p Patterns) (Inputs, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return Inputs{}, fmt.Errorf("reading directory %s: %w", dir, err)
	}

	devicePattern := strings.ToLower(p.Device)
	dataPattern := strings.ToLower(p.Data)

	var in Inputs
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		ext := strings.ToLower(filepath.Ext(name))
		if !slices.Contains(SupportedExtensions, ext) {
			continue
		}

		lower := strings.ToLower(name)
		isDevice := devicePattern != "" && strings.Contains(lower, devicePattern)
		isData := dataPattern != "" && strings.Contains(lower, dataPattern)

		switch {
		case isDevice && isData:
			logging.FromContext(ctx).Warn("ambiguous input file skipped", "file", name, "dir", dir)
		case isDevice:
			in.DeviceFiles = append(in.DeviceFiles, filepath.Join(dir, name))
		case isData:
			in.DataFiles = append(in.DataFiles, filepath.Join(dir, name))
		}
	}

	if len(in.DeviceFiles) == 0 {
		return in, fmt.Errorf("%w: no file matching %q in %s", ErrNoInputs, p.Device, dir)
	}
	if len(in.DataFiles) == 0 {
		return in, fmt.Errorf("%w: no file matching %q in %s", ErrNoInputs, p.Data, dir)
	}

	return in, nil
}
