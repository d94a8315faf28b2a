package core

// store.go holds the in-memory device registry and reading store.
//
// Both collect parser output across any number of source files. The registry enforces
// the duplicate-device policy; readings are kept as loaded, in file order.

import (
	"context"
	"fmt"
	"time"

	"github.com/JonMunkholm/volumereport/internal/logging"
)

// DuplicatePolicy decides what happens when a device id is loaded twice.
type DuplicatePolicy string

const (
	// DuplicateMerge keeps the first occurrence and drops later ones with a warning.
	DuplicateMerge DuplicatePolicy = "merge"
	// DuplicateReject fails the load on the first duplicate id.
	DuplicateReject DuplicatePolicy = "reject"
)

// DuplicateDeviceError is returned by DeviceRegistry.Add under DuplicateReject.
type DuplicateDeviceError struct {
	ID          int
	FirstSource string
	Source      string
}

func (e *DuplicateDeviceError) Error() string {
	return fmt.Sprintf("duplicate device id %d in %s (first loaded from %s)", e.ID, e.Source, e.FirstSource)
}

// DeviceRegistry is the ordered set of known devices.
type DeviceRegistry struct {
	policy  DuplicatePolicy
	devices []Device
	origin  map[int]string // device id -> source it was first loaded from
}

// NewDeviceRegistry creates an empty registry with the given duplicate policy.
func NewDeviceRegistry(policy DuplicatePolicy) *DeviceRegistry {
	if policy == "" {
		policy = DuplicateMerge
	}
	return &DeviceRegistry{
		policy: policy,
		origin: make(map[int]string),
	}
}

// Add appends devices loaded from source, applying the duplicate policy.
// Under DuplicateReject nothing from source is added when an error is returned.
func (r *DeviceRegistry) Add(ctx context.Context, source string, devices []Device) error {
	accepted := make([]Device, 0, len(devices))
	seen := make(map[int]bool, len(devices))

	for _, d := range devices {
		first, dup := r.origin[d.ID]
		if !dup && seen[d.ID] {
			first, dup = source, true
		}
		if dup {
			if r.policy == DuplicateReject {
				return &DuplicateDeviceError{ID: d.ID, FirstSource: first, Source: source}
			}
			logging.FromContext(ctx).Warn("duplicate device ignored",
				"device_id", d.ID,
				"device_name", d.Name,
				"source", source,
				"first_source", first,
			)
			continue
		}
		seen[d.ID] = true
		accepted = append(accepted, d)
	}

	for _, d := range accepted {
		r.origin[d.ID] = source
		r.devices = append(r.devices, d)
	}
	return nil
}

// Devices returns the registered devices in load order.
func (r *DeviceRegistry) Devices() []Device {
	return r.devices
}

// Len returns the number of registered devices.
func (r *DeviceRegistry) Len() int {
	return len(r.devices)
}

// ReadingStore holds every loaded reading, indexed by device.
type ReadingStore struct {
	readings []Reading
	byDevice map[int][]Reading
}

// NewReadingStore creates an empty store.
func NewReadingStore() *ReadingStore {
	return &ReadingStore{byDevice: make(map[int][]Reading)}
}

// Add appends readings. Readings for unknown devices are kept; the foreign key
// is not enforced.
func (s *ReadingStore) Add(readings []Reading) {
	for _, rd := range readings {
		s.readings = append(s.readings, rd)
		s.byDevice[rd.DeviceID] = append(s.byDevice[rd.DeviceID], rd)
	}
}

// ForDevice returns the readings of one device in load order.
func (s *ReadingStore) ForDevice(id int) []Reading {
	return s.byDevice[id]
}

// Len returns the number of stored readings.
func (s *ReadingStore) Len() int {
	return len(s.readings)
}

// ReferenceTime returns the latest timestamp across all readings.
// Returns false if the store is empty.
func (s *ReadingStore) ReferenceTime() (time.Time, bool) {
	if len(s.readings) == 0 {
		return time.Time{}, false
	}
	ref := s.readings[0].Timestamp
	for _, rd := range s.readings[1:] {
		if rd.Timestamp.After(ref) {
			ref = rd.Timestamp
		}
	}
	return ref, true
}
