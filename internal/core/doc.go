// Package core provides the business logic of the device volume report.
//
// This package contains all domain logic independent of the command line. It can be
// used by the CLI, other tools, or tests without modification.
//
// # Pipeline
//
// A run is strictly sequential:
//
//  1. Inputs are named explicitly or discovered in a directory ([DiscoverInputs])
//  2. Each file is read and validated ([ParseDevices], [ParseReadings])
//  3. Records are collected in a [DeviceRegistry] and a [ReadingStore]
//  4. The [Aggregator] computes one [Result] per device
//  5. The [Reporter] prints one colour-coded line per result
//
// # Sources
//
// Each input kind is a [SourceDefinition] registered at init time with
// [RegisterSource]: positional field specs, the filename pattern used by discovery
// and a record builder.
//
// # Windows
//
// All windows are measured from the reference time, the latest timestamp across every
// loaded reading. The recent window covers readings at most 4 hours before it and the
// prior window readings more than 4 and at most 8 hours before it.
//
// # Error Handling
//
// Parsing never partially succeeds: a file with any malformed row is rejected with a
// [*ParseError] listing every offending line. Errors are mapped to operator messages
// with codes by [MapError].
package core
