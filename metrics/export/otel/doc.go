// Package otel provides OpenTelemetry metric exporter bindings for magiclink counters.
//
// [NewOTelExporter] registers an Int64ObservableCounter instrument for each
// magiclink metric. A single callback reads [magiclink.Engine.MetricsSnapshot]
// on each collection cycle.
//
// # What this package must NOT do
//
//   - Own the OTel MeterProvider — callers supply the Meter.
//   - Mutate engine state.
package otel
