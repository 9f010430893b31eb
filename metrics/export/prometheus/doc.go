// Package prometheus provides Prometheus collectors for magiclink metrics.
//
// [NewPrometheusExporter] accepts a [magiclink.Engine] and exposes an [http.Handler]
// that renders all magiclink counters in Prometheus text exposition format.
// Counter names are prefixed magiclink_*_total.
//
// # What this package must NOT do
//
//   - Register metrics in a global Prometheus registry — callers mount the Handler.
//   - Mutate engine state.
package prometheus
