// Package prometheus provides Prometheus collectors for accountcore metrics.
//
// [NewPrometheusExporter] accepts an [accountcore.Engine] and exposes an [http.Handler]
// that renders all accountcore counters and histograms in Prometheus text exposition
// format. Counter names are prefixed accountcore_*_total; the single histogram is
// accountcore_revalidate_latency_seconds.
//
// # What this package must NOT do
//
//   - Register metrics in a global Prometheus registry — callers mount the Handler.
//   - Mutate engine state.
package prometheus
