// Package metrics defines the recorder interfaces fed by domain events.
// Sinks such as the Prometheus and InfluxDB implementations in
// infra/metrics implement MetricsSink plus any of the optional recorder
// interfaces; callers type-assert for the optional ones. NewMetricsSink
// builds sinks from configuration and returns a MultiSink when more than
// one is configured.
package metrics
