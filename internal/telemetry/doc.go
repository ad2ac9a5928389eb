// Package telemetry wraps OpenTelemetry SDK initialization, providing a
// centralized TracerProvider and MeterProvider setup for the service.
// When telemetry is disabled it uses noop implementations and connects
// to nothing.
package telemetry
