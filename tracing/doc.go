// Package tracing integrates OpenTelemetry with pocketguard so that every
// call evaluation and session resolution can be traced. Applications that do
// not initialise tracing get no-op spans.
package tracing
