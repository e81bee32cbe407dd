// Package otel publishes shopauth engine metrics through an OpenTelemetry
// Meter.
//
// [Register] creates one Int64ObservableCounter per counter family, with the
// family label carried as an attribute, and reads the engine snapshot once
// per collection. The caller owns the MeterProvider.
package otel
