// Package obs instruments the engine with Prometheus metrics and
// OpenTelemetry tracing, built around a functional-options pattern.
// Nothing in pkg/fit or pkg/catalog imports this package; callers
// (pkg/fitserver, cmd/fitcalc) wrap their own calls into the engine with
// it.
package obs
