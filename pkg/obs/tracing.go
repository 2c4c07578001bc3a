package obs

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const defaultTracerName = "fitcalc"

// Tracer resolves a tracer from the global OpenTelemetry provider; the
// caller configures the provider in main(), this package only resolves a
// tracer handle from it.
func Tracer(name string) trace.Tracer {
	if name == "" {
		name = defaultTracerName
	}
	return otel.Tracer(name)
}

// TraceRead wraps a single top-level Holder.Get call in a span named
// "fitcalc.read", recording the holder's type ID and the attribute ID
// being read, and setting span status from the returned error.
func TraceRead(ctx context.Context, tracer trace.Tracer, typeID, attrID int32, fn func(context.Context) (float64, error)) (float64, error) {
	ctx, span := tracer.Start(ctx, "fitcalc.read",
		trace.WithAttributes(
			attribute.Int64("fitcalc.type_id", int64(typeID)),
			attribute.Int64("fitcalc.attr_id", int64(attrID)),
		),
	)
	defer span.End()

	v, err := fn(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return v, err
	}
	span.SetAttributes(attribute.Float64("fitcalc.value", v))
	return v, nil
}

// TraceValidate wraps a Fit.Validate call in a span named
// "fitcalc.validate", recording one "<restriction>.violations" attribute
// with the violation count of each restriction fn reports.
func TraceValidate(ctx context.Context, tracer trace.Tracer, fn func(context.Context) (map[string]int, error)) error {
	ctx, span := tracer.Start(ctx, "fitcalc.validate")
	defer span.End()

	violationCounts, err := fn(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	for restriction, n := range violationCounts {
		span.SetAttributes(attribute.Int(restriction+".violations", n))
	}
	return nil
}
