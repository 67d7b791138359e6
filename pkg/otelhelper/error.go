package otelhelper

import (
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// ErrorTypeKey holds the Go type of a recorded error.
const ErrorTypeKey = "hirelane.error.type"

// SetError marks span as failed. Nil errors leave the span untouched.
func SetError(span trace.Span, err error) {
	if err == nil {
		return
	}

	span.RecordError(err, trace.WithAttributes(attribute.String(ErrorTypeKey, fmt.Sprintf("%T", err))))
	span.SetStatus(codes.Error, err.Error())
}
