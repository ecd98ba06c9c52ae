package otel

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"

	"github.com/graph-gophers/graphql-guard/errors"
	"github.com/graph-gophers/graphql-guard/trace/tracer"
)

// DefaultTracer creates a tracer using a default name.
func DefaultTracer() *Tracer {
	return &Tracer{
		Tracer: otel.Tracer("graphql-guard"),
	}
}

// Tracer is an OpenTelemetry implementation for graphql-guard. Set the Tracer
// property to your tracer instance as required.
type Tracer struct {
	Tracer oteltrace.Tracer
}

func (t *Tracer) TraceCheck(ctx context.Context, queryString string, operationName string, variables map[string]interface{}) (context.Context, func([]*errors.QueryError)) {
	spanCtx, span := t.Tracer.Start(ctx, "GraphQL Guard Check")

	var attributes []attribute.KeyValue
	attributes = append(attributes, attribute.String("graphql.query", queryString))
	if operationName != "" {
		attributes = append(attributes, attribute.String("graphql.operationName", operationName))
	}
	if len(variables) != 0 {
		attributes = append(attributes, attribute.String("graphql.variables", fmt.Sprintf("%v", variables)))
	}
	span.SetAttributes(attributes...)

	return spanCtx, func(errs []*errors.QueryError) {
		finish(span, errs)
	}
}

func (t *Tracer) TraceValidation(ctx context.Context) func([]*errors.QueryError) {
	_, span := t.Tracer.Start(ctx, "GraphQL Validate")

	return func(errs []*errors.QueryError) {
		finish(span, errs)
	}
}

func finish(span oteltrace.Span, errs []*errors.QueryError) {
	if len(errs) > 0 {
		span.SetAttributes(attribute.String("graphql.rule", errs[0].Rule))
		span.SetStatus(codes.Error, tracer.Summary(errs))
	}
	span.End()
}
