package opentracing

import (
	"context"

	"github.com/graph-gophers/graphql-guard/errors"
	"github.com/graph-gophers/graphql-guard/trace/tracer"
	opentracing "github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/ext"
	"github.com/opentracing/opentracing-go/log"
)

// Tracer implements the guard Tracer interfaces and creates OpenTracing spans.
type Tracer struct{}

func (Tracer) TraceCheck(ctx context.Context, queryString string, operationName string, variables map[string]interface{}) (context.Context, func([]*errors.QueryError)) {
	span, spanCtx := opentracing.StartSpanFromContext(ctx, "GraphQL guard check")
	span.SetTag("graphql.query", queryString)

	if operationName != "" {
		span.SetTag("graphql.operationName", operationName)
	}

	if len(variables) != 0 {
		span.LogFields(log.Object("graphql.variables", variables))
	}

	return spanCtx, func(errs []*errors.QueryError) {
		finish(span, errs)
	}
}

func (Tracer) TraceValidation(ctx context.Context) func([]*errors.QueryError) {
	span, _ := opentracing.StartSpanFromContext(ctx, "Validate Query")

	return func(errs []*errors.QueryError) {
		finish(span, errs)
	}
}

func finish(span opentracing.Span, errs []*errors.QueryError) {
	if len(errs) > 0 {
		ext.Error.Set(span, true)
		span.SetTag("graphql.error", tracer.Summary(errs))
		span.SetTag("graphql.rule", errs[0].Rule)
	}
	span.Finish()
}
