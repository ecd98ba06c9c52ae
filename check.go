package guard

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/graph-gophers/graphql-guard/ast"
	"github.com/graph-gophers/graphql-guard/errors"
	"github.com/graph-gophers/graphql-guard/metric"
)

// Request is a GraphQL request as sent by a client.
type Request struct {
	Query         string                 `json:"query"`
	OperationName string                 `json:"operationName"`
	Variables     map[string]interface{} `json:"variables"`
}

// Check runs the field count, the alias count and the registered rules on a single parse of
// req.Query, stopping at the first pre-check that fails. It returns nil when the query is
// accepted.
func (l *Limiter) Check(ctx context.Context, req Request) (errs []*errors.QueryError) {
	start := time.Now()
	ctx, finish := l.tracer.TraceCheck(ctx, req.Query, req.OperationName, req.Variables)
	defer func() {
		finish(errs)
		l.observe(start, errs)
		if len(errs) > 0 {
			l.logger.LogRejection(ctx, req.Query, errs)
		}
	}()

	return l.check(ctx, req)
}

func (l *Limiter) exec(ctx context.Context, req Request) []*errors.QueryError {
	if req.Query == "" {
		return nil
	}

	doc, err := l.parse(ctx, req.Query)
	if err != nil {
		return []*errors.QueryError{asQueryError(err)}
	}

	fields := FieldCount(doc)
	if l.metrics != nil {
		l.metrics.FieldCount.Observe(float64(fields))
	}
	if qErr := l.fieldCountErr(fields); qErr != nil {
		return []*errors.QueryError{qErr}
	}

	if l.limits.MaximumAliasLimitEnabled {
		aliases := AliasCount(doc)
		if l.metrics != nil {
			l.metrics.AliasCount.Observe(float64(aliases))
		}
		if qErr := l.aliasCountErr(aliases); qErr != nil {
			return []*errors.QueryError{qErr}
		}
	}

	validationFinish := l.validationTracer.TraceValidation(ctx)
	errs := l.rules.Validate(doc, req.Variables)
	validationFinish(errs)
	return errs
}

type parsedQueryKey struct{}

// parsedQuery is a parse result handed down to exec so the query is not parsed again.
type parsedQuery struct {
	query string
	doc   *ast.ExecutableDefinition
	err   error
}

func withParsedQuery(ctx context.Context, p *parsedQuery) context.Context {
	return context.WithValue(ctx, parsedQueryKey{}, p)
}

func (l *Limiter) parse(ctx context.Context, queryString string) (*ast.ExecutableDefinition, error) {
	if p, ok := ctx.Value(parsedQueryKey{}).(*parsedQuery); ok && p.query == queryString {
		return p.doc, p.err
	}
	return l.parser.Parse(queryString)
}

func (l *Limiter) observe(start time.Time, errs []*errors.QueryError) {
	if l.metrics == nil {
		return
	}

	l.metrics.CheckDuration.Observe(time.Since(start).Seconds())
	if len(errs) == 0 {
		l.metrics.ChecksTotal.WithLabelValues(metric.ResultAccepted).Inc()
		return
	}
	l.metrics.ChecksTotal.WithLabelValues(metric.ResultRejected).Inc()
	for _, err := range errs {
		l.metrics.RejectionsTotal.WithLabelValues(err.Rule).Inc()
	}
}

// asQueryError keeps query errors returned by the parser as they are and wraps anything
// else as a syntax error.
func asQueryError(err error) *errors.QueryError {
	var qErr *errors.QueryError
	if stderrors.As(err, &qErr) {
		return qErr
	}
	return &errors.QueryError{
		Err:     errors.ErrSyntax,
		Message: err.Error(),
		Rule:    "SyntaxError",
	}
}
