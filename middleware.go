package guard

import (
	"context"

	"github.com/graph-gophers/graphql-guard/errors"
)

// CheckFunc checks a request and returns the reasons to reject it.
type CheckFunc func(ctx context.Context, req Request) []*errors.QueryError

// Middleware can wrap a CheckFunc to add additional behaviour.
type Middleware func(next CheckFunc) CheckFunc

// ParseErrorsMiddleware rewrites the errors returned by the wrapped check, for example to
// hide locations or translate messages.
func ParseErrorsMiddleware(parseErrors func([]*errors.QueryError) []*errors.QueryError) Middleware {
	return func(next CheckFunc) CheckFunc {
		return func(ctx context.Context, req Request) []*errors.QueryError {
			errs := next(ctx, req)
			if len(errs) == 0 {
				return errs
			}
			return parseErrors(errs)
		}
	}
}

// InspectInputMiddleware can be used to inspect the request before it is checked. A nil
// result continues with next; a non-nil result is returned instead, so an empty non-nil
// slice accepts the request without checking it.
func InspectInputMiddleware(inspectInput func(ctx context.Context, req Request) []*errors.QueryError) Middleware {
	return func(next CheckFunc) CheckFunc {
		return func(ctx context.Context, req Request) []*errors.QueryError {
			if errs := inspectInput(ctx, req); errs != nil {
				return errs
			}

			return next(ctx, req)
		}
	}
}
