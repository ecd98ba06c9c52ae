// The tracer package provides tracing functionality.
package tracer

import (
	"context"
	"fmt"

	"github.com/graph-gophers/graphql-guard/errors"
)

type CheckFinishFunc = func([]*errors.QueryError)
type ValidationFinishFunc = func([]*errors.QueryError)

// Tracer traces a complete limiter check of one request, from parsing to the last rule.
type Tracer interface {
	TraceCheck(ctx context.Context, queryString string, operationName string, variables map[string]interface{}) (context.Context, CheckFinishFunc)
}

// ValidationTracer traces the run of the registered validation rules.
type ValidationTracer interface {
	TraceValidation(ctx context.Context) ValidationFinishFunc
}

// Summary renders the first error and the number of remaining ones, the form used for span
// status messages.
func Summary(errs []*errors.QueryError) string {
	if len(errs) == 0 {
		return ""
	}
	msg := errs[0].Error()
	if len(errs) > 1 {
		msg += fmt.Sprintf(" (and %d more errors)", len(errs)-1)
	}
	return msg
}
