// Package validation holds the rules consulted by the full validation pass that runs after
// the cheap pre-checks of the limiter.
package validation

import (
	"fmt"

	"github.com/graph-gophers/graphql-guard/ast"
	"github.com/graph-gophers/graphql-guard/errors"
)

// Rule is a single validation rule. Rules are identified by name inside a RuleSet.
type Rule interface {
	Name() string
	Validate(c *Context)
}

// Context is shared by every rule validating one document.
type Context struct {
	Doc       *ast.ExecutableDefinition
	Variables map[string]interface{}
	errs      []*errors.QueryError
}

func newContext(doc *ast.ExecutableDefinition, variables map[string]interface{}) *Context {
	return &Context{
		Doc:       doc,
		Variables: variables,
	}
}

// AddErr reports an input validation error found by rule at loc.
func (c *Context) AddErr(loc errors.Location, rule string, format string, a ...interface{}) {
	c.ReportError(&errors.QueryError{
		Err:       errors.ErrInputValidation,
		Message:   fmt.Sprintf(format, a...),
		Locations: []errors.Location{loc},
		Rule:      rule,
		Extensions: map[string]interface{}{
			"category": errors.CategoryInputValidation,
		},
	})
}

// AddLimitErr reports that an operation went over a configured limit.
func (c *Context) AddLimitErr(loc errors.Location, rule string, limit, actual int, format string) {
	err := errors.LimitExceeded(rule, limit, actual, format)
	err.Locations = []errors.Location{loc}
	c.ReportError(err)
}

func (c *Context) ReportError(err *errors.QueryError) {
	c.errs = append(c.errs, err)
}

// Errors returns the errors reported so far.
func (c *Context) Errors() []*errors.QueryError {
	return c.errs
}

// OperationVariables returns the variables of op: the request values, falling back to the
// defaults declared by the operation.
func (c *Context) OperationVariables(op *ast.OperationDefinition) map[string]interface{} {
	vars := make(map[string]interface{}, len(op.Vars))
	for _, v := range op.Vars {
		if v.Default != nil {
			vars[v.Name.Name] = v.Default.Deserialize(nil)
		}
	}
	for name, value := range c.Variables {
		vars[name] = value
	}
	return vars
}

// skipped reports whether @skip or @include exclude the annotated selection.
func skipped(directives ast.DirectiveList, vars map[string]interface{}) bool {
	if d := directives.Get("skip"); d != nil {
		if v, ok := d.Arguments.Get("if"); ok && v.Deserialize(vars) == true {
			return true
		}
	}
	if d := directives.Get("include"); d != nil {
		if v, ok := d.Arguments.Get("if"); ok && v.Deserialize(vars) == false {
			return true
		}
	}
	return false
}
