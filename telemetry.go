package guard

import (
	"context"

	"github.com/graph-gophers/graphql-guard/ast"
	"github.com/graph-gophers/graphql-guard/errors"
	"github.com/graph-gophers/graphql-guard/validation"
)

// LoggedOperation represents a summary of an operation suitable for concise
// telemetry, for example in a web server context.
type LoggedOperation struct {
	Name       string `json:",omitempty"`
	Type       ast.OperationType
	Variables  map[string]string `json:",omitempty"`
	Fields     []LoggedField     `json:",omitempty"`
	Depth      int
	Complexity int
}

// LoggedField represents a summary of a top-level field.
type LoggedField struct {
	Name      string
	Alias     string            `json:",omitempty"`
	Arguments map[string]string `json:",omitempty"`
}

// Report is the outcome of a check together with the measures it is based on.
type Report struct {
	FieldCount int
	AliasCount int
	Operations []LoggedOperation    `json:",omitempty"`
	Errors     []*errors.QueryError `json:",omitempty"`
}

func logField(field *ast.Field) LoggedField {
	var loggedArgs map[string]string
	if len(field.Arguments) > 0 {
		loggedArgs = make(map[string]string)
		for _, arg := range field.Arguments {
			loggedArgs[arg.Name.Name] = arg.Value.String()
		}
	}
	lf := LoggedField{
		Name:      field.Name.Name,
		Arguments: loggedArgs,
	}
	if field.Alias != nil {
		lf.Alias = field.Alias.Name
	}
	return lf
}

func logOperations(doc *ast.ExecutableDefinition, variables map[string]interface{}) []LoggedOperation {
	c := &validation.Context{Doc: doc, Variables: variables}

	lops := make([]LoggedOperation, len(doc.Operations))
	for i, op := range doc.Operations {
		var args map[string]string
		if len(op.Vars) > 0 {
			args = make(map[string]string)
			for _, input := range op.Vars {
				if input != nil && input.Default != nil {
					args[input.Name.Name] = input.Default.String()
				}
			}
		}

		fields := make([]LoggedField, 0, len(op.Selections))
		for _, sel := range op.Selections {
			if field, ok := sel.(*ast.Field); ok {
				fields = append(fields, logField(field))
			}
		}

		lops[i] = LoggedOperation{
			Name:       op.Name.Name,
			Type:       op.Type,
			Variables:  args,
			Fields:     fields,
			Depth:      validation.OperationDepth(doc, op),
			Complexity: validation.OperationComplexity(doc, op, c.OperationVariables(op)),
		}
	}
	return lops
}

// Report checks req like Check does and measures the query. The query is parsed once for
// both. The measures are left empty when the query does not parse.
func (l *Limiter) Report(ctx context.Context, req Request) *Report {
	if req.Query == "" {
		return &Report{Errors: l.Check(ctx, req)}
	}

	doc, err := l.parser.Parse(req.Query)
	ctx = withParsedQuery(ctx, &parsedQuery{query: req.Query, doc: doc, err: err})
	r := &Report{Errors: l.Check(ctx, req)}
	if err != nil {
		return r
	}
	r.FieldCount = FieldCount(doc)
	r.AliasCount = AliasCount(doc)
	r.Operations = logOperations(doc, req.Variables)
	return r
}
