/*
Package guard rejects GraphQL queries that are too expensive before they reach the
server that executes them.

A Limiter runs two cheap pre-checks on the raw query text, a field count and an alias
count, and then the validation rules it registered: query complexity, query depth and
the introspection toggle. Every rejection is an *errors.QueryError wrapping
errors.ErrInputValidation, or errors.ErrSyntax when the text does not parse.

	rules := validation.NewRuleSet()
	limiter, err := guard.New(config.DefaultLimits(), guard.QueryParser{}, rules)
	if err != nil {
		return err
	}
	if errs := limiter.Check(ctx, guard.Request{Query: query}); len(errs) > 0 {
		// reject
	}
*/
package guard
