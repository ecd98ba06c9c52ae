package guard

import (
	stderrors "errors"
	"fmt"
	"sync"

	"github.com/graph-gophers/graphql-guard/config"
	"github.com/graph-gophers/graphql-guard/errors"
	"github.com/graph-gophers/graphql-guard/log"
	"github.com/graph-gophers/graphql-guard/metric"
	"github.com/graph-gophers/graphql-guard/trace/noop"
	"github.com/graph-gophers/graphql-guard/trace/tracer"
	"github.com/graph-gophers/graphql-guard/validation"
)

// Rule names reported by the pre-checks.
const (
	FieldCountRule = "MaximumFields"
	AliasCountRule = "MaximumAliases"
)

const (
	fieldCountMessage = "Max query complexity should be %d but got %d."
	aliasCountMessage = "Max Aliases in query should be %d but got %d."
)

// Limiter enforces the configured limits on GraphQL queries. It is safe for concurrent
// use: the limits are fixed at construction and every check works on its own parse tree.
type Limiter struct {
	limits           config.Limits
	parser           Parser
	rules            *validation.RuleSet
	registerOnce     sync.Once
	tracer           tracer.Tracer
	validationTracer tracer.ValidationTracer
	logger           log.Logger
	metrics          *metric.Metrics
	middlewares      []Middleware
	check            CheckFunc
}

// Option applies an optional setting to a Limiter.
type Option func(*Limiter)

// Tracer is used to trace checks and rule validation. Use it to plug in an OpenTelemetry or
// OpenTracing tracer. A tracer which also implements tracer.ValidationTracer is used for
// the validation span too. The default is noop.Tracer.
func Tracer(t tracer.Tracer) Option {
	return func(l *Limiter) {
		l.tracer = t
		if vt, ok := t.(tracer.ValidationTracer); ok {
			l.validationTracer = vt
		}
	}
}

// Logger is used to log rejected queries. The default is log.Nop.
func Logger(logger log.Logger) Option {
	return func(l *Limiter) {
		l.logger = logger
	}
}

// Metrics records checks into the given collectors. Checks are not metered by default.
func Metrics(m *metric.Metrics) Option {
	return func(l *Limiter) {
		l.metrics = m
	}
}

// UseMiddleware wraps Check. The first middleware is the outermost one.
func UseMiddleware(mw ...Middleware) Option {
	return func(l *Limiter) {
		l.middlewares = append(l.middlewares, mw...)
	}
}

// New builds a Limiter enforcing limits. The parser and the rule set are required;
// the limiter registers its rules into rules exactly once.
func New(limits config.Limits, parser Parser, rules *validation.RuleSet, opts ...Option) (*Limiter, error) {
	if parser == nil {
		return nil, stderrors.New("guard: a parser is required")
	}
	if rules == nil {
		return nil, stderrors.New("guard: a rule set is required")
	}
	if errs := config.ValidateLimits(limits); len(errs) > 0 {
		return nil, fmt.Errorf("guard: invalid limits: %w", config.ValidationError{Errors: errs})
	}

	l := &Limiter{
		limits:           limits,
		parser:           parser,
		rules:            rules,
		tracer:           noop.Tracer{},
		validationTracer: noop.Tracer{},
		logger:           log.Nop{},
	}
	for _, opt := range opts {
		opt(l)
	}

	l.check = l.exec
	for i := len(l.middlewares) - 1; i >= 0; i-- {
		l.check = l.middlewares[i](l.check)
	}

	l.registerOnce.Do(func() { l.RegisterLimits(l.rules) })
	return l, nil
}

// MustNew calls New and panics on error.
func MustNew(limits config.Limits, parser Parser, rules *validation.RuleSet, opts ...Option) *Limiter {
	l, err := New(limits, parser, rules, opts...)
	if err != nil {
		panic(err)
	}
	return l
}

// Limits returns the limits enforced by l.
func (l *Limiter) Limits() config.Limits {
	return l.limits
}

// Rules returns the rule set consulted by Check.
func (l *Limiter) Rules() *validation.RuleSet {
	return l.rules
}

// RegisterLimits registers the complexity, introspection and depth rules configured for l
// into rules. Rules are keyed by name, so registering twice leaves a single copy of each.
func (l *Limiter) RegisterLimits(rules *validation.RuleSet) {
	rules.Add(validation.QueryComplexity{MaxComplexity: l.limits.QueryComplexity})
	rules.Add(validation.DisableIntrospection{Disabled: l.limits.IntrospectionDisabled})
	rules.Add(validation.QueryDepth{MaxDepth: l.limits.QueryDepth})
}

// ValidateFieldCount rejects a query with more fields than the complexity limit allows.
// An empty query is accepted without being parsed.
func (l *Limiter) ValidateFieldCount(queryString string) error {
	if queryString == "" {
		return nil
	}

	doc, err := l.parser.Parse(queryString)
	if err != nil {
		return err
	}
	if qErr := l.fieldCountErr(FieldCount(doc)); qErr != nil {
		return qErr
	}
	return nil
}

// ValidateAliasCount rejects a query with more aliased fields than allowed. It does nothing,
// and does not parse the query, when alias limiting is disabled or the query is empty.
func (l *Limiter) ValidateAliasCount(queryString string) error {
	if !l.limits.MaximumAliasLimitEnabled || queryString == "" {
		return nil
	}

	doc, err := l.parser.Parse(queryString)
	if err != nil {
		return err
	}
	if qErr := l.aliasCountErr(AliasCount(doc)); qErr != nil {
		return qErr
	}
	return nil
}

func (l *Limiter) fieldCountErr(count int) *errors.QueryError {
	if count > l.limits.QueryComplexity {
		return errors.LimitExceeded(FieldCountRule, l.limits.QueryComplexity, count, fieldCountMessage)
	}
	return nil
}

func (l *Limiter) aliasCountErr(count int) *errors.QueryError {
	if l.limits.MaximumAliasLimitEnabled && count > l.limits.MaximumAliasAllowed {
		return errors.LimitExceeded(AliasCountRule, l.limits.MaximumAliasAllowed, count, aliasCountMessage)
	}
	return nil
}
