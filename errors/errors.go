package errors

import (
	"fmt"
)

// CategoryInputValidation is reported in the "category" extension of errors raised for
// queries that exceed a configured limit.
const CategoryInputValidation = "graphql-input"

type kindError string

func (k kindError) Error() string { return string(k) }

const (
	// ErrInputValidation is wrapped by every error that rejects a query because it exceeds a
	// configured limit. Such errors are terminal: resubmitting the same query fails again.
	ErrInputValidation = kindError("input validation failed")

	// ErrSyntax is wrapped by errors produced for malformed query text.
	ErrSyntax = kindError("syntax error")
)

type QueryError struct {
	Err        error                  `json:"-"`
	Message    string                 `json:"message"`
	Locations  []Location             `json:"locations,omitempty"`
	Rule       string                 `json:"-"`
	Extensions map[string]interface{} `json:"extensions,omitempty"`
}

type Location struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

func (a Location) Before(b Location) bool {
	return a.Line < b.Line || (a.Line == b.Line && a.Column < b.Column)
}

// Errorf works like fmt.Sprintf for the message. If the last argument is an error it is
// wrapped, so errors.Is and errors.As see through the returned QueryError.
func Errorf(format string, a ...interface{}) *QueryError {
	var err error
	if n := len(a); n > 0 {
		if v, ok := a[n-1].(error); ok {
			err = v
		}
	}
	return &QueryError{
		Err:     err,
		Message: fmt.Sprintf(format, a...),
	}
}

// LimitExceeded builds the error returned when an observed value goes over a configured
// limit. The limit and the observed value are kept in the extensions.
func LimitExceeded(rule string, limit, actual int, format string) *QueryError {
	return &QueryError{
		Err:     ErrInputValidation,
		Message: fmt.Sprintf(format, limit, actual),
		Rule:    rule,
		Extensions: map[string]interface{}{
			"category": CategoryInputValidation,
			"limit":    limit,
			"actual":   actual,
		},
	}
}

func (err *QueryError) Error() string {
	if err == nil {
		return "<nil>"
	}
	str := fmt.Sprintf("graphql: %s", err.Message)
	for _, loc := range err.Locations {
		str += fmt.Sprintf(" (line %d, column %d)", loc.Line, loc.Column)
	}
	return str
}

func (err *QueryError) Unwrap() error {
	if err == nil {
		return nil
	}
	return err.Err
}

var _ error = &QueryError{}
