// Package gqltesting runs table tests against a guard.Limiter.
package gqltesting

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"

	guard "github.com/graph-gophers/graphql-guard"
	"github.com/graph-gophers/graphql-guard/errors"
)

// Test is a limiter test case to be used with RunTest(s).
type Test struct {
	Context       context.Context
	Limiter       *guard.Limiter
	Query         string
	OperationName string
	Variables     map[string]interface{}

	// ExpectedErrors must match the returned errors exactly. Nil expects the query to be
	// accepted.
	ExpectedErrors []*errors.QueryError

	// ExpectedResult, when set, is compared with the JSON body a rejection is rendered as:
	// {"errors":[...]}. ExpectedErrors is then ignored.
	ExpectedResult string
}

// RunTests runs the given test cases as subtests.
func RunTests(t *testing.T, tests []*Test) {
	t.Helper()
	if len(tests) == 1 {
		RunTest(t, tests[0])
		return
	}

	for i, test := range tests {
		t.Run(strconv.Itoa(i+1), func(t *testing.T) {
			t.Helper()
			RunTest(t, test)
		})
	}
}

// RunTest runs a single test case.
func RunTest(t *testing.T, test *Test) {
	t.Helper()
	if test.Context == nil {
		test.Context = context.Background()
	}
	errs := test.Limiter.Check(test.Context, guard.Request{
		Query:         test.Query,
		OperationName: test.OperationName,
		Variables:     test.Variables,
	})

	if test.ExpectedResult != "" {
		got, err := json.Marshal(struct {
			Errors []*errors.QueryError `json:"errors"`
		}{errs})
		if err != nil {
			t.Fatalf("marshal errors: %v", err)
		}
		assert.JSONEq(t, test.ExpectedResult, string(got))
		return
	}

	checkErrors(t, test.ExpectedErrors, errs)
}

func checkErrors(t *testing.T, want, got []*errors.QueryError) {
	t.Helper()
	sortErrors(want)
	sortErrors(got)

	if len(want) == 0 && len(got) == 0 {
		return
	}
	if !reflect.DeepEqual(got, want) {
		t.Log("unexpected error:")
		t.Log("  Got: \n", formatErrors(got))
		t.Log("  Want: \n", formatErrors(want))
		t.Fatal()
	}
}

func formatErrors(errs []*errors.QueryError) string {
	var errorStr string
	for _, err := range errs {
		if err == nil {
			errorStr = errorStr + "(nil)\n"
		} else {
			errorStr = errorStr + formatError(*err)
		}
	}
	return errorStr
}

func formatError(err errors.QueryError) string {
	return fmt.Sprintf(
		`%s
Rule: %s
Locations: %v
Extensions: %+v
`,
		err.Error(),
		err.Rule,
		err.Locations,
		err.Extensions)
}

func sortErrors(errs []*errors.QueryError) {
	if len(errs) <= 1 {
		return
	}
	sort.SliceStable(errs, func(i, j int) bool {
		a, b := firstLocation(errs[i]), firstLocation(errs[j])
		if a != b {
			return a.Before(b)
		}
		return errs[i].Rule < errs[j].Rule
	})
}

func firstLocation(err *errors.QueryError) errors.Location {
	if err == nil || len(err.Locations) == 0 {
		return errors.Location{}
	}
	return err.Locations[0]
}
