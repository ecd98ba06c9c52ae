package tracer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/graph-gophers/graphql-guard/errors"
	"github.com/graph-gophers/graphql-guard/trace/tracer"
)

func TestSummary(t *testing.T) {
	assert.Empty(t, tracer.Summary(nil))

	one := []*errors.QueryError{errors.Errorf("first")}
	assert.Equal(t, "graphql: first", tracer.Summary(one))

	three := append(one, errors.Errorf("second"), errors.Errorf("third"))
	assert.Equal(t, "graphql: first (and 2 more errors)", tracer.Summary(three))
}
