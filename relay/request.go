package relay

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"reflect"
	"strings"

	guard "github.com/graph-gophers/graphql-guard"
)

const (
	ContentTypeJSON           = "application/json"
	ContentTypeGraphQL        = "application/graphql"
	ContentTypeFormURLEncoded = "application/x-www-form-urlencoded"
)

// A workaround for getting `variables` as a JSON string
type requestOptionsCompatibility struct {
	Query         string `json:"query"`
	Variables     string `json:"variables"`
	OperationName string `json:"operationName"`
}

func getFromForm(values url.Values) (*guard.Request, error) {
	query := values.Get("query")
	if query == "" {
		return nil, nil
	}

	var variables map[string]interface{}
	if variablesStr := values.Get("variables"); variablesStr != "" {
		if err := json.Unmarshal([]byte(variablesStr), &variables); err != nil {
			return nil, fmt.Errorf("variables are not a JSON object: %w", err)
		}
	}

	return &guard.Request{
		Query:         query,
		Variables:     variables,
		OperationName: values.Get("operationName"),
	}, nil
}

// ErrConflictingRequest is returned for a POST whose URL parameters describe another
// request than its body.
var ErrConflictingRequest = stderrors.New("query parameters in the URL and the request body differ")

// NewRequestOptions decodes the GraphQL request carried by r. The body must have been read
// into body already, r.Body is not consumed. A body is only accepted with POST and is decoded
// by content type, JSON being the default. URL parameters are used when there is no body;
// next to a body they must match it.
func NewRequestOptions(r *http.Request, body []byte) (*guard.Request, error) {
	values := r.URL.Query()
	fromURL, err := getFromForm(values)
	if err != nil {
		return nil, err
	}

	if len(body) == 0 {
		if fromURL == nil {
			return &guard.Request{}, nil
		}
		return fromURL, nil
	}
	if r.Method != http.MethodPost {
		return nil, fmt.Errorf("a request body is only accepted with POST")
	}

	req, err := decodeBody(r.Header.Get("Content-Type"), body)
	if err != nil {
		return nil, err
	}
	if fromURL != nil && req.Query == "" && req.OperationName == "" && len(req.Variables) == 0 {
		return fromURL, nil
	}
	if !matchesURL(values, fromURL, req) {
		return nil, ErrConflictingRequest
	}
	return req, nil
}

func decodeBody(contentType string, body []byte) (*guard.Request, error) {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = ContentTypeJSON
	}

	switch mediaType {
	case ContentTypeGraphQL:
		return &guard.Request{Query: string(body)}, nil

	case ContentTypeFormURLEncoded:
		values, err := url.ParseQuery(string(body))
		if err != nil {
			return nil, fmt.Errorf("malformed form body: %w", err)
		}
		req, err := getFromForm(values)
		if err != nil || req != nil {
			return req, err
		}
		return &guard.Request{}, nil

	default:
		trimmed := strings.TrimSpace(string(body))
		if strings.HasPrefix(trimmed, "[") {
			return nil, fmt.Errorf("batched requests are not supported")
		}

		var opts guard.Request
		if err := json.Unmarshal(body, &opts); err == nil {
			return &opts, nil
		}

		// Probably `variables` was sent as a string instead of an object.
		var optsCompatible requestOptionsCompatibility
		if err := json.Unmarshal(body, &optsCompatible); err != nil {
			return nil, fmt.Errorf("malformed JSON body: %w", err)
		}
		opts = guard.Request{Query: optsCompatible.Query, OperationName: optsCompatible.OperationName}
		if optsCompatible.Variables != "" {
			if err := json.Unmarshal([]byte(optsCompatible.Variables), &opts.Variables); err != nil {
				return nil, fmt.Errorf("variables are not a JSON object: %w", err)
			}
		}
		return &opts, nil
	}
}

// matchesURL reports whether every GraphQL parameter present in the URL equals the one
// decoded from the body. fromURL is the request decoded from values, nil without a query.
func matchesURL(values url.Values, fromURL *guard.Request, req *guard.Request) bool {
	if values.Has("query") && values.Get("query") != req.Query {
		return false
	}
	if values.Has("operationName") && values.Get("operationName") != req.OperationName {
		return false
	}
	if values.Has("variables") {
		var vars map[string]interface{}
		if fromURL != nil {
			vars = fromURL.Variables
		} else if s := values.Get("variables"); s != "" {
			if err := json.Unmarshal([]byte(s), &vars); err != nil {
				return false
			}
		}
		if len(vars) != len(req.Variables) || (len(vars) > 0 && !reflect.DeepEqual(vars, req.Variables)) {
			return false
		}
	}
	return true
}
