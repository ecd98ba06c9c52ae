// Package relay serves the guard as an HTTP gateway in front of a GraphQL server.
package relay

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"time"

	"github.com/segmentio/ksuid"

	guard "github.com/graph-gophers/graphql-guard"
	"github.com/graph-gophers/graphql-guard/errors"
	guardctx "github.com/graph-gophers/graphql-guard/internal/context"
	"github.com/graph-gophers/graphql-guard/log"
	"github.com/graph-gophers/graphql-guard/metric"
	"github.com/graph-gophers/graphql-guard/ratelimit"
	"github.com/graph-gophers/graphql-guard/ratelimit/noop"
	"github.com/graph-gophers/graphql-guard/stats"
)

// RequestIDHeader carries the request ID. A client supplied value is kept, otherwise a
// KSUID is generated. It is forwarded upstream and echoed in the response.
const RequestIDHeader = "X-Request-Id"

const defaultMaxBodyBytes = 1 << 20

type Handler struct {
	limiter      *guard.Limiter
	upstream     http.Handler
	rateLimiter  ratelimit.RateLimiter
	keyFunc      ratelimit.KeyFunc
	stats        stats.Store
	logger       log.Logger
	panicHandler errors.PanicHandler
	metrics      *metric.Metrics
	maxBodyBytes int64
	pretty       bool
}

type Config struct {
	Limiter *guard.Limiter

	// Upstream receives the accepted requests, usually a NewReverseProxy.
	Upstream http.Handler

	RateLimiter  ratelimit.RateLimiter
	KeyFunc      ratelimit.KeyFunc
	Stats        stats.Store
	Logger       log.Logger
	PanicHandler errors.PanicHandler
	Metrics      *metric.Metrics
	MaxBodyBytes int64
	Pretty       bool
}

func New(p *Config) *Handler {
	if p == nil || p.Limiter == nil {
		panic("relay: undefined limiter")
	}
	if p.Upstream == nil {
		panic("relay: undefined upstream")
	}

	h := &Handler{
		limiter:      p.Limiter,
		upstream:     p.Upstream,
		rateLimiter:  p.RateLimiter,
		keyFunc:      p.KeyFunc,
		stats:        p.Stats,
		logger:       p.Logger,
		panicHandler: p.PanicHandler,
		metrics:      p.Metrics,
		maxBodyBytes: p.MaxBodyBytes,
		pretty:       p.Pretty,
	}
	if h.rateLimiter == nil {
		h.rateLimiter = &noop.RateLimiter{}
	}
	if h.keyFunc == nil {
		h.keyFunc = ratelimit.DefaultKeyFunc("", false)
	}
	if h.stats == nil {
		h.stats = stats.Nop{}
	}
	if h.logger == nil {
		h.logger = log.Nop{}
	}
	if h.panicHandler == nil {
		h.panicHandler = &errors.DefaultPanicHandler{}
	}
	if h.maxBodyBytes <= 0 {
		h.maxBodyBytes = defaultMaxBodyBytes
	}
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id := r.Header.Get(RequestIDHeader)
	if id == "" {
		id = ksuid.New().String()
		r.Header.Set(RequestIDHeader, id)
	}
	w.Header().Set(RequestIDHeader, id)
	ctx := guardctx.WithRequestID(r.Context(), id)

	defer func() {
		if value := recover(); value != nil {
			if value == http.ErrAbortHandler {
				panic(value)
			}
			h.logger.LogPanic(ctx, value)
			writeErrors(w, http.StatusInternalServerError, h.pretty, []*errors.QueryError{h.panicHandler.MakePanicError(ctx, value)})
		}
	}()

	key := h.keyFunc(r)
	if h.rateLimiter.LimitQuery(ctx, key) {
		if h.metrics != nil {
			h.metrics.RateLimitedTotal.Inc()
		}
		h.record(ctx, stats.Event{Outcome: stats.OutcomeRateLimited, Client: key})
		w.Header().Set("Retry-After", "1")
		writeErrors(w, http.StatusTooManyRequests, h.pretty, []*errors.QueryError{errors.Errorf("rate limit exceeded")})
		return
	}

	body, err := readBody(w, r, h.maxBodyBytes)
	if err != nil {
		status := http.StatusBadRequest
		var maxErr *http.MaxBytesError
		if stderrors.As(err, &maxErr) {
			status = http.StatusRequestEntityTooLarge
		}
		writeErrors(w, status, h.pretty, []*errors.QueryError{errors.Errorf("could not read request body: %v", err)})
		return
	}

	req, err := NewRequestOptions(r, body)
	if err != nil {
		writeErrors(w, http.StatusBadRequest, h.pretty, []*errors.QueryError{errors.Errorf("%v", err)})
		return
	}
	ctx = guardctx.WithOperationName(ctx, req.OperationName)

	if errs := h.limiter.Check(ctx, *req); len(errs) > 0 {
		rules := make([]string, 0, len(errs))
		for _, err := range errs {
			rules = append(rules, err.Rule)
		}
		h.record(ctx, stats.Event{Outcome: stats.OutcomeRejected, Rules: rules, Client: key, Operation: req.OperationName})
		writeErrors(w, http.StatusOK, h.pretty, errs)
		return
	}
	h.record(ctx, stats.Event{Outcome: stats.OutcomeAccepted, Client: key, Operation: req.OperationName})

	r = r.WithContext(ctx)
	if body != nil {
		r.Body = io.NopCloser(bytes.NewReader(body))
		r.ContentLength = int64(len(body))
	}
	h.upstream.ServeHTTP(w, r)
}

func (h *Handler) record(ctx context.Context, ev stats.Event) {
	ev.At = time.Now()
	if err := h.stats.Record(ctx, ev); err != nil {
		h.logger.LogError(ctx, "recording stats failed", err)
	}
}

func readBody(w http.ResponseWriter, r *http.Request, limit int64) ([]byte, error) {
	if r.Body == nil || r.Body == http.NoBody {
		return nil, nil
	}
	defer r.Body.Close()
	return io.ReadAll(http.MaxBytesReader(w, r.Body, limit))
}

// Response is the body written for requests the guard does not forward.
type Response struct {
	Errors []*errors.QueryError `json:"errors"`
}

func writeErrors(w http.ResponseWriter, status int, pretty bool, errs []*errors.QueryError) {
	var (
		responseJSON []byte
		err          error
	)
	if pretty {
		responseJSON, err = json.MarshalIndent(Response{Errors: errs}, "", "\t")
	} else {
		responseJSON, err = json.Marshal(Response{Errors: errs})
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", ContentTypeJSON)
	w.WriteHeader(status)
	w.Write(responseJSON)
}
