package relay

import (
	"net/http"
	"net/http/httputil"
	"net/url"

	"go.uber.org/zap"

	"github.com/graph-gophers/graphql-guard/errors"
	guardctx "github.com/graph-gophers/graphql-guard/internal/context"
	"github.com/graph-gophers/graphql-guard/metric"
)

// NewReverseProxy forwards accepted requests to target. The request path is appended to
// the path of target. Failures to reach the upstream are logged, counted when m is not nil
// and answered with 502 and a GraphQL error body.
func NewReverseProxy(target *url.URL, logger *zap.Logger, m *metric.Metrics) *httputil.ReverseProxy {
	return &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			pr.SetURL(target)
			pr.SetXForwarded()
		},
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			id, _ := guardctx.RequestID(r.Context())
			logger.Error("proxy error", zap.String("request_id", id), zap.String("upstream", target.Redacted()), zap.Error(err))
			if m != nil {
				m.UpstreamErrors.Inc()
			}
			writeErrors(w, http.StatusBadGateway, false, []*errors.QueryError{errors.Errorf("bad gateway")})
		},
	}
}
