// Package runtime exposes the webhook handler over HTTP and AWS Lambda.
package runtime

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/isometry/messenger-echo-bot/internal/helpers"
	"github.com/isometry/messenger-echo-bot/internal/models"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	routeWebhook   = "/webhook"
	routeAuthorize = "/authorize"
	routeHealth    = "/healthz"
	routeMetrics   = "/metrics"
	routeAssets    = "/assets"
)

// Handler is the transport-agnostic set of operations served by the runtime.
type Handler interface {
	Verify(ctx context.Context, req models.Request) models.Response
	Process(ctx context.Context, req models.Request) (models.Response, error)
	Authorize(ctx context.Context, req models.Request) (models.Response, error)
}

// Option is a functional option used to configure a Runtime instance.
type Option func(*Runtime)

// WithLogger sets the runtime logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runtime) {
		r.logger = logger
	}
}

// WithPathPrefix serves every route below prefix.
func WithPathPrefix(prefix string) Option {
	return func(r *Runtime) {
		r.pathPrefix = prefix
	}
}

// WithAssetsDir serves the files of dir under /assets/.
func WithAssetsDir(dir string) Option {
	return func(r *Runtime) {
		r.assetsDir = dir
	}
}

// WithMetricsGatherer exposes g on /metrics.
func WithMetricsGatherer(g prometheus.Gatherer) Option {
	return func(r *Runtime) {
		r.gatherer = g
	}
}

// WithLambdaPayloadType selects the event format accepted by the Lambda entrypoint.
func WithLambdaPayloadType(payloadType string) Option {
	return func(r *Runtime) {
		r.lambdaPayloadType = payloadType
	}
}

// Runtime adapts a Handler to HTTP servers and Lambda invocations.
type Runtime struct {
	handler Handler
	logger  *slog.Logger

	pathPrefix        string
	assetsDir         string
	gatherer          prometheus.Gatherer
	lambdaPayloadType string
}

// NewRuntime creates a new runtime instance
func NewRuntime(handler Handler, opts ...Option) *Runtime {
	_inst := &Runtime{handler: handler, lambdaPayloadType: PayloadAPIGatewayV2}
	for _, opt := range opts {
		opt(_inst)
	}
	if _inst.logger == nil {
		_inst.logger = helpers.NewNoopLogger()
	}
	_inst.pathPrefix = "/" + strings.Trim(_inst.pathPrefix, "/")
	return _inst
}

// route dispatches a request by method and path, relative to the path prefix.
func (r *Runtime) route(ctx context.Context, req models.Request) (models.Response, error) {
	path := strings.TrimPrefix(req.Path, strings.TrimSuffix(r.pathPrefix, "/"))
	if path == "" {
		path = "/"
	}
	if path != "/" {
		path = strings.TrimSuffix(path, "/")
	}

	switch path {
	case routeWebhook:
		switch req.Method {
		case http.MethodGet:
			return r.handler.Verify(ctx, req), nil
		case http.MethodPost:
			return r.handler.Process(ctx, req)
		}
	case routeAuthorize:
		if req.Method == http.MethodGet {
			return r.handler.Authorize(ctx, req)
		}
	case routeHealth:
		if req.Method == http.MethodGet {
			return models.Response{Body: "ok", StatusCode: http.StatusOK}, nil
		}
	default:
		return models.Response{Body: http.StatusText(http.StatusNotFound), StatusCode: http.StatusNotFound}, nil
	}
	return models.Response{Body: http.StatusText(http.StatusMethodNotAllowed), StatusCode: http.StatusMethodNotAllowed}, nil
}
