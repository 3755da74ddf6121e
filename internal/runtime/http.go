package runtime

import (
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/isometry/messenger-echo-bot/internal/helpers"
	"github.com/isometry/messenger-echo-bot/internal/models"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// maxBodyBytes bounds a webhook payload. Batched deliveries stay well below it.
const maxBodyBytes = 5 << 20

// Router returns the HTTP handler serving every route of the runtime.
func (r *Runtime) Router() http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.RealIP)
	router.Use(requestLogger(r.logger))
	router.Use(middleware.Recoverer)

	routes := func(rt chi.Router) {
		rt.Get(routeWebhook, r.ServeHTTP)
		rt.Post(routeWebhook, r.ServeHTTP)
		rt.Get(routeAuthorize, r.ServeHTTP)
		rt.Get(routeHealth, r.ServeHTTP)
		if r.gatherer != nil {
			rt.Handle(routeMetrics, promhttp.HandlerFor(r.gatherer, promhttp.HandlerOpts{}))
		}
		if r.assetsDir != "" {
			prefix := strings.TrimSuffix(r.pathPrefix, "/") + routeAssets + "/"
			rt.Handle(routeAssets+"/*", http.StripPrefix(prefix, http.FileServer(http.Dir(r.assetsDir))))
		}
	}
	if r.pathPrefix == "/" {
		routes(router)
	} else {
		router.Route(r.pathPrefix, routes)
	}
	return router
}

// ServeHTTP is the HTTP handler for the runtime
func (r *Runtime) ServeHTTP(resp http.ResponseWriter, req *http.Request) {
	r.logger.Debug("received HTTP request...", slog.String("requestor", req.RemoteAddr), slog.String("method", req.Method), slog.String("path", req.URL.Path))

	body, err := io.ReadAll(http.MaxBytesReader(resp, req.Body, maxBodyBytes))
	if err != nil {
		r.logger.Error("failed to read request body", slog.Any("error", err))
		helpers.RespondHTTP(models.Response{Body: "unreadable body", StatusCode: http.StatusBadRequest}, resp)
		return
	}

	result, err := r.route(req.Context(), models.Request{
		Method:  req.Method,
		Path:    req.URL.Path,
		Query:   req.URL.Query(),
		Body:    body,
		Headers: helpers.LowerHeaders(req.Header),
	})
	if err != nil {
		r.logger.Warn("request failed", slog.Any("error", err), slog.Int("status", result.StatusCode))
	}
	helpers.RespondHTTP(result, resp)
}

// requestLogger emits structured logs for every HTTP request.
func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			reqID := r.Header.Get("X-Request-ID")
			if reqID == "" {
				reqID = uuid.NewString()
			}
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			ww.Header().Set("X-Request-ID", reqID)
			next.ServeHTTP(ww, r)
			logger.Info("request completed",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.String("requestID", reqID),
				slog.String("remoteIP", r.RemoteAddr),
				slog.Int("status", ww.Status()),
				slog.Int64("durationMs", time.Since(start).Milliseconds()),
			)
		})
	}
}
