package runtime_test

import (
	"context"
	"encoding/base64"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/isometry/messenger-echo-bot/internal/models"
	"github.com/isometry/messenger-echo-bot/internal/runtime"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubHandler struct {
	lastRequest models.Request
	processErr  error
}

func (s *stubHandler) Verify(_ context.Context, req models.Request) models.Response {
	s.lastRequest = req
	return models.Response{Body: "verify:" + req.Query.Get("hub.challenge"), StatusCode: http.StatusOK}
}

func (s *stubHandler) Process(_ context.Context, req models.Request) (models.Response, error) {
	s.lastRequest = req
	if s.processErr != nil {
		return models.Response{Body: "failed", StatusCode: http.StatusInternalServerError}, s.processErr
	}
	return models.Response{Body: "process:" + string(req.Body), StatusCode: http.StatusOK}, nil
}

func (s *stubHandler) Authorize(_ context.Context, req models.Request) (models.Response, error) {
	s.lastRequest = req
	return models.Response{Body: "authorize", StatusCode: http.StatusOK}, nil
}

func do(t *testing.T, h http.Handler, method, target, body string) (int, string, http.Header) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	raw, err := io.ReadAll(rec.Result().Body)
	require.NoError(t, err)
	return rec.Code, string(raw), rec.Result().Header
}

func TestRouter(t *testing.T) {
	testCases := []struct {
		Name       string
		Prefix     string
		Method     string
		Target     string
		Body       string
		WantStatus int
		WantBody   string
	}{
		{Name: "verify", Method: http.MethodGet, Target: "/webhook?hub.challenge=abc", WantStatus: http.StatusOK, WantBody: "verify:abc"},
		{Name: "process", Method: http.MethodPost, Target: "/webhook", Body: `{"object":"page"}`, WantStatus: http.StatusOK, WantBody: `process:{"object":"page"}`},
		{Name: "authorize", Method: http.MethodGet, Target: "/authorize?redirect_uri=x", WantStatus: http.StatusOK, WantBody: "authorize"},
		{Name: "health", Method: http.MethodGet, Target: "/healthz", WantStatus: http.StatusOK, WantBody: "ok"},
		{Name: "unknown route", Method: http.MethodGet, Target: "/nope", WantStatus: http.StatusNotFound},
		{Name: "wrong method", Method: http.MethodDelete, Target: "/webhook", WantStatus: http.StatusMethodNotAllowed},
		{Name: "prefixed verify", Prefix: "/bot", Method: http.MethodGet, Target: "/bot/webhook?hub.challenge=xyz", WantStatus: http.StatusOK, WantBody: "verify:xyz"},
		{Name: "prefixed route outside prefix", Prefix: "/bot/", Method: http.MethodGet, Target: "/webhook", WantStatus: http.StatusNotFound},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			rt := runtime.NewRuntime(&stubHandler{}, runtime.WithPathPrefix(tc.Prefix))
			status, body, _ := do(t, rt.Router(), tc.Method, tc.Target, tc.Body)
			assert.Equal(t, tc.WantStatus, status)
			if tc.WantBody != "" {
				assert.Equal(t, tc.WantBody, body)
			}
		})
	}
}

func TestRouter_RequestHeaders(t *testing.T) {
	stub := &stubHandler{}
	router := runtime.NewRuntime(stub).Router()

	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader("{}"))
	req.Header.Set("X-Hub-Signature-256", "sha256=abc")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, "sha256=abc", stub.lastRequest.Headers["x-hub-signature-256"])
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestRouter_ProcessError(t *testing.T) {
	stub := &stubHandler{processErr: errors.New("boom")}
	status, body, _ := do(t, runtime.NewRuntime(stub).Router(), http.MethodPost, "/webhook", "{}")
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "failed", body)
}

func TestRouter_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "runtime_test_total", Help: "test"})
	reg.MustRegister(counter)
	counter.Inc()

	router := runtime.NewRuntime(&stubHandler{}, runtime.WithMetricsGatherer(reg)).Router()
	status, body, _ := do(t, router, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "runtime_test_total 1")
}

func TestRouter_Assets(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "rift.png"), []byte("png"), 0o600))

	testCases := []struct {
		Name   string
		Prefix string
		Target string
	}{
		{Name: "root", Target: "/assets/rift.png"},
		{Name: "prefixed", Prefix: "/bot", Target: "/bot/assets/rift.png"},
	}
	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			router := runtime.NewRuntime(&stubHandler{}, runtime.WithAssetsDir(dir), runtime.WithPathPrefix(tc.Prefix)).Router()
			status, body, _ := do(t, router, http.MethodGet, tc.Target, "")
			assert.Equal(t, http.StatusOK, status)
			assert.Equal(t, "png", body)
		})
	}
}

func TestHandleAPIGatewayV2(t *testing.T) {
	testCases := []struct {
		Name       string
		Event      events.APIGatewayV2HTTPRequest
		WantStatus int
		WantBody   string
	}{
		{
			Name: "plain body",
			Event: events.APIGatewayV2HTTPRequest{
				RawPath:        "/webhook",
				Body:           `{"object":"page"}`,
				RequestContext: events.APIGatewayV2HTTPRequestContext{HTTP: events.APIGatewayV2HTTPRequestContextHTTPDescription{Method: http.MethodPost}},
			},
			WantStatus: http.StatusOK,
			WantBody:   `process:{"object":"page"}`,
		},
		{
			Name: "base64 body",
			Event: events.APIGatewayV2HTTPRequest{
				RawPath:         "/webhook",
				Body:            base64.StdEncoding.EncodeToString([]byte(`{"a":1}`)),
				IsBase64Encoded: true,
				RequestContext:  events.APIGatewayV2HTTPRequestContext{HTTP: events.APIGatewayV2HTTPRequestContextHTTPDescription{Method: http.MethodPost}},
			},
			WantStatus: http.StatusOK,
			WantBody:   `process:{"a":1}`,
		},
		{
			Name: "invalid base64",
			Event: events.APIGatewayV2HTTPRequest{
				RawPath:         "/webhook",
				Body:            "!!!",
				IsBase64Encoded: true,
				RequestContext:  events.APIGatewayV2HTTPRequestContext{HTTP: events.APIGatewayV2HTTPRequestContextHTTPDescription{Method: http.MethodPost}},
			},
			WantStatus: http.StatusBadRequest,
		},
		{
			Name: "verify query",
			Event: events.APIGatewayV2HTTPRequest{
				RawPath:        "/webhook",
				RawQueryString: "hub.mode=subscribe&hub.challenge=42",
				RequestContext: events.APIGatewayV2HTTPRequestContext{HTTP: events.APIGatewayV2HTTPRequestContextHTTPDescription{Method: http.MethodGet}},
			},
			WantStatus: http.StatusOK,
			WantBody:   "verify:42",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			rt := runtime.NewRuntime(&stubHandler{})
			resp, err := rt.HandleAPIGatewayV2(context.Background(), tc.Event)
			require.NoError(t, err)
			assert.Equal(t, tc.WantStatus, resp.StatusCode)
			if tc.WantBody != "" {
				assert.Equal(t, tc.WantBody, resp.Body)
			}
		})
	}
}

func TestHandleAPIGatewayV1(t *testing.T) {
	stub := &stubHandler{}
	rt := runtime.NewRuntime(stub)
	resp, err := rt.HandleAPIGatewayV1(context.Background(), events.APIGatewayProxyRequest{
		HTTPMethod:            http.MethodGet,
		Path:                  "/webhook",
		QueryStringParameters: map[string]string{"hub.challenge": "v1"},
		Headers:               map[string]string{"X-Custom": "yes"},
	})
	require.NoError(t, err)
	assert.Equal(t, "verify:v1", resp.Body)
	assert.Equal(t, "yes", stub.lastRequest.Headers["x-custom"])
}

func TestHandleFunctionURL(t *testing.T) {
	rt := runtime.NewRuntime(&stubHandler{})
	resp, err := rt.HandleFunctionURL(context.Background(), events.LambdaFunctionURLRequest{
		RawPath:        "/healthz",
		RequestContext: events.LambdaFunctionURLRequestContext{HTTP: events.LambdaFunctionURLRequestContextHTTPDescription{Method: http.MethodGet}},
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", resp.Body)
}

func TestLambdaHandler(t *testing.T) {
	testCases := []struct {
		Name        string
		PayloadType string
		ExpectError bool
	}{
		{Name: "default", PayloadType: ""},
		{Name: "api gateway v2", PayloadType: runtime.PayloadAPIGatewayV2},
		{Name: "api gateway v1", PayloadType: runtime.PayloadAPIGatewayV1},
		{Name: "function url", PayloadType: runtime.PayloadFunctionURL},
		{Name: "unsupported", PayloadType: "alb", ExpectError: true},
	}
	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			h, err := runtime.NewRuntime(&stubHandler{}, runtime.WithLambdaPayloadType(tc.PayloadType)).LambdaHandler()
			if tc.ExpectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, h)
		})
	}
}
