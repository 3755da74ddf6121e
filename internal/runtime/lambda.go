package runtime

import (
	"context"
	"encoding/base64"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/isometry/messenger-echo-bot/internal/models"
	"github.com/pkg/errors"
)

// Lambda payload types.
const (
	PayloadAPIGatewayV2 = "api-gateway-v2"
	PayloadAPIGatewayV1 = "api-gateway-v1"
	PayloadFunctionURL  = "function-url"
)

// PayloadTypes lists the supported Lambda payload types.
var PayloadTypes = []string{PayloadAPIGatewayV2, PayloadAPIGatewayV1, PayloadFunctionURL}

// LambdaHandler returns the Lambda entrypoint matching the configured payload type.
func (r *Runtime) LambdaHandler() (any, error) {
	switch r.lambdaPayloadType {
	case PayloadAPIGatewayV2, "":
		return r.HandleAPIGatewayV2, nil
	case PayloadAPIGatewayV1:
		return r.HandleAPIGatewayV1, nil
	case PayloadFunctionURL:
		return r.HandleFunctionURL, nil
	default:
		return nil, errors.Errorf("unsupported lambda payload type %q (expected one of %s)", r.lambdaPayloadType, strings.Join(PayloadTypes, ", "))
	}
}

// HandleAPIGatewayV2 serves an API Gateway HTTP API (payload format 2.0) event.
func (r *Runtime) HandleAPIGatewayV2(ctx context.Context, event events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	resp := r.invoke(ctx, event.RequestContext.HTTP.Method, event.RawPath, event.RawQueryString, event.Headers, event.Body, event.IsBase64Encoded)
	return events.APIGatewayV2HTTPResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Headers,
		Body:       resp.Body,
	}, nil
}

// HandleFunctionURL serves a Lambda function URL event.
func (r *Runtime) HandleFunctionURL(ctx context.Context, event events.LambdaFunctionURLRequest) (events.LambdaFunctionURLResponse, error) {
	resp := r.invoke(ctx, event.RequestContext.HTTP.Method, event.RawPath, event.RawQueryString, event.Headers, event.Body, event.IsBase64Encoded)
	return events.LambdaFunctionURLResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Headers,
		Body:       resp.Body,
	}, nil
}

// HandleAPIGatewayV1 serves an API Gateway REST API (payload format 1.0) event.
func (r *Runtime) HandleAPIGatewayV1(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	query := url.Values{}
	for k, v := range event.QueryStringParameters {
		query.Set(k, v)
	}
	for k, vs := range event.MultiValueQueryStringParameters {
		query[k] = vs
	}
	resp := r.invoke(ctx, event.HTTPMethod, event.Path, query.Encode(), event.Headers, event.Body, event.IsBase64Encoded)
	return events.APIGatewayProxyResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Headers,
		Body:       resp.Body,
	}, nil
}

func (r *Runtime) invoke(ctx context.Context, method, path, rawQuery string, headers map[string]string, body string, isBase64 bool) models.Response {
	logger := r.logger.With(slog.String("method", method), slog.String("path", path))
	logger.Debug("received lambda event...")

	payload := []byte(body)
	if isBase64 {
		decoded, err := base64.StdEncoding.DecodeString(body)
		if err != nil {
			logger.Error("failed to decode base64 body", slog.Any("error", err))
			return models.Response{Body: "unreadable body", StatusCode: http.StatusBadRequest}
		}
		payload = decoded
	}

	query, err := url.ParseQuery(rawQuery)
	if err != nil {
		logger.Warn("failed to parse query string", slog.Any("error", err))
	}

	lowered := make(map[string]string, len(headers))
	for k, v := range headers {
		lowered[strings.ToLower(k)] = v
	}

	resp, err := r.route(ctx, models.Request{
		Method:  method,
		Path:    path,
		Query:   query,
		Body:    payload,
		Headers: lowered,
	})
	if err != nil {
		logger.Warn("request failed", slog.Any("error", err), slog.Int("status", resp.StatusCode))
	}
	return resp
}
