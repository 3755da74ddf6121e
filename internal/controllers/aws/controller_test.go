package aws_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/isometry/messenger-echo-bot/internal/controllers/aws"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedRequest struct {
	Method string
	Path   string
	Target string
	Body   string
}

func newTestController(t *testing.T, handler http.HandlerFunc) (*aws.Controller, *[]recordedRequest) {
	t.Helper()
	var (
		mu       sync.Mutex
		recorded []recordedRequest
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		recorded = append(recorded, recordedRequest{
			Method: r.Method,
			Path:   r.URL.Path,
			Target: r.Header.Get("X-Amz-Target"),
			Body:   string(body),
		})
		mu.Unlock()
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	cfg := sdkaws.Config{
		Region:           "eu-west-1",
		BaseEndpoint:     sdkaws.String(srv.URL),
		HTTPClient:       srv.Client(),
		RetryMaxAttempts: 1,
		Credentials: sdkaws.CredentialsProviderFunc(func(context.Context) (sdkaws.Credentials, error) {
			return sdkaws.Credentials{AccessKeyID: "AKID", SecretAccessKey: "SECRET", Source: "test"}, nil
		}),
	}
	ctl, err := aws.NewController(context.Background(), aws.WithConfig(cfg), aws.WithS3UsePathStyle(true))
	require.NoError(t, err)
	return ctl, &recorded
}

func TestController_GetSecret(t *testing.T) {
	testCases := []struct {
		Name        string
		Status      int
		Response    string
		Expected    string
		ExpectError bool
	}{
		{
			Name:     "ok",
			Status:   http.StatusOK,
			Response: `{"Parameter":{"Name":"/bot/creds","Type":"SecureString","Value":"{\"page_access_token\":\"T\"}"}}`,
			Expected: `{"page_access_token":"T"}`,
		},
		{
			Name:        "not_found",
			Status:      http.StatusBadRequest,
			Response:    `{"__type":"ParameterNotFound","message":"not found"}`,
			ExpectError: true,
		},
		{
			Name:        "empty_parameter",
			Status:      http.StatusOK,
			Response:    `{}`,
			ExpectError: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			ctl, recorded := newTestController(t, func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "application/x-amz-json-1.1")
				w.WriteHeader(tc.Status)
				_, _ = io.WriteString(w, tc.Response)
			})

			value, err := ctl.GetSecret(context.Background(), "/bot/creds", true)
			require.NotEmpty(t, *recorded)
			assert.Equal(t, "AmazonSSM.GetParameter", (*recorded)[0].Target)
			assert.Contains(t, (*recorded)[0].Body, `"WithDecryption":true`)
			if tc.ExpectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.Expected, *value)
		})
	}
}

func TestController_PutS3Object(t *testing.T) {
	ctl, recorded := newTestController(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	require.NoError(t, ctl.PutS3Object(context.Background(), "page", "", []byte(`{}`)))
	assert.Empty(t, *recorded, "empty bucket must not issue a request")

	require.NoError(t, ctl.PutS3Object(context.Background(), "page", "archive", []byte(`{"object":"page"}`)))
	require.Len(t, *recorded, 1)
	req := (*recorded)[0]
	assert.Equal(t, http.MethodPut, req.Method)
	assert.True(t, strings.HasPrefix(req.Path, "/archive/"), req.Path)
	assert.True(t, strings.HasSuffix(req.Path, ".page"), req.Path)
	assert.Contains(t, req.Body, `{"object":"page"}`)
}

func TestController_PutS3Object_Error(t *testing.T) {
	ctl, _ := newTestController(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/xml")
		w.WriteHeader(http.StatusForbidden)
		_, _ = io.WriteString(w, `<Error><Code>AccessDenied</Code><Message>denied</Message></Error>`)
	})

	err := ctl.PutS3Object(context.Background(), "page", "archive", []byte(`{}`))
	assert.ErrorContains(t, err, "failed to put object to S3")
}
