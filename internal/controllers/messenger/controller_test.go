package messenger_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/isometry/messenger-echo-bot/internal/controllers/messenger"
	"github.com/isometry/messenger-echo-bot/internal/controllers/messenger/outbound"
	"github.com/isometry/messenger-echo-bot/internal/helpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSecretFetcher struct {
	value string
	err   error
	calls atomic.Int32
}

func (f *fakeSecretFetcher) GetSecret(_ context.Context, _ string, encrypted bool) (*string, error) {
	f.calls.Add(1)
	if !encrypted {
		return nil, errors.New("expected decryption")
	}
	if f.err != nil {
		return nil, f.err
	}
	return helpers.Ptr(f.value), nil
}

func TestController_Send(t *testing.T) {
	testCases := []struct {
		Name              string
		Status            int
		Response          string
		ExpectOK          bool
		ExpectedMessageID string
	}{
		{
			Name:              "success",
			Status:            http.StatusOK,
			Response:          `{"recipient_id":"1008372609250235","message_id":"mid.1456970487936:c34767dfe57ee6e339"}`,
			ExpectOK:          true,
			ExpectedMessageID: "mid.1456970487936:c34767dfe57ee6e339",
		},
		{
			Name:     "success_without_ids",
			Status:   http.StatusOK,
			Response: `{}`,
			ExpectOK: true,
		},
		{
			Name:     "rejected",
			Status:   http.StatusBadRequest,
			Response: `{"error":{"message":"Invalid OAuth access token.","code":190}}`,
		},
		{
			Name:     "malformed_success_body",
			Status:   http.StatusOK,
			Response: `not json`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			var received struct {
				Query       map[string][]string
				ContentType string
				Path        string
				Body        []byte
			}
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				received.Query = r.URL.Query()
				received.ContentType = r.Header.Get("Content-Type")
				received.Path = r.URL.Path
				received.Body, _ = io.ReadAll(r.Body)
				w.WriteHeader(tc.Status)
				_, _ = io.WriteString(w, tc.Response)
			}))
			defer srv.Close()

			ctl, err := messenger.NewController(
				messenger.WithGraphAPIBase(srv.URL+"/v2.6/"),
				messenger.WithCredentials(messenger.Credentials{PageAccessToken: "PAGE_TOKEN"}))
			require.NoError(t, err)

			msg, err := outbound.NewText("USER", "P: hi")
			require.NoError(t, err)

			result := ctl.Send(context.Background(), msg)
			assert.Equal(t, tc.ExpectOK, result.OK(), "unexpected error: %v", result.Err)
			assert.Equal(t, tc.Status, result.StatusCode)
			assert.Equal(t, tc.Response, result.Body)
			assert.Equal(t, tc.ExpectedMessageID, result.MessageID)

			assert.Equal(t, "/v2.6/me/messages", received.Path)
			assert.Equal(t, []string{"PAGE_TOKEN"}, received.Query["access_token"])
			assert.Equal(t, []string{"U"}, received.Query["date_format"])
			assert.Equal(t, "application/json", received.ContentType)
			assert.JSONEq(t, `{"recipient":{"id":"USER"},"message":{"text":"P: hi"}}`, string(received.Body))
		})
	}
}

func TestController_Send_TransportFailure(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}))
	defer srv.Close()
	defer close(release)

	ctl, err := messenger.NewController(
		messenger.WithGraphAPIBase(srv.URL),
		messenger.WithTimeout(50*time.Millisecond),
		messenger.WithCredentials(messenger.Credentials{PageAccessToken: "SECRET_TOKEN"}))
	require.NoError(t, err)

	msg, err := outbound.NewSenderAction("USER", outbound.TypingOn)
	require.NoError(t, err)

	result := ctl.Send(context.Background(), msg)
	require.False(t, result.OK())
	assert.Zero(t, result.StatusCode)
	assert.NotContains(t, result.Err.Error(), "SECRET_TOKEN")
}

func TestController_Send_MissingToken(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	ctl, err := messenger.NewController(messenger.WithGraphAPIBase(srv.URL))
	require.NoError(t, err)

	msg, err := outbound.NewText("USER", "hi")
	require.NoError(t, err)

	assert.False(t, ctl.Send(context.Background(), msg).OK())
	assert.False(t, ctl.Send(context.Background(), nil).OK())
	assert.Zero(t, calls.Load())
}

func TestController_Send_RateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{}`)
	}))
	defer srv.Close()

	ctl, err := messenger.NewController(
		messenger.WithGraphAPIBase(srv.URL),
		messenger.WithRateLimit(0.001),
		messenger.WithCredentials(messenger.Credentials{PageAccessToken: "T"}))
	require.NoError(t, err)

	msg, err := outbound.NewText("USER", "hi")
	require.NoError(t, err)

	require.True(t, ctl.Send(context.Background(), msg).OK())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.False(t, ctl.Send(ctx, msg).OK(), "second call must be throttled")
}

func TestController_RetrieveCredentials(t *testing.T) {
	testCases := []struct {
		Name        string
		Options     []messenger.Option
		Fetcher     *fakeSecretFetcher
		ExpectError bool
		ExpectedErr error
		Expected    messenger.Credentials
	}{
		{
			Name:    "token_mode",
			Options: []messenger.Option{messenger.WithCredentials(messenger.Credentials{PageAccessToken: "T"})},
			Expected: messenger.Credentials{
				PageAccessToken: "T",
			},
		},
		{
			Name:        "token_mode_missing_token",
			ExpectError: true,
			ExpectedErr: messenger.ErrMissingPageAccessToken,
		},
		{
			Name: "ssm_mode",
			Options: []messenger.Option{
				messenger.WithAuthMode("SSM"),
				messenger.WithSSMKey("/bot/creds"),
				messenger.WithCredentials(messenger.Credentials{VerifyToken: "static"}),
			},
			Fetcher:  &fakeSecretFetcher{value: `{"page_access_token":"T","app_secret":"S"}`},
			Expected: messenger.Credentials{PageAccessToken: "T", VerifyToken: "static", AppSecret: "S"},
		},
		{
			Name: "ssm_mode_without_page_token_keeps_app_secret",
			Options: []messenger.Option{
				messenger.WithAuthMode("ssm"),
				messenger.WithSSMKey("/bot/creds"),
			},
			Fetcher:     &fakeSecretFetcher{value: `{"app_secret":"S"}`},
			ExpectError: true,
			ExpectedErr: messenger.ErrMissingPageAccessToken,
			Expected:    messenger.Credentials{AppSecret: "S"},
		},
		{
			Name: "ssm_mode_invalid_document",
			Options: []messenger.Option{
				messenger.WithAuthMode("ssm"),
				messenger.WithSSMKey("/bot/creds"),
			},
			Fetcher:     &fakeSecretFetcher{value: `nope`},
			ExpectError: true,
		},
		{
			Name: "ssm_mode_fetch_failure",
			Options: []messenger.Option{
				messenger.WithAuthMode("ssm"),
				messenger.WithSSMKey("/bot/creds"),
			},
			Fetcher:     &fakeSecretFetcher{err: errors.New("denied")},
			ExpectError: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			opts := tc.Options
			if tc.Fetcher != nil {
				opts = append(opts, messenger.WithSecretFetcher(tc.Fetcher))
			}
			ctl, err := messenger.NewController(opts...)
			require.NoError(t, err)

			err = ctl.RetrieveCredentials(context.Background())
			if tc.ExpectError {
				assert.Error(t, err)
				if tc.ExpectedErr != nil {
					assert.ErrorIs(t, err, tc.ExpectedErr)
					assert.Equal(t, tc.Expected, ctl.Credentials())
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.Expected, ctl.Credentials())

			if tc.Fetcher != nil {
				require.NoError(t, ctl.RetrieveCredentials(context.Background()))
				assert.Equal(t, int32(1), tc.Fetcher.calls.Load(), "credentials must be cached")
			}
		})
	}
}

func TestNewController_InvalidAuthMode(t *testing.T) {
	_, err := messenger.NewController(messenger.WithAuthMode("vault"))
	assert.Error(t, err)

	_, err = messenger.NewController(messenger.WithAuthMode("ssm"))
	assert.Error(t, err, "ssm mode without key")
}
