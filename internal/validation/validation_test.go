package validation_test

import (
	"strings"
	"testing"

	"github.com/isometry/messenger-echo-bot/internal/validation"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestWebhookSecret_ValidateSignature(t *testing.T) {
	header := strings.ToLower(validation.SignatureHeader)
	body := `{"key": "value"}`

	testCases := []struct {
		Name        string
		Secret      string
		Headers     map[string]string
		Body        string
		ExpectedErr error
	}{
		{
			Name:        "missing_signature",
			Secret:      "key",
			Headers:     map[string]string{},
			ExpectedErr: validation.ErrMissingSignature,
		},
		{
			Name:        "invalid_signature_format",
			Secret:      "key",
			Headers:     map[string]string{header: "sha1=abcdef"},
			ExpectedErr: validation.ErrInvalidSignature,
		},
		{
			Name:        "invalid_signature_encoding",
			Secret:      "key",
			Headers:     map[string]string{header: "sha256=zz"},
			ExpectedErr: validation.ErrInvalidSignature,
		},
		{
			Name:        "invalid_signature_sha256",
			Secret:      "key",
			Headers:     map[string]string{header: "sha256=844d7743b13e1bdd66b003c29ebe5184dcf985434dde9f125952595cd533213e"},
			Body:        body,
			ExpectedErr: validation.ErrInvalidSignature,
		},
		{
			Name:    "valid_signature_sha256",
			Secret:  "key",
			Headers: map[string]string{header: "sha256=bc7daef0d3e3b227f6f1dd1b6e8ee0711a94bfd6a61ca28ec3c4aa22a33d27d8"},
			Body:    body,
		},
		{
			Name:    "disabled",
			Headers: map[string]string{},
			Body:    body,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			err := validation.NewWebhookSecret(tc.Secret).ValidateSignature([]byte(tc.Body), tc.Headers)
			if tc.ExpectedErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, tc.ExpectedErr), "unexpected error: %v", err)
		})
	}
}

func TestSignatureHeaderValue(t *testing.T) {
	body := []byte(`{"object":"page"}`)
	value := validation.SignatureHeaderValue(body, "s3cr3t")

	secret := validation.NewWebhookSecret("s3cr3t")
	assert.True(t, secret.Enabled())
	assert.NoError(t, secret.ValidateSignature(body, map[string]string{"x-hub-signature-256": value}))
	assert.False(t, validation.NewWebhookSecret("").Enabled())
}
