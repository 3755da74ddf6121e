// Package validation provides functionality for validating webhook signatures to verify request authenticity.
package validation

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/pkg/errors"
)

// SignatureHeader carries the HMAC-SHA256 of the raw body, keyed with the app secret.
const SignatureHeader = "X-Hub-Signature-256"

const signaturePrefix = "sha256="

var (
	ErrMissingSignature = errors.New("missing HMAC-SHA256 signature")
	ErrInvalidSignature = errors.New("invalid HMAC-SHA256 signature")
)

// WebhookSecret represents a secret used to validate webhook signatures for verifying request authenticity.
type WebhookSecret string

// NewWebhookSecret returns nil for an empty secret, which disables validation.
func NewWebhookSecret(secret string) *WebhookSecret {
	if secret == "" {
		return nil
	}
	s := WebhookSecret(secret)
	return &s
}

// Enabled reports whether a secret is configured.
func (s *WebhookSecret) Enabled() bool {
	return s != nil && *s != ""
}

// ValidateSignature validates the HMAC-SHA256 signature of a webhook request using the provided body and lower-cased headers.
// A nil or empty secret accepts every request.
func (s *WebhookSecret) ValidateSignature(body []byte, headers map[string]string) error {
	if !s.Enabled() {
		return nil
	}
	signature, found := headers[strings.ToLower(SignatureHeader)]
	if !found || signature == "" {
		return ErrMissingSignature
	}
	hexDigest, ok := strings.CutPrefix(signature, signaturePrefix)
	if !ok {
		return errors.Wrap(ErrInvalidSignature, "unsupported signature format")
	}
	received, err := hex.DecodeString(hexDigest)
	if err != nil {
		return errors.Wrap(ErrInvalidSignature, "signature is not hex encoded")
	}
	if !hmac.Equal(received, Sign(body, string(*s))) {
		return ErrInvalidSignature
	}
	return nil
}

// Sign returns the HMAC-SHA256 of body keyed with secret.
func Sign(body []byte, secret string) []byte {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return mac.Sum(nil)
}

// SignatureHeaderValue formats the signature of body as sent by the platform.
func SignatureHeaderValue(body []byte, secret string) string {
	return signaturePrefix + hex.EncodeToString(Sign(body, secret))
}
