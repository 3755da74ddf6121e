package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/isometry/messenger-echo-bot/internal/models"
)

const (
	hubModeSubscribe = "subscribe"

	verifyMismatchBody = "Verification token mismatch"
	verifyDefaultBody  = "Hello world"
)

// Verify answers the webhook subscription handshake.
// The challenge is echoed back only when the verify token matches the configured one;
// an unconfigured verify token never matches.
func (h *Handler) Verify(ctx context.Context, req models.Request) models.Response {
	mode := req.Query.Get("hub.mode")
	challenge := req.Query.Get("hub.challenge")
	if mode != hubModeSubscribe || challenge == "" {
		return textResponse(http.StatusOK, verifyDefaultBody)
	}

	if err := h.messenger.RetrieveCredentials(ctx); err != nil {
		h.logger.Warn("failed to retrieve credentials", slog.Any("error", err))
	}
	expected := h.messenger.Credentials().VerifyToken
	if expected == "" || req.Query.Get("hub.verify_token") != expected {
		h.logger.Warn("rejecting webhook subscription", slog.String("reason", "verify token mismatch"))
		return textResponse(http.StatusForbidden, verifyMismatchBody)
	}

	h.logger.Info("webhook subscription verified")
	return textResponse(http.StatusOK, challenge)
}

func textResponse(status int, body string) models.Response {
	return models.Response{
		Body:       body,
		StatusCode: status,
		Headers:    map[string]string{"Content-Type": "text/plain; charset=utf-8"},
	}
}
