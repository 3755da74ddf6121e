package handler

import (
	"log/slog"

	"github.com/isometry/messenger-echo-bot/internal/controllers/messenger/event"
	"github.com/isometry/messenger-echo-bot/internal/echo"
	"github.com/isometry/messenger-echo-bot/internal/handler/processor"
	"github.com/isometry/messenger-echo-bot/internal/metrics"
)

// WithLogger sets the logger instance for the handler.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Handler) {
		h.logger = logger
	}
}

// WithMetrics records webhook and event outcomes on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(h *Handler) {
		h.metrics = m
	}
}

// WithMessenger sets the Send API client and credentials source.
func WithMessenger(m Messenger) Option {
	return func(h *Handler) {
		h.messenger = m
	}
}

// WithResponder sets the reply table used by the message, optin and postback processors.
func WithResponder(r *echo.Responder) Option {
	return func(h *Handler) {
		h.responder = r
	}
}

// WithAuthorizationCode sets the code appended to the account linking success redirect.
func WithAuthorizationCode(code string) Option {
	return func(h *Handler) {
		if code != "" {
			h.authorizationCode = code
		}
	}
}

// WithEnabledEvents restricts the event categories the handler acts on.
func WithEnabledEvents(categories ...string) Option {
	return func(h *Handler) {
		h.enabledEvents = make([]event.Category, len(categories))
		for i, c := range categories {
			h.enabledEvents[i] = event.Category(c)
		}
	}
}

// WithS3Upload archives every processed payload through archiver when enabled.
func WithS3Upload(archiver processor.Archiver, enabled bool, bucket string) Option {
	return func(h *Handler) {
		h.archiver = archiver
		h.s3UploadEnabled = enabled
		h.s3UploadBucket = bucket
	}
}
