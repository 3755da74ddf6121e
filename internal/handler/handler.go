// Package handler implements the transport-agnostic webhook, verification and account linking operations.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/isometry/messenger-echo-bot/internal/controllers/messenger"
	"github.com/isometry/messenger-echo-bot/internal/controllers/messenger/event"
	"github.com/isometry/messenger-echo-bot/internal/echo"
	"github.com/isometry/messenger-echo-bot/internal/handler/processor"
	"github.com/isometry/messenger-echo-bot/internal/helpers"
	"github.com/isometry/messenger-echo-bot/internal/metrics"
	"github.com/isometry/messenger-echo-bot/internal/models"
	"github.com/pkg/errors"
)

// DefaultAuthorizationCode is handed to the platform on successful account linking.
const DefaultAuthorizationCode = "1234567890"

// Messenger is the subset of the Messenger controller the handler depends on.
type Messenger interface {
	processor.Sender
	processor.CredentialsProvider
	RetrieveCredentials(ctx context.Context) error
}

// Option is a functional option used to configure a Handler instance.
type Option func(*Handler)

// Handler processes webhook requests.
type Handler struct {
	logger  *slog.Logger
	metrics *metrics.Metrics

	messenger Messenger
	archiver  processor.Archiver
	responder *echo.Responder

	authorizationCode string
	enabledEvents     []event.Category
	s3UploadEnabled   bool
	s3UploadBucket    string

	preProcessors  []processor.Processor
	postProcessors []processor.Processor

	optinProcessor          processor.Processor
	messageProcessor        processor.Processor
	deliveryProcessor       processor.Processor
	postbackProcessor       processor.Processor
	readProcessor           processor.Processor
	accountLinkingProcessor processor.Processor
}

// NewHandler creates a Handler. A Messenger client is required.
func NewHandler(options ...Option) (*Handler, error) {
	_inst := &Handler{
		authorizationCode: DefaultAuthorizationCode,
		enabledEvents:     event.Categories,
	}
	for _, opt := range options {
		opt(_inst)
	}
	if _inst.messenger == nil {
		return nil, errors.New("a messenger controller is required")
	}
	if _inst.logger == nil {
		_inst.logger = helpers.NewNoopLogger()
	}
	if _inst.responder == nil {
		_inst.responder = echo.NewResponder()
	}
	for _, c := range _inst.enabledEvents {
		if !slices.Contains(event.Categories, c) {
			return nil, errors.Errorf("unsupported event category: %s", c)
		}
	}

	withLogger := processor.WithLogger(_inst.logger)
	_inst.preProcessors = []processor.Processor{
		processor.NewSignatureValidatorProcessor(_inst.messenger, withLogger),
	}
	_inst.postProcessors = []processor.Processor{
		processor.NewS3UploaderPostProcessor(_inst.archiver, _inst.s3UploadEnabled, _inst.s3UploadBucket, withLogger),
	}
	_inst.optinProcessor = processor.NewOptinEventProcessor(_inst.messenger, _inst.responder, withLogger)
	_inst.messageProcessor = processor.NewMessageEventProcessor(_inst.messenger, _inst.responder, withLogger)
	_inst.deliveryProcessor = processor.NewDeliveryEventProcessor(withLogger)
	_inst.postbackProcessor = processor.NewPostbackEventProcessor(_inst.messenger, _inst.responder, withLogger)
	_inst.readProcessor = processor.NewReadEventProcessor(withLogger)
	_inst.accountLinkingProcessor = processor.NewAccountLinkingEventProcessor(withLogger)

	return _inst, nil
}

func ok() models.Response {
	return models.Response{Body: "ok", StatusCode: http.StatusOK}
}

// Process handles a webhook POST. Every well-signed request is answered with 200 "ok",
// whatever happens to the individual events; the platform retries anything else.
func (h *Handler) Process(ctx context.Context, req models.Request) (models.Response, error) {
	start := time.Now()
	defer func() { h.metrics.ObserveWebhook("webhook", time.Since(start).Seconds()) }()

	logger := h.logger.With(slog.Int("bytes", len(req.Body)))
	logger.Info("processing request...")

	// Without resolved credentials the signature cannot be checked, so the request is refused.
	// A missing page access token only affects replies and is reported per send.
	if err := h.messenger.RetrieveCredentials(ctx); err != nil {
		if !errors.Is(err, messenger.ErrMissingPageAccessToken) {
			logger.Error("failed to retrieve credentials", slog.Any("error", err))
			return models.Response{Body: "credentials unavailable", StatusCode: http.StatusInternalServerError},
				echo.WrapInternalError(err, "failed to retrieve credentials")
		}
		logger.Warn("page access token is not configured. replies will fail")
	}

	bus, err := processor.Process(&processor.WebhookRequest{Ctx: ctx, Body: req.Body, Headers: req.Headers}, h.preProcessors...)
	if err != nil {
		return bus.Response, err
	}

	env, err := event.DecodeEnvelope(req.Body)
	if err != nil {
		logger.Warn("ignoring undecodable payload", slog.Any("error", err))
		return ok(), nil
	}
	if env.Object != event.PageObject {
		logger.Info("ignoring non-page payload", slog.String("object", env.Object))
		return ok(), nil
	}
	bus.Envelope = env

	for _, entry := range env.Entry {
		for _, raw := range entry.Messaging {
			h.dispatch(bus, entry.ID, raw)
		}
	}

	if _, err = processor.Process(bus, h.postProcessors...); err != nil {
		logger.Warn("post-processing failed", slog.Any("error", err))
	}
	return ok(), nil
}

// dispatch classifies one messaging event and runs its processor.
// Failures and panics are contained so that sibling events are still processed.
func (h *Handler) dispatch(parent *echo.Bus, pageID string, raw json.RawMessage) (status echo.EventStatus) {
	category := event.CategoryUnknown
	defer func() {
		if r := recover(); r != nil {
			h.logger.Error("event processor panicked",
				slog.Any("panic", r),
				slog.String("category", string(category)),
				slog.String("page", pageID))
			status = echo.Error
		}
		h.metrics.ObserveEvent(string(category), string(status))
	}()

	e, err := event.Decode(raw)
	if err != nil {
		h.logger.Warn("skipping malformed event", slog.Any("error", err), slog.String("page", pageID))
		return echo.Error
	}
	category = e.Category()
	bus := parent.ForEvent(pageID, e, h.logger)
	logger := bus.Context.Logger

	var p processor.Processor
	switch e.Payload.(type) {
	case *event.Optin:
		p = h.optinProcessor
	case *event.Message:
		p = h.messageProcessor
	case *event.Delivery:
		p = h.deliveryProcessor
	case *event.Postback:
		p = h.postbackProcessor
	case *event.Read:
		p = h.readProcessor
	case *event.AccountLinking:
		p = h.accountLinkingProcessor
	default:
		logger.Warn("unknown event received", slog.String("raw", helpers.Truncate(string(raw), 1024)))
		return echo.Ignored
	}

	if !slices.Contains(h.enabledEvents, category) {
		logger.Info("event category is disabled. skipping...")
		return echo.Skipped
	}

	result, err := processor.Process(bus, p)
	if err != nil {
		logger.Warn("failed to process event", slog.Any("error", err))
		return echo.Error
	}
	if result.EventStatus == "" {
		return echo.Ignored
	}
	return result.EventStatus
}
