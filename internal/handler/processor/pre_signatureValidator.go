package processor

import (
	"log/slog"
	"net/http"

	"github.com/isometry/messenger-echo-bot/internal/echo"
	"github.com/isometry/messenger-echo-bot/internal/models"
	"github.com/isometry/messenger-echo-bot/internal/validation"
)

type signatureValidatorProcessor struct {
	base
	credentials CredentialsProvider
}

// NewSignatureValidatorProcessor initializes a pre-processor that rejects payloads whose X-Hub-Signature-256 does not match the app secret.
// Validation is disabled while no app secret is configured.
func NewSignatureValidatorProcessor(credentials CredentialsProvider, opts ...Option) Processor {
	_inst := &signatureValidatorProcessor{base: newBase("pre-processor:signature"), credentials: credentials}
	applyOpts(_inst, opts...)
	return _inst
}

func (p *signatureValidatorProcessor) Process(req any) (bus *echo.Bus, err error) {
	webhookRequest, ok := req.(*WebhookRequest)
	if !ok {
		return nil, echo.NewInternalError("invalid request type. expected *WebhookRequest got %T", req)
	}

	bus = &echo.Bus{
		Ctx:      webhookRequest.Ctx,
		Body:     webhookRequest.Body,
		Headers:  webhookRequest.Headers,
		Response: models.Response{StatusCode: http.StatusOK, Body: "ok"},
	}

	secret := validation.NewWebhookSecret(p.credentials.Credentials().AppSecret)
	if !secret.Enabled() {
		p.logger.Debug("no app secret configured. skipping signature validation...")
		return bus, nil
	}
	if err = secret.ValidateSignature(bus.Body, bus.Headers); err != nil {
		p.logger.Warn("validating signature", slog.Any("error", err))
		bus.Response = models.Response{Body: "invalid signature", StatusCode: http.StatusForbidden}
		bus.Error = err
		return bus, err
	}
	p.logger.Debug("request signature is valid")
	return bus, nil
}
