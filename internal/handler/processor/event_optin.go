package processor

import (
	"log/slog"

	"github.com/isometry/messenger-echo-bot/internal/controllers/messenger/event"
	"github.com/isometry/messenger-echo-bot/internal/echo"
)

// ReplyAuthenticationSuccessful acknowledges a "Send to Messenger" opt-in.
const ReplyAuthenticationSuccessful = "Authentication successful"

type optinEventProcessor struct {
	base
	sender    Sender
	responder *echo.Responder
}

// NewOptinEventProcessor creates a processor answering opt-in events.
func NewOptinEventProcessor(sender Sender, responder *echo.Responder, opts ...Option) Processor {
	_inst := &optinEventProcessor{base: newBase("processor:optin"), sender: sender, responder: responder}
	applyOpts(_inst, opts...)
	return _inst
}

func (p *optinEventProcessor) Process(req any) (*echo.Bus, error) {
	bus, optin, err := payloadOf[*event.Optin](req)
	if err != nil {
		return bus, err
	}
	logger := p.loggerFor(bus)

	// ref is the data-ref of the "Send to Messenger" plugin
	logger.Info("received authentication",
		slog.String("ref", optin.Ref),
		slog.Time("time", bus.Event.Time()))

	return bus, reply(bus, p.sender, p.responder, ReplyAuthenticationSuccessful)
}
