package processor

import (
	"log/slog"

	"github.com/isometry/messenger-echo-bot/internal/controllers/messenger/event"
	"github.com/isometry/messenger-echo-bot/internal/echo"
)

type accountLinkingEventProcessor struct {
	base
}

// NewAccountLinkingEventProcessor creates a processor logging account link and unlink events.
func NewAccountLinkingEventProcessor(opts ...Option) Processor {
	_inst := &accountLinkingEventProcessor{base: newBase("processor:account-linking")}
	applyOpts(_inst, opts...)
	return _inst
}

func (p *accountLinkingEventProcessor) Process(req any) (*echo.Bus, error) {
	bus, linking, err := payloadOf[*event.AccountLinking](req)
	if err != nil {
		return bus, err
	}

	p.loggerFor(bus).Info("received account link event",
		slog.String("sender", bus.Event.SenderID),
		slog.String("status", linking.Status),
		slog.String("authorizationCode", linking.AuthorizationCode))

	bus.EventStatus = echo.Success
	return bus, nil
}
