package processor

import (
	"log/slog"

	"github.com/isometry/messenger-echo-bot/internal/controllers/messenger/event"
	"github.com/isometry/messenger-echo-bot/internal/echo"
)

// ReplyPostbackCalled acknowledges a postback button tap.
const ReplyPostbackCalled = "Postback called"

type postbackEventProcessor struct {
	base
	sender    Sender
	responder *echo.Responder
}

// NewPostbackEventProcessor creates a processor answering postback events.
func NewPostbackEventProcessor(sender Sender, responder *echo.Responder, opts ...Option) Processor {
	_inst := &postbackEventProcessor{base: newBase("processor:postback"), sender: sender, responder: responder}
	applyOpts(_inst, opts...)
	return _inst
}

func (p *postbackEventProcessor) Process(req any) (*echo.Bus, error) {
	bus, postback, err := payloadOf[*event.Postback](req)
	if err != nil {
		return bus, err
	}
	logger := p.loggerFor(bus)

	logger.Info("received postback",
		slog.String("payload", postback.Payload),
		slog.String("title", postback.Title),
		slog.Time("time", bus.Event.Time()))

	return bus, reply(bus, p.sender, p.responder, ReplyPostbackCalled)
}
