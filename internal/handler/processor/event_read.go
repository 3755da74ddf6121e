package processor

import (
	"log/slog"

	"github.com/isometry/messenger-echo-bot/internal/controllers/messenger/event"
	"github.com/isometry/messenger-echo-bot/internal/echo"
)

type readEventProcessor struct {
	base
}

// NewReadEventProcessor creates a processor logging read receipts.
func NewReadEventProcessor(opts ...Option) Processor {
	_inst := &readEventProcessor{base: newBase("processor:read")}
	applyOpts(_inst, opts...)
	return _inst
}

func (p *readEventProcessor) Process(req any) (*echo.Bus, error) {
	bus, read, err := payloadOf[*event.Read](req)
	if err != nil {
		return bus, err
	}

	p.loggerFor(bus).Info("received message read event",
		slog.Int64("watermark", read.Watermark),
		slog.Int64("seq", read.Seq))

	bus.EventStatus = echo.Success
	return bus, nil
}
