package processor

import (
	"log/slog"

	"github.com/isometry/messenger-echo-bot/internal/controllers/messenger/event"
	"github.com/isometry/messenger-echo-bot/internal/echo"
)

type deliveryEventProcessor struct {
	base
}

// NewDeliveryEventProcessor creates a processor logging delivery confirmations.
func NewDeliveryEventProcessor(opts ...Option) Processor {
	_inst := &deliveryEventProcessor{base: newBase("processor:delivery")}
	applyOpts(_inst, opts...)
	return _inst
}

func (p *deliveryEventProcessor) Process(req any) (*echo.Bus, error) {
	bus, delivery, err := payloadOf[*event.Delivery](req)
	if err != nil {
		return bus, err
	}
	logger := p.loggerFor(bus)

	for _, mid := range delivery.MIDs {
		logger.Info("received delivery confirmation", slog.String("mid", mid))
	}
	logger.Info("all messages before watermark were delivered",
		slog.Int64("watermark", delivery.Watermark),
		slog.Int64("seq", delivery.Seq))

	bus.EventStatus = echo.Success
	return bus, nil
}
