// Package processor provides a generic interface for processing requests using a list of processors.
package processor

import (
	"context"
	"log/slog"

	"github.com/isometry/messenger-echo-bot/internal/controllers/messenger"
	"github.com/isometry/messenger-echo-bot/internal/controllers/messenger/event"
	"github.com/isometry/messenger-echo-bot/internal/controllers/messenger/outbound"
	"github.com/isometry/messenger-echo-bot/internal/echo"
	"github.com/isometry/messenger-echo-bot/internal/helpers"
)

// Option is a function that applies an option to a Processor.
type Option = func(Processor)

// Processor is an interface that defines a method to process a request.
type Processor interface {
	SetLogger(logger *slog.Logger)
	Process(any) (*echo.Bus, error)
}

// Sender issues one Send API call. Failures are reported in the result.
type Sender interface {
	Send(ctx context.Context, msg *outbound.Message) messenger.SendResult
}

// CredentialsProvider exposes the current Messenger credentials.
type CredentialsProvider interface {
	Credentials() messenger.Credentials
}

// WebhookRequest is the input of the pre-processors.
type WebhookRequest struct {
	Ctx     context.Context
	Body    []byte
	Headers map[string]string
}

// WithLogger sets the base logger of a processor.
func WithLogger(logger *slog.Logger) Option {
	return func(p Processor) {
		p.SetLogger(logger)
	}
}

// Process runs req through the processors in order, stopping at the first error.
func Process(req any, processors ...Processor) (*echo.Bus, error) {
	var (
		bus *echo.Bus
		err error
	)
	for _, p := range processors {
		bus, err = p.Process(req)
		if err != nil {
			return bus, err
		}
		req = bus
	}
	if bus == nil {
		bus, _ = req.(*echo.Bus)
	}
	return bus, err
}

func applyOpts(m Processor, opts ...Option) {
	for _, opt := range opts {
		opt(m)
	}
}

// base holds the logger shared by all processors.
// The per-event logger carried by the bus takes precedence over the base logger.
type base struct {
	group  string
	logger *slog.Logger
}

func newBase(group string) base {
	return base{group: group, logger: helpers.NewNoopLogger().WithGroup(group)}
}

func (b *base) SetLogger(logger *slog.Logger) {
	b.logger = logger.WithGroup(b.group)
}

func (b *base) loggerFor(bus *echo.Bus) *slog.Logger {
	if bus != nil && bus.Context != nil && bus.Context.Logger != nil {
		return bus.Context.Logger.WithGroup(b.group)
	}
	return b.logger
}

// payloadOf extracts the bus and the typed event payload from a processor input.
func payloadOf[T event.Payload](req any) (*echo.Bus, T, error) {
	var zero T
	bus, ok := req.(*echo.Bus)
	if !ok {
		return nil, zero, echo.NewInternalError("invalid request type. expected *echo.Bus got %T", req)
	}
	if bus.Event == nil {
		return bus, zero, echo.NewInternalError("missing event")
	}
	payload, ok := bus.Event.Payload.(T)
	if !ok {
		return bus, zero, echo.NewInternalError("invalid event payload. expected %T got %T", zero, bus.Event.Payload)
	}
	return bus, payload, nil
}

// send issues msg and records the outcome on the bus.
func send(bus *echo.Bus, sender Sender, msg *outbound.Message) {
	ctx := bus.Ctx
	if ctx == nil {
		ctx = context.Background()
	}
	bus.Record(sender.Send(ctx, msg))
}

// reply sends a prefixed text reply to the sender of the event.
func reply(bus *echo.Bus, sender Sender, responder *echo.Responder, text string) error {
	msg, err := responder.Text(bus.Event.SenderID, text)
	if err != nil {
		return echo.WrapInternalError(err, "failed to build text reply")
	}
	send(bus, sender, msg)
	return nil
}
