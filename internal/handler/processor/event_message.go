package processor

import (
	"log/slog"

	"github.com/isometry/messenger-echo-bot/internal/controllers/messenger/event"
	"github.com/isometry/messenger-echo-bot/internal/echo"
	"github.com/isometry/messenger-echo-bot/internal/helpers"
)

const (
	// ReplyQuickReplyTapped acknowledges a quick reply.
	ReplyQuickReplyTapped = "Quick reply tapped"
	// ReplyAttachmentReceived acknowledges a message carrying attachments only.
	ReplyAttachmentReceived = "Message with attachment received"

	maxLoggedText = 256
)

type messageEventProcessor struct {
	base
	sender    Sender
	responder *echo.Responder
}

// NewMessageEventProcessor creates a processor answering inbound messages.
// Keyword messages get the matching sample payload, other text is echoed back.
func NewMessageEventProcessor(sender Sender, responder *echo.Responder, opts ...Option) Processor {
	_inst := &messageEventProcessor{base: newBase("processor:message"), sender: sender, responder: responder}
	applyOpts(_inst, opts...)
	return _inst
}

func (p *messageEventProcessor) Process(req any) (*echo.Bus, error) {
	bus, msg, err := payloadOf[*event.Message](req)
	if err != nil {
		return bus, err
	}
	logger := p.loggerFor(bus).With(slog.String("mid", msg.MID))

	logger.Info("received message",
		slog.Time("time", bus.Event.Time()),
		slog.String("text", helpers.Truncate(msg.Text, maxLoggedText)),
		slog.Int("attachments", len(msg.Attachments)))

	switch {
	case msg.IsEcho:
		logger.Info("received echo",
			slog.String("appID", string(msg.AppID)),
			slog.String("metadata", msg.Metadata))
		bus.EventStatus = echo.Ignored
		return bus, nil

	case msg.QuickReply != nil:
		logger.Info("quick reply tapped", slog.String("payload", msg.QuickReply.Payload))
		return bus, reply(bus, p.sender, p.responder, ReplyQuickReplyTapped)

	case msg.Text != "":
		keyword, out, err := p.responder.Reply(bus.Event.SenderID, msg.Text)
		if err != nil {
			return bus, echo.WrapInternalError(err, "failed to build reply")
		}
		if keyword == "" {
			logger.Debug("echoing text...")
		} else {
			logger.Debug("sending keyword reply...", slog.String("keyword", keyword), slog.String("kind", string(out.Kind())))
		}
		send(bus, p.sender, out)
		return bus, nil

	case len(msg.Attachments) > 0:
		return bus, reply(bus, p.sender, p.responder, ReplyAttachmentReceived)

	default:
		logger.Debug("message carries nothing to answer")
		bus.EventStatus = echo.Ignored
		return bus, nil
	}
}
