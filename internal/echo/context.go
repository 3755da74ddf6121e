// Package echo provides the per-event state shared by the processors and the reply table of the bot.
package echo

import (
	"context"
	"log/slog"

	"github.com/isometry/messenger-echo-bot/internal/controllers/messenger"
	"github.com/isometry/messenger-echo-bot/internal/controllers/messenger/event"
	"github.com/isometry/messenger-echo-bot/internal/models"
)

// Bus represents the central data structure passed along the processor chain.
// One Bus describes the whole webhook request; ForEvent derives the per-event Bus.
type Bus struct {
	Ctx      context.Context
	Context  *Context
	Response models.Response

	Envelope    *event.Envelope
	Event       *event.Event
	EventStatus EventStatus
	SendResults []messenger.SendResult

	Body    []byte
	Headers map[string]string
	Error   error
}

// EventStatus represents the outcome of processing one messaging event.
type EventStatus string

const (
	// Success represents an event that was fully handled.
	Success EventStatus = "success"
	// Failure represents an event whose outbound call failed.
	Failure EventStatus = "failure"
	// Error represents an event that could not be decoded or crashed its processor.
	Error EventStatus = "error"
	// Skipped represents an event whose category is disabled.
	Skipped EventStatus = "skipped"
	// Ignored represents an event that required no action.
	Ignored EventStatus = "ignored"
)

// ForEvent returns a Bus scoped to a single event of the request.
func (b *Bus) ForEvent(pageID string, e *event.Event, logger *slog.Logger) *Bus {
	ctx := &Context{
		PageID:   pageID,
		Category: e.Category(),
		Event:    e,
	}
	ctx.Logger = logger.With(slog.Any("event", ctx))
	return &Bus{
		Ctx:      b.Ctx,
		Context:  ctx,
		Envelope: b.Envelope,
		Event:    e,
		Body:     b.Body,
		Headers:  b.Headers,
	}
}

// Record stores the outcome of an outbound call and updates the event status accordingly.
func (b *Bus) Record(result messenger.SendResult) {
	b.SendResults = append(b.SendResults, result)
	if result.OK() {
		if b.EventStatus == "" {
			b.EventStatus = Success
		}
		return
	}
	b.EventStatus = Failure
}

// LogValue returns a slog.Value by delegating to the Context's LogValue method, encapsulating structured log attributes.
func (b *Bus) LogValue() slog.Value {
	if b.Context == nil {
		return slog.GroupValue(slog.Int("bytes", len(b.Body)))
	}
	return b.Context.LogValue()
}

// Context represents the runtime context for handling one messaging event.
type Context struct {
	Logger   *slog.Logger
	PageID   string
	Category event.Category
	Event    *event.Event
}

// LogValue generates a structured log value containing the event attributes.
// Sender and recipient are only included when known.
func (c *Context) LogValue() slog.Value {
	logAttr := make([]slog.Attr, 1, 5)
	logAttr[0] = slog.String("category", string(c.Category))
	if c.PageID != "" {
		logAttr = append(logAttr, slog.String("page", c.PageID))
	}
	if c.Event != nil {
		if c.Event.SenderID != "" {
			logAttr = append(logAttr, slog.String("sender", c.Event.SenderID))
		}
		if c.Event.RecipientID != "" {
			logAttr = append(logAttr, slog.String("recipient", c.Event.RecipientID))
		}
		logAttr = append(logAttr, slog.Int64("timestamp", c.Event.Timestamp))
	}
	return slog.GroupValue(logAttr...)
}
