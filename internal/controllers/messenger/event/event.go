package event

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/pkg/errors"
)

// Event is one messaging item of a webhook entry.
// Payload is nil when the item matches none of the known categories.
type Event struct {
	SenderID    string
	RecipientID string
	Timestamp   int64
	Payload     Payload
}

// Category returns the category of the event payload, or CategoryUnknown.
func (e *Event) Category() Category {
	if e == nil || e.Payload == nil {
		return CategoryUnknown
	}
	return e.Payload.Category()
}

// Time returns the event timestamp.
func (e *Event) Time() time.Time {
	return time.UnixMilli(e.Timestamp)
}

// LogValue implements slog.LogValuer.
func (e *Event) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("category", string(e.Category())),
		slog.String("sender", e.SenderID),
		slog.String("recipient", e.RecipientID),
		slog.Int64("timestamp", e.Timestamp),
	)
}

type party struct {
	ID string `json:"id"`
}

type wireEvent struct {
	Sender         party           `json:"sender"`
	Recipient      party           `json:"recipient"`
	Timestamp      int64           `json:"timestamp"`
	Optin          *Optin          `json:"optin"`
	Message        *Message        `json:"message"`
	Delivery       *Delivery       `json:"delivery"`
	Postback       *Postback       `json:"postback"`
	Read           *Read           `json:"read"`
	AccountLinking *AccountLinking `json:"account_linking"`
}

// classify picks the first present sub-object in priority order.
// A present but empty sub-object still counts.
func (w *wireEvent) classify() Payload {
	switch {
	case w.Optin != nil:
		return w.Optin
	case w.Message != nil:
		return w.Message
	case w.Delivery != nil:
		return w.Delivery
	case w.Postback != nil:
		return w.Postback
	case w.Read != nil:
		return w.Read
	case w.AccountLinking != nil:
		return w.AccountLinking
	default:
		return nil
	}
}

// Decode parses a single messaging item and classifies it.
func Decode(raw json.RawMessage) (*Event, error) {
	var w wireEvent
	if err := json.Unmarshal(raw, &w); err != nil {
		return nil, errors.Wrap(err, "failed to decode messaging event")
	}
	return &Event{
		SenderID:    w.Sender.ID,
		RecipientID: w.Recipient.ID,
		Timestamp:   w.Timestamp,
		Payload:     w.classify(),
	}, nil
}

// Classify returns the category of a single messaging item.
func Classify(raw json.RawMessage) (Category, error) {
	e, err := Decode(raw)
	if err != nil {
		return CategoryUnknown, err
	}
	return e.Category(), nil
}

// DecodeEnvelope parses the top-level webhook payload without decoding the events themselves.
func DecodeEnvelope(body []byte) (*Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, errors.Wrap(err, "failed to decode webhook envelope")
	}
	return &env, nil
}
