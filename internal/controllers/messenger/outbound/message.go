// Package outbound models the payloads accepted by the Messenger Send API.
//
// A Message is a closed variant: it can only be built through the constructors in this package,
// each of which validates the shape of its payload. MarshalJSON is the single encoder.
package outbound

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// ErrInvalidMessage is returned by the constructors when a payload is malformed.
var ErrInvalidMessage = errors.New("invalid outbound message")

// Kind identifies the variant carried by a Message.
type Kind string

const (
	KindText         Kind = "text"
	KindAttachment   Kind = "attachment"
	KindTemplate     Kind = "template"
	KindQuickReplies Kind = "quick_replies"
	KindSenderAction Kind = "sender_action"
)

// Message is one outbound action addressed to a single recipient.
type Message struct {
	recipient string
	payload   payload
}

type payload interface {
	kind() Kind
	apply(*wireMessage)
}

type wireRecipient struct {
	ID string `json:"id"`
}

type wireAttachment struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

type wireBody struct {
	Text         string          `json:"text,omitempty"`
	Attachment   *wireAttachment `json:"attachment,omitempty"`
	QuickReplies []QuickReply    `json:"quick_replies,omitempty"`
}

type wireMessage struct {
	Recipient    wireRecipient `json:"recipient"`
	Message      *wireBody     `json:"message,omitempty"`
	SenderAction SenderAction  `json:"sender_action,omitempty"`
}

// Kind returns the variant of the message.
func (m *Message) Kind() Kind {
	return m.payload.kind()
}

// Recipient returns the page-scoped id of the user the message is addressed to.
func (m *Message) Recipient() string {
	return m.recipient
}

// MarshalJSON encodes the message in the Send API request format.
func (m *Message) MarshalJSON() ([]byte, error) {
	if m == nil || m.payload == nil {
		return nil, errors.Wrap(ErrInvalidMessage, "empty message")
	}
	w := wireMessage{Recipient: wireRecipient{ID: m.recipient}}
	m.payload.apply(&w)
	return json.Marshal(w)
}

func newMessage(recipient string, p payload) (*Message, error) {
	if recipient == "" {
		return nil, errors.Wrapf(ErrInvalidMessage, "%s: missing recipient", p.kind())
	}
	return &Message{recipient: recipient, payload: p}, nil
}

type text string

func (text) kind() Kind { return KindText }

func (t text) apply(w *wireMessage) {
	w.Message = &wireBody{Text: string(t)}
}

// NewText builds a plain text message.
func NewText(recipient, body string) (*Message, error) {
	if body == "" {
		return nil, errors.Wrap(ErrInvalidMessage, "text: empty body")
	}
	return newMessage(recipient, text(body))
}

// SenderAction is a typing indicator or read receipt.
type SenderAction string

const (
	MarkSeen  SenderAction = "mark_seen"
	TypingOn  SenderAction = "typing_on"
	TypingOff SenderAction = "typing_off"
)

func (SenderAction) kind() Kind { return KindSenderAction }

func (a SenderAction) apply(w *wireMessage) {
	w.SenderAction = a
}

// NewSenderAction builds a sender action message. It carries no message body.
func NewSenderAction(recipient string, action SenderAction) (*Message, error) {
	switch action {
	case MarkSeen, TypingOn, TypingOff:
	default:
		return nil, errors.Wrapf(ErrInvalidMessage, "sender action: unsupported action %q", action)
	}
	return newMessage(recipient, action)
}
