// Package event decodes Messenger webhook payloads into typed events.
package event

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// PageObject is the only envelope object the bot acts on.
const PageObject = "page"

// Category is the kind of a messaging event.
type Category string

const (
	CategoryOptin          Category = "optin"
	CategoryMessage        Category = "message"
	CategoryDelivery       Category = "delivery"
	CategoryPostback       Category = "postback"
	CategoryRead           Category = "read"
	CategoryAccountLinking Category = "account_linking"
	CategoryUnknown        Category = "unknown"
)

// Categories lists the classified categories in dispatch priority order.
var Categories = []Category{
	CategoryOptin,
	CategoryMessage,
	CategoryDelivery,
	CategoryPostback,
	CategoryRead,
	CategoryAccountLinking,
}

// Envelope is the top-level webhook payload.
type Envelope struct {
	Object string  `json:"object"`
	Entry  []Entry `json:"entry"`
}

// Entry groups the messaging events of one page.
// Events are kept raw so that each one is decoded independently.
type Entry struct {
	ID        string            `json:"id"`
	Time      int64             `json:"time"`
	Messaging []json.RawMessage `json:"messaging"`
}

// FlexibleID accepts identifiers encoded either as JSON strings or numbers.
type FlexibleID string

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexibleID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = FlexibleID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	if _, err := strconv.ParseFloat(n.String(), 64); err != nil {
		return err
	}
	*f = FlexibleID(n.String())
	return nil
}

// Payload is the category-specific part of an event.
type Payload interface {
	Category() Category
	sealed()
}

// Optin is sent when a user authenticates through a "Send to Messenger" entry point.
type Optin struct {
	Ref string `json:"ref"`
}

// Message is an inbound message, or an echo of one the page sent.
type Message struct {
	IsEcho      bool         `json:"is_echo,omitempty"`
	MID         string       `json:"mid,omitempty"`
	AppID       FlexibleID   `json:"app_id,omitempty"`
	Metadata    string       `json:"metadata,omitempty"`
	Text        string       `json:"text,omitempty"`
	Attachments []Attachment `json:"attachments,omitempty"`
	QuickReply  *QuickReply  `json:"quick_reply,omitempty"`
}

// Attachment is a media item or structured object received from a user.
type Attachment struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// QuickReply carries the payload of a tapped quick reply.
type QuickReply struct {
	Payload string `json:"payload"`
}

// Delivery confirms that messages sent by the page were delivered.
type Delivery struct {
	MIDs      []string `json:"mids,omitempty"`
	Watermark int64    `json:"watermark"`
	Seq       int64    `json:"seq"`
}

// Postback is sent when a postback button is tapped.
type Postback struct {
	Title   string `json:"title,omitempty"`
	Payload string `json:"payload"`
}

// Read reports that messages up to the watermark were read.
type Read struct {
	Watermark int64 `json:"watermark"`
	Seq       int64 `json:"seq"`
}

// AccountLinking is sent when a user links or unlinks an account.
type AccountLinking struct {
	Status            string `json:"status"`
	AuthorizationCode string `json:"authorization_code,omitempty"`
}

func (*Optin) Category() Category          { return CategoryOptin }
func (*Message) Category() Category        { return CategoryMessage }
func (*Delivery) Category() Category       { return CategoryDelivery }
func (*Postback) Category() Category       { return CategoryPostback }
func (*Read) Category() Category           { return CategoryRead }
func (*AccountLinking) Category() Category { return CategoryAccountLinking }

func (*Optin) sealed()          {}
func (*Message) sealed()        {}
func (*Delivery) sealed()       {}
func (*Postback) sealed()       {}
func (*Read) sealed()           {}
func (*AccountLinking) sealed() {}
