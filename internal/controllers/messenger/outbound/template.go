package outbound

import (
	"github.com/pkg/errors"
)

const (
	maxButtons          = 3
	maxGenericElements  = 10
	templateTypeButton  = "button"
	templateTypeGeneric = "generic"
	templateTypeReceipt = "receipt"
)

// ButtonType is the action performed when a button is tapped.
type ButtonType string

const (
	WebURL      ButtonType = "web_url"
	Postback    ButtonType = "postback"
	PhoneNumber ButtonType = "phone_number"
	AccountLink ButtonType = "account_link"
)

// Button is a call-to-action attached to a button or generic template.
type Button struct {
	Type    ButtonType `json:"type"`
	Title   string     `json:"title,omitempty"`
	URL     string     `json:"url,omitempty"`
	Payload string     `json:"payload,omitempty"`
}

func (b Button) validate() error {
	switch b.Type {
	case WebURL:
		if b.Title == "" || b.URL == "" {
			return errors.Errorf("web_url button requires title and url")
		}
	case Postback, PhoneNumber:
		if b.Title == "" || b.Payload == "" {
			return errors.Errorf("%s button requires title and payload", b.Type)
		}
	case AccountLink:
		if b.URL == "" {
			return errors.Errorf("account_link button requires url")
		}
	default:
		return errors.Errorf("unsupported button type %q", b.Type)
	}
	return nil
}

func validateButtons(buttons []Button) error {
	if len(buttons) > maxButtons {
		return errors.Errorf("at most %d buttons allowed, got %d", maxButtons, len(buttons))
	}
	for i, b := range buttons {
		if err := b.validate(); err != nil {
			return errors.Wrapf(err, "button %d", i)
		}
	}
	return nil
}

type buttonTemplate struct {
	TemplateType string   `json:"template_type"`
	Text         string   `json:"text"`
	Buttons      []Button `json:"buttons"`
}

func (buttonTemplate) kind() Kind { return KindTemplate }

func (t buttonTemplate) apply(w *wireMessage) {
	w.Message = &wireBody{Attachment: &wireAttachment{Type: string(KindTemplate), Payload: t}}
}

// NewButtonTemplate builds a text bubble with one to three buttons.
func NewButtonTemplate(recipient, body string, buttons ...Button) (*Message, error) {
	if body == "" {
		return nil, errors.Wrap(ErrInvalidMessage, "button template: empty text")
	}
	if len(buttons) == 0 {
		return nil, errors.Wrap(ErrInvalidMessage, "button template: no buttons")
	}
	if err := validateButtons(buttons); err != nil {
		return nil, errors.Wrapf(ErrInvalidMessage, "button template: %v", err)
	}
	return newMessage(recipient, buttonTemplate{TemplateType: templateTypeButton, Text: body, Buttons: buttons})
}

// Element is one bubble of a generic template.
type Element struct {
	Title    string   `json:"title"`
	Subtitle string   `json:"subtitle,omitempty"`
	ItemURL  string   `json:"item_url,omitempty"`
	ImageURL string   `json:"image_url,omitempty"`
	Buttons  []Button `json:"buttons,omitempty"`
}

type genericTemplate struct {
	TemplateType string    `json:"template_type"`
	Elements     []Element `json:"elements"`
}

func (genericTemplate) kind() Kind { return KindTemplate }

func (t genericTemplate) apply(w *wireMessage) {
	w.Message = &wireBody{Attachment: &wireAttachment{Type: string(KindTemplate), Payload: t}}
}

// NewGenericTemplate builds a horizontally scrollable carousel of elements.
func NewGenericTemplate(recipient string, elements ...Element) (*Message, error) {
	if len(elements) == 0 || len(elements) > maxGenericElements {
		return nil, errors.Wrapf(ErrInvalidMessage, "generic template: expected 1 to %d elements, got %d", maxGenericElements, len(elements))
	}
	for i, e := range elements {
		if e.Title == "" {
			return nil, errors.Wrapf(ErrInvalidMessage, "generic template: element %d has no title", i)
		}
		if err := validateButtons(e.Buttons); err != nil {
			return nil, errors.Wrapf(ErrInvalidMessage, "generic template: element %d: %v", i, err)
		}
	}
	return newMessage(recipient, genericTemplate{TemplateType: templateTypeGeneric, Elements: elements})
}

// ReceiptElement is one purchased item.
type ReceiptElement struct {
	Title    string  `json:"title"`
	Subtitle string  `json:"subtitle,omitempty"`
	Quantity int     `json:"quantity,omitempty"`
	Price    float64 `json:"price"`
	Currency string  `json:"currency,omitempty"`
	ImageURL string  `json:"image_url,omitempty"`
}

// Address is the shipping address of a receipt.
type Address struct {
	Street1    string `json:"street_1"`
	Street2    string `json:"street_2"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
	State      string `json:"state"`
	Country    string `json:"country"`
}

// Summary holds the receipt totals.
type Summary struct {
	Subtotal     float64 `json:"subtotal,omitempty"`
	ShippingCost float64 `json:"shipping_cost,omitempty"`
	TotalTax     float64 `json:"total_tax,omitempty"`
	TotalCost    float64 `json:"total_cost"`
}

// Adjustment is a discount or surcharge applied to the order.
type Adjustment struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

// Receipt is an order confirmation.
type Receipt struct {
	RecipientName string           `json:"recipient_name"`
	OrderNumber   string           `json:"order_number"`
	Currency      string           `json:"currency"`
	PaymentMethod string           `json:"payment_method"`
	Timestamp     string           `json:"timestamp,omitempty"`
	Elements      []ReceiptElement `json:"elements,omitempty"`
	Address       *Address         `json:"address,omitempty"`
	Summary       Summary          `json:"summary"`
	Adjustments   []Adjustment     `json:"adjustments,omitempty"`
}

type receiptTemplate struct {
	TemplateType string `json:"template_type"`
	Receipt
}

func (receiptTemplate) kind() Kind { return KindTemplate }

func (t receiptTemplate) apply(w *wireMessage) {
	w.Message = &wireBody{Attachment: &wireAttachment{Type: string(KindTemplate), Payload: t}}
}

// NewReceiptTemplate builds an order confirmation bubble.
func NewReceiptTemplate(recipient string, r Receipt) (*Message, error) {
	switch {
	case r.RecipientName == "":
		return nil, errors.Wrap(ErrInvalidMessage, "receipt template: missing recipient name")
	case r.OrderNumber == "":
		return nil, errors.Wrap(ErrInvalidMessage, "receipt template: missing order number")
	case r.Currency == "":
		return nil, errors.Wrap(ErrInvalidMessage, "receipt template: missing currency")
	case r.PaymentMethod == "":
		return nil, errors.Wrap(ErrInvalidMessage, "receipt template: missing payment method")
	}
	return newMessage(recipient, receiptTemplate{TemplateType: templateTypeReceipt, Receipt: r})
}
