package echo

import (
	"math/rand"
	"slices"
	"strconv"
	"strings"

	"github.com/isometry/messenger-echo-bot/internal/controllers/messenger/outbound"
	"github.com/pkg/errors"
)

const (
	// DefaultReplyPrefix is prepended to every text reply.
	DefaultReplyPrefix = "P: "

	KeywordImage          = "image"
	KeywordGif            = "giff"
	KeywordAudio          = "audio"
	KeywordVideo          = "video"
	KeywordFile           = "file"
	KeywordButton         = "button"
	KeywordGeneric        = "generic"
	KeywordReceipt        = "receipt"
	KeywordQuickReply     = "quick reply"
	KeywordReadReceipt    = "read receipt"
	KeywordTypingOn       = "typing on"
	KeywordTypingOff      = "typing off"
	KeywordAccountLinking = "account linking"
)

type replyFunc func(recipient string) (*outbound.Message, error)

// ResponderOption configures a Responder.
type ResponderOption func(*Responder)

// Responder maps inbound message text to the outbound action the bot answers with.
type Responder struct {
	serverURL   string
	prefix      string
	orderNumber func() int
	keywords    map[string]replyFunc
}

// WithServerURL sets the public base URL used to build asset and authorize links.
func WithServerURL(serverURL string) ResponderOption {
	return func(r *Responder) {
		r.serverURL = strings.TrimRight(serverURL, "/")
	}
}

// WithReplyPrefix sets the prefix of every text reply.
func WithReplyPrefix(prefix string) ResponderOption {
	return func(r *Responder) {
		r.prefix = prefix
	}
}

// WithOrderNumbers sets the source of receipt order numbers.
func WithOrderNumbers(next func() int) ResponderOption {
	return func(r *Responder) {
		r.orderNumber = next
	}
}

// NewResponder builds the keyword table.
func NewResponder(opts ...ResponderOption) *Responder {
	_inst := &Responder{
		prefix:      DefaultReplyPrefix,
		orderNumber: func() int { return rand.Intn(1001) },
	}
	for _, opt := range opts {
		opt(_inst)
	}
	_inst.keywords = map[string]replyFunc{
		KeywordImage:          _inst.attachment(outbound.Image, "rift.png"),
		KeywordGif:            _inst.attachment(outbound.Image, "instagram_logo.gif"),
		KeywordAudio:          _inst.attachment(outbound.Audio, "sample.mp3"),
		KeywordVideo:          _inst.attachment(outbound.Video, "allofus480.mov"),
		KeywordFile:           _inst.attachment(outbound.File, "test.txt"),
		KeywordButton:         _inst.button,
		KeywordGeneric:        _inst.generic,
		KeywordReceipt:        _inst.receipt,
		KeywordQuickReply:     _inst.quickReplies,
		KeywordReadReceipt:    senderAction(outbound.MarkSeen),
		KeywordTypingOn:       senderAction(outbound.TypingOn),
		KeywordTypingOff:      senderAction(outbound.TypingOff),
		KeywordAccountLinking: _inst.accountLinking,
	}
	return _inst
}

// Keywords returns the recognised keywords, sorted.
func (r *Responder) Keywords() []string {
	keys := make([]string, 0, len(r.keywords))
	for k := range r.keywords {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Reply returns the answer to a text message. Surrounding whitespace is ignored when matching keywords;
// matching is case-sensitive. Unmatched text is echoed back verbatim. keyword is empty for echoes.
func (r *Responder) Reply(recipient, text string) (keyword string, msg *outbound.Message, err error) {
	key := strings.TrimSpace(text)
	if fn, found := r.keywords[key]; found {
		msg, err = fn(recipient)
		return key, msg, errors.Wrapf(err, "failed to build %q reply", key)
	}
	msg, err = r.Text(recipient, text)
	return "", msg, err
}

// Text builds a prefixed text reply.
func (r *Responder) Text(recipient, body string) (*outbound.Message, error) {
	return outbound.NewText(recipient, r.prefix+body)
}

// AssetURL returns the public URL of a bundled asset.
func (r *Responder) AssetURL(name string) string {
	return r.serverURL + "/assets/" + name
}

func (r *Responder) attachment(typ outbound.AttachmentType, asset string) replyFunc {
	return func(recipient string) (*outbound.Message, error) {
		return outbound.NewAttachment(recipient, typ, r.AssetURL(asset))
	}
}

func senderAction(action outbound.SenderAction) replyFunc {
	return func(recipient string) (*outbound.Message, error) {
		return outbound.NewSenderAction(recipient, action)
	}
}

func (r *Responder) button(recipient string) (*outbound.Message, error) {
	return outbound.NewButtonTemplate(recipient, "This is test text",
		outbound.Button{Type: outbound.WebURL, URL: "https://www.oculus.com/en-us/rift/", Title: "Open Web URL"},
		outbound.Button{Type: outbound.Postback, Title: "Trigger Postback", Payload: "DEVELOPER_DEFINED_PAYLOAD"},
		outbound.Button{Type: outbound.PhoneNumber, Title: "Call Phone Number", Payload: "+16505551234"},
	)
}

func (r *Responder) generic(recipient string) (*outbound.Message, error) {
	return outbound.NewGenericTemplate(recipient,
		outbound.Element{
			Title:    "rift",
			Subtitle: "Next-generation virtual reality",
			ItemURL:  "https://www.oculus.com/en-us/rift/",
			ImageURL: "http://messengerdemo.parseapp.com/img/rift.png",
			Buttons: []outbound.Button{
				{Type: outbound.WebURL, URL: "https://www.oculus.com/en-us/rift/", Title: "Open Web URL"},
				{Type: outbound.Postback, Title: "Call Postback", Payload: "Payload for first bubble"},
			},
		},
		outbound.Element{
			Title:    "touch",
			Subtitle: "Your Hands, Now in VR",
			ItemURL:  "https://www.oculus.com/en-us/touch/",
			ImageURL: "http://messengerdemo.parseapp.com/img/touch.png",
			Buttons: []outbound.Button{
				{Type: outbound.WebURL, URL: "https://www.oculus.com/en-us/touch/", Title: "Open Web URL"},
				{Type: outbound.Postback, Title: "Call Postback", Payload: "Payload for second bubble"},
			},
		},
	)
}

func (r *Responder) receipt(recipient string) (*outbound.Message, error) {
	return outbound.NewReceiptTemplate(recipient, outbound.Receipt{
		RecipientName: "Peter Chang",
		OrderNumber:   "order " + strconv.Itoa(r.orderNumber()),
		Currency:      "USD",
		PaymentMethod: "Visa 1234",
		Timestamp:     "1428444852",
		Elements: []outbound.ReceiptElement{
			{
				Title:    "Oculus Rift",
				Subtitle: "Includes: headset, sensor, remote",
				Quantity: 1,
				Price:    599.00,
				Currency: "USD",
				ImageURL: r.AssetURL("riftsq.png"),
			},
			{
				Title:    "Samsung Gear VR",
				Subtitle: "Frost White",
				Quantity: 1,
				Price:    99.99,
				Currency: "USD",
				ImageURL: r.AssetURL("gearvrsq.png"),
			},
		},
		Address: &outbound.Address{
			Street1:    "1 Hacker Way",
			City:       "Menlo Park",
			PostalCode: "94025",
			State:      "CA",
			Country:    "US",
		},
		Summary: outbound.Summary{
			Subtotal:     698.99,
			ShippingCost: 20.00,
			TotalTax:     57.67,
			TotalCost:    626.66,
		},
		Adjustments: []outbound.Adjustment{
			{Name: "New Customer Discount", Amount: -50},
			{Name: "$100 Off Coupon", Amount: -100},
		},
	})
}

func (r *Responder) quickReplies(recipient string) (*outbound.Message, error) {
	return outbound.NewQuickReplies(recipient, "What's your favorite movie genre?",
		outbound.QuickReply{Title: "Action", Payload: "DEVELOPER_DEFINED_PAYLOAD_FOR_PICKING_ACTION"},
		outbound.QuickReply{Title: "Comedy", Payload: "DEVELOPER_DEFINED_PAYLOAD_FOR_PICKING_COMEDY"},
		outbound.QuickReply{Title: "Drama", Payload: "DEVELOPER_DEFINED_PAYLOAD_FOR_PICKING_DRAMA"},
	)
}

func (r *Responder) accountLinking(recipient string) (*outbound.Message, error) {
	return outbound.NewButtonTemplate(recipient, "Welcome. Link your account.",
		outbound.Button{Type: outbound.AccountLink, URL: r.serverURL + "/authorize"},
	)
}
