package outbound

import (
	"github.com/pkg/errors"
)

const (
	maxQuickReplies       = 13
	quickReplyContentText = "text"
)

// QuickReply is one option offered under a text message.
type QuickReply struct {
	ContentType string `json:"content_type"`
	Title       string `json:"title"`
	Payload     string `json:"payload"`
}

type quickReplies struct {
	Text    string
	Replies []QuickReply
}

func (quickReplies) kind() Kind { return KindQuickReplies }

func (q quickReplies) apply(w *wireMessage) {
	w.Message = &wireBody{Text: q.Text, QuickReplies: q.Replies}
}

// NewQuickReplies builds a text message offering one to thirteen quick replies.
// Replies without a content type default to text.
func NewQuickReplies(recipient, body string, replies ...QuickReply) (*Message, error) {
	if body == "" {
		return nil, errors.Wrap(ErrInvalidMessage, "quick replies: empty text")
	}
	if len(replies) == 0 || len(replies) > maxQuickReplies {
		return nil, errors.Wrapf(ErrInvalidMessage, "quick replies: expected 1 to %d replies, got %d", maxQuickReplies, len(replies))
	}
	normalised := make([]QuickReply, len(replies))
	for i, r := range replies {
		if r.ContentType == "" {
			r.ContentType = quickReplyContentText
		}
		if r.ContentType == quickReplyContentText && (r.Title == "" || r.Payload == "") {
			return nil, errors.Wrapf(ErrInvalidMessage, "quick replies: reply %d requires title and payload", i)
		}
		normalised[i] = r
	}
	return newMessage(recipient, quickReplies{Text: body, Replies: normalised})
}
