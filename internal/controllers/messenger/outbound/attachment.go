package outbound

import (
	"github.com/pkg/errors"
)

// AttachmentType is the media type of a URL attachment.
type AttachmentType string

const (
	Image AttachmentType = "image"
	Audio AttachmentType = "audio"
	Video AttachmentType = "video"
	File  AttachmentType = "file"
)

type urlPayload struct {
	URL string `json:"url"`
}

type attachment struct {
	Type AttachmentType
	URL  string
}

func (attachment) kind() Kind { return KindAttachment }

func (a attachment) apply(w *wireMessage) {
	w.Message = &wireBody{Attachment: &wireAttachment{Type: string(a.Type), Payload: urlPayload{URL: a.URL}}}
}

// NewAttachment builds a media message referencing a publicly reachable URL.
func NewAttachment(recipient string, typ AttachmentType, url string) (*Message, error) {
	switch typ {
	case Image, Audio, Video, File:
	default:
		return nil, errors.Wrapf(ErrInvalidMessage, "attachment: unsupported type %q", typ)
	}
	if url == "" {
		return nil, errors.Wrapf(ErrInvalidMessage, "attachment: %s without url", typ)
	}
	return newMessage(recipient, attachment{Type: typ, URL: url})
}
