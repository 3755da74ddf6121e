package messenger

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/isometry/messenger-echo-bot/internal/controllers/messenger/outbound"
	"github.com/isometry/messenger-echo-bot/internal/helpers"
	"github.com/pkg/errors"
)

const (
	sendPath         = "/me/messages"
	maxResponseBytes = 1 << 20
	maxLoggedBody    = 512
)

// SendResult is the outcome of one Send API call.
// Err is nil on success, in which case MessageID and RecipientID hold whatever the API returned.
type SendResult struct {
	MessageID   string
	RecipientID string
	StatusCode  int
	Body        string
	Err         error
}

// OK reports whether the call succeeded.
func (r SendResult) OK() bool {
	return r.Err == nil
}

type sendResponse struct {
	MessageID   string `json:"message_id"`
	RecipientID string `json:"recipient_id"`
}

// Send posts msg to the Send API once. Failures are logged and reported in the result, never returned.
func (c *Controller) Send(ctx context.Context, msg *outbound.Message) (result SendResult) {
	kind := "invalid"
	if msg != nil {
		kind = string(msg.Kind())
	}
	logger := c.logger.With(slog.String("kind", kind))
	defer func() {
		status := "ok"
		switch {
		case result.Err == nil:
		case result.StatusCode != 0:
			status = "rejected"
		default:
			status = "error"
		}
		c.metrics.ObserveSend(kind, status)
	}()

	if msg == nil {
		result.Err = errors.Wrap(outbound.ErrInvalidMessage, "nil message")
		logger.Error("unable to send message", slog.Any("error", result.Err))
		return result
	}
	logger = logger.With(slog.String("recipient", msg.Recipient()))

	body, err := json.Marshal(msg)
	if err != nil {
		result.Err = errors.Wrap(err, "failed to encode message")
		logger.Error("unable to send message", slog.Any("error", result.Err))
		return result
	}

	token := c.Credentials().PageAccessToken
	if token == "" {
		result.Err = ErrMissingPageAccessToken
		logger.Error("unable to send message", slog.Any("error", result.Err))
		return result
	}

	if c.limiter != nil {
		if err = c.limiter.Wait(ctx); err != nil {
			result.Err = errors.Wrap(err, "rate limiter")
			logger.Warn("unable to send message", slog.Any("error", result.Err))
			return result
		}
	}

	query := url.Values{}
	query.Set("access_token", token)
	query.Set("date_format", "U")
	endpoint := c.graphAPIBase + sendPath + "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		result.Err = errors.Wrap(redactURLError(err), "failed to build request")
		logger.Error("unable to send message", slog.Any("error", result.Err))
		return result
	}
	req.Header.Set("Content-Type", "application/json")

	logger.Debug("calling send api...")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		result.Err = errors.Wrap(redactURLError(err), "send api request failed")
		logger.Warn("unable to send message", slog.Any("error", result.Err))
		return result
	}
	defer func() { _ = resp.Body.Close() }()

	result.StatusCode = resp.StatusCode
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		result.Err = errors.Wrap(err, "failed to read send api response")
		logger.Warn("unable to send message", slog.Any("error", result.Err), slog.Int("status", resp.StatusCode))
		return result
	}
	result.Body = string(raw)

	if resp.StatusCode != http.StatusOK {
		result.Err = errors.Errorf("send api returned status %d", resp.StatusCode)
		logger.Warn("send api rejected message",
			slog.Int("status", resp.StatusCode),
			slog.String("body", helpers.Truncate(result.Body, maxLoggedBody)))
		return result
	}

	var decoded sendResponse
	if err = json.Unmarshal(raw, &decoded); err != nil {
		result.Err = errors.Wrap(err, "failed to decode send api response")
		logger.Warn("unable to send message",
			slog.Any("error", result.Err),
			slog.String("body", helpers.Truncate(result.Body, maxLoggedBody)))
		return result
	}
	result.MessageID = decoded.MessageID
	result.RecipientID = decoded.RecipientID

	logger.Info("successfully sent message",
		slog.String("messageID", result.MessageID),
		slog.String("recipientID", result.RecipientID))
	return result
}

// redactURLError strips the query string, which carries the access token, from transport errors.
func redactURLError(err error) error {
	var ue *url.Error
	if !errors.As(err, &ue) {
		return err
	}
	if u, parseErr := url.Parse(ue.URL); parseErr == nil {
		u.RawQuery = ""
		ue.URL = u.String()
	}
	return ue
}
