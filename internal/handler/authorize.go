package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/isometry/messenger-echo-bot/internal/echo"
	"github.com/isometry/messenger-echo-bot/internal/models"
)

// AuthorizeResponse is returned to the account linking flow.
type AuthorizeResponse struct {
	AccountLinkingToken string `json:"accountLinkingToken"`
	RedirectURI         string `json:"redirectURI"`
	RedirectURISuccess  string `json:"redirectURISuccess"`
}

// Authorize serves the account linking call-to-action.
// The success redirect is the supplied redirect_uri with the authorization code appended; redirect_uri is not validated.
func (h *Handler) Authorize(_ context.Context, req models.Request) (models.Response, error) {
	redirectURI := req.Query.Get("redirect_uri")
	resp := AuthorizeResponse{
		AccountLinkingToken: req.Query.Get("account_linking_token"),
		RedirectURI:         redirectURI,
		RedirectURISuccess:  redirectURI + "&authorization_code=" + h.authorizationCode,
	}
	if _, err := url.ParseRequestURI(redirectURI); err != nil {
		h.logger.Warn("account linking redirect_uri is not a valid URI", slog.String("redirectURI", redirectURI))
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(resp); err != nil {
		return models.Response{StatusCode: http.StatusInternalServerError}, echo.WrapInternalError(err, "failed to encode authorize response")
	}

	h.logger.Info("account linking authorized", slog.String("redirectURI", redirectURI))
	return models.Response{
		Body:       string(bytes.TrimRight(buf.Bytes(), "\n")),
		StatusCode: http.StatusOK,
		Headers:    map[string]string{"Content-Type": "application/json"},
	}, nil
}
