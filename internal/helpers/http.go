package helpers

import (
	"net/http"
	"strings"

	"github.com/isometry/messenger-echo-bot/internal/models"
)

// RespondHTTP writes a models.Response to rw. A zero status code is sent as 200.
func RespondHTTP(response models.Response, rw http.ResponseWriter) {
	for k, v := range response.Headers {
		rw.Header().Set(k, v)
	}
	statusCode := response.StatusCode
	if statusCode == 0 {
		statusCode = http.StatusOK
	}
	rw.WriteHeader(statusCode)
	_, _ = rw.Write([]byte(response.Body))
}

// LowerHeaders flattens h into a map keyed by lower-cased header names.
// Only the first value of a repeated header is kept.
func LowerHeaders(h http.Header) map[string]string {
	headers := make(map[string]string, len(h))
	for k, v := range h {
		if len(v) == 0 {
			continue
		}
		headers[strings.ToLower(k)] = v[0]
	}
	return headers
}
