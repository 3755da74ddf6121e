// Package models provides the core data structures for handling webhook requests and responses.
package models

import "net/url"

// Request represents an incoming client request, independent of the transport it arrived on.
type Request struct {
	Method  string
	Path    string
	Query   url.Values
	Body    []byte
	Headers map[string]string // lower-cased keys
}

// Response defines the structure for an HTTP response containing a body, headers, and a status code.
type Response struct {
	Body       string
	Headers    map[string]string
	StatusCode int
}
