// Package transport performs the HTTP exchange with the remote API service.
// Bindings describe each request as a Call; a Transport executes it and hands
// back the raw response exactly once.
package transport

import (
	"context"
	"encoding/base64"
	"net/http"
	"strings"
)

// Auth scheme names understood by HTTPTransport.
const (
	AuthBasic = "basic"
)

// Common media types.
const (
	ContentTypeJSON = "application/json"
)

// Call describes one request against the remote service.
type Call struct {
	Op           string // operation name used in logs, metrics and errors
	Method       string
	Path         string // template with {placeholders}
	PathParams   map[string]string
	QueryParams  map[string]string
	HeaderParams map[string]string
	Body         any
	AuthNames    []string
	ContentTypes []string
	Accepts      []string
}

// Response is the raw outcome of a call that reached the remote service.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
	RequestID  string
}

// OK reports a 2xx status.
func (r *Response) OK() bool {
	return r != nil && r.StatusCode >= 200 && r.StatusCode < 300
}

// Transport executes calls. Any HTTP status is a Response; the error is
// reserved for calls that produced no usable response.
type Transport interface {
	CallAPI(ctx context.Context, call *Call) (*Response, error)
}

// Func adapts a function to Transport.
type Func func(ctx context.Context, call *Call) (*Response, error)

// CallAPI calls f.
func (f Func) CallAPI(ctx context.Context, call *Call) (*Response, error) {
	return f(ctx, call)
}

// Credentials authenticate against the remote service.
type Credentials struct {
	AccessKeyID     string
	SecretAccessKey string
}

// IsZero reports whether no credential is set.
func (c Credentials) IsZero() bool {
	return c.AccessKeyID == "" && c.SecretAccessKey == ""
}

// BasicAuth returns the Authorization header value for the basic scheme.
func (c Credentials) BasicAuth() string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(c.AccessKeyID+":"+c.SecretAccessKey))
}

func selectContentType(types []string) string {
	if len(types) == 0 {
		return ContentTypeJSON
	}
	for _, t := range types {
		if strings.EqualFold(t, ContentTypeJSON) {
			return ContentTypeJSON
		}
	}
	return types[0]
}

func hasAuth(names []string, scheme string) bool {
	for _, n := range names {
		if n == scheme {
			return true
		}
	}
	return false
}
