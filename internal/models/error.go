package models

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// ==============================================
// PREDEFINED ERRORS
// ==============================================

var (
	// ErrNotInitialized is returned by every operation of a service wrapper that
	// was never bound to a transport and chain.
	ErrNotInitialized = errors.New("service is not initialized: bind it to a session with transport and chain id first")

	// ErrValidation is matched by every *ValidationError.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidQueryOptions marks query options that carry a field the endpoint does not accept.
	ErrInvalidQueryOptions = errors.New("invalid query options")

	// ErrTransport is matched by every *TransportError.
	ErrTransport = errors.New("transport failure")
)

// ==============================================
// VALIDATION
// ==============================================

// ValidationError names the argument or DTO field that failed a type or format check.
type ValidationError struct {
	Object string // DTO or operation name, may be empty
	Field  string
	Reason string
	Err    error
}

func (e *ValidationError) Error() string {
	name := e.Field
	if e.Object != "" {
		name = e.Object + "." + e.Field
	}
	return fmt.Sprintf("invalid %s: %s", name, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, ErrValidation) match any validation error.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NewValidationError creates a ValidationError for a field.
func NewValidationError(object, field, reason string) *ValidationError {
	return &ValidationError{Object: object, Field: field, Reason: reason}
}

// InvalidQueryOptions reports query options not allowed for an endpoint.
func InvalidQueryOptions(op string, allowed []string) *ValidationError {
	return &ValidationError{
		Object: op,
		Field:  "options",
		Reason: fmt.Sprintf("%v: only [%s] are supported", ErrInvalidQueryOptions, strings.Join(allowed, ", ")),
		Err:    ErrInvalidQueryOptions,
	}
}

// ==============================================
// TRANSPORT
// ==============================================

// TransportError means the call could not complete: the network failed, the
// body could not be read or decoded, or a non-2xx status came back without
// an application error payload.
type TransportError struct {
	Op         string
	StatusCode int // 0 when no response was received
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: transport failure (status %d): %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: transport failure: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, ErrTransport) match any transport error.
func (e *TransportError) Is(target error) bool {
	return target == ErrTransport
}

// ==============================================
// REMOTE (APPLICATION) ERRORS
// ==============================================

// RemoteError is the {code, message} payload the remote service answers with
// when it rejects a request. It travels as a resolved value, not a failure.
type RemoteError struct {
	Code       int    `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("remote error %d: %s", e.Code, e.Message)
}

// ParseRemoteError recognizes an error payload in body. The code may be a JSON
// number, a decimal string or a 0x-prefixed hex string.
func ParseRemoteError(statusCode int, body []byte) (*RemoteError, bool) {
	if !gjson.ValidBytes(body) {
		return nil, false
	}
	code := gjson.GetBytes(body, "code")
	message := gjson.GetBytes(body, "message")
	if !code.Exists() || !message.Exists() {
		return nil, false
	}
	n, ok := normalizeCode(code)
	if !ok {
		return nil, false
	}
	return &RemoteError{Code: n, Message: message.String(), StatusCode: statusCode}, true
}

func normalizeCode(v gjson.Result) (int, bool) {
	switch v.Type {
	case gjson.Number:
		return int(v.Int()), true
	case gjson.String:
		s := strings.TrimSpace(v.Str)
		base := 10
		if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
			s, base = s[2:], 16
		}
		n, err := strconv.ParseInt(s, base, 64)
		if err != nil {
			return 0, false
		}
		return int(n), true
	default:
		return 0, false
	}
}

// ==============================================
// HELPER FUNCTIONS
// ==============================================

// IsPreconditionError checks if err comes from an unbound service
func IsPreconditionError(err error) bool {
	return errors.Is(err, ErrNotInitialized)
}

// IsValidationError checks if err is an argument or DTO validation failure
func IsValidationError(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsTransportError checks if err is a transport failure
func IsTransportError(err error) bool {
	return errors.Is(err, ErrTransport)
}

// IsRemoteError checks if err carries a remote error payload
func IsRemoteError(err error) bool {
	var remote *RemoteError
	return errors.As(err, &remote)
}
