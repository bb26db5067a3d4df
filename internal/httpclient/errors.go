package httpclient

import (
	"strconv"
	"strings"
)

// Kind classifies where an APIError came from.
type Kind int

const (
	// KindUnknown is the generic 400 "Unknown error" fallback.
	KindUnknown Kind = iota
	// KindMalformedRequest means host+path was not a usable URL; nothing was sent.
	KindMalformedRequest
	// KindApplication is an error object returned inside the response envelope.
	KindApplication
	// KindHTTPStatus is derived from the HTTP status of an unreadable response.
	KindHTTPStatus
)

func (k Kind) String() string {
	switch k {
	case KindMalformedRequest:
		return "malformed_request"
	case KindApplication:
		return "application"
	case KindHTTPStatus:
		return "http_status"
	default:
		return "unknown"
	}
}

// APIError is a checkout API failure with a code, message and field errors.
type APIError struct {
	Kind    Kind
	Code    int
	Message string
	Errors  []FieldError
}

// Error renders the code and message followed by one line per field error.
func (e *APIError) Error() string {
	if e == nil {
		return "walley error"
	}
	var b strings.Builder
	b.WriteString("WalleyError code ")
	b.WriteString(strconv.Itoa(e.Code))
	b.WriteString(": ")
	b.WriteString(e.Message)
	for _, fe := range e.Errors {
		b.WriteByte('\n')
		b.WriteString(fe.Message)
	}
	return b.String()
}

// TransportError wraps a failure of the Doer or of reading the response body.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	if e == nil || e.Err == nil {
		return "transport error"
	}
	return "transport error: " + e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
