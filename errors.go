package go_walley

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/stremovskyy/go-walley/checkout"
	"github.com/stremovskyy/go-walley/internal/httpclient"
)

// ValidationError indicates that a request is missing required fields or contains invalid data.
type ValidationError struct {
	Fields []FieldError
}

type FieldError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e == nil || len(e.Fields) == 0 {
		return "validation error"
	}
	if len(e.Fields) == 1 {
		fe := e.Fields[0]
		if fe.Field == "" {
			return fmt.Sprintf("validation error: %s", fe.Message)
		}
		return fmt.Sprintf("validation error: %s %s", fe.Field, fe.Message)
	}
	return fmt.Sprintf("validation error: %d fields", len(e.Fields))
}

func (e *ValidationError) Add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

func (e *ValidationError) HasErrors() bool {
	return e != nil && len(e.Fields) > 0
}

// IsValidationError checks whether err is a *ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func fromCheckoutValidation(err error) error {
	var ce *checkout.ValidationError
	if errors.As(err, &ce) {
		return &ValidationError{Fields: []FieldError{{Field: ce.Field, Message: ce.Message}}}
	}
	return err
}

// ErrorKind tells where a WalleyError came from.
type ErrorKind int

const (
	// ErrorKindUnknown is the generic 400 "Unknown error".
	ErrorKindUnknown ErrorKind = iota
	// ErrorKindMalformedRequest means the URL could not be built; nothing was sent.
	ErrorKindMalformedRequest
	// ErrorKindApplication is an error returned by the checkout API itself.
	ErrorKindApplication
	// ErrorKindHTTPStatus is derived from the HTTP status of an unreadable response.
	ErrorKindHTTPStatus
)

func (k ErrorKind) String() string {
	switch k {
	case ErrorKindMalformedRequest:
		return "malformed_request"
	case ErrorKindApplication:
		return "application"
	case ErrorKindHTTPStatus:
		return "http_status"
	default:
		return "unknown"
	}
}

// ErrorMessage is one field-level error reported by the API.
type ErrorMessage struct {
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

// WalleyError is a failed checkout API call.
type WalleyError struct {
	Code    int            `json:"code"`
	Message string         `json:"message"`
	Errors  []ErrorMessage `json:"errors"`
	Kind    ErrorKind      `json:"-"`
}

func (e *WalleyError) Error() string {
	if e == nil {
		return "walley error"
	}
	return strings.TrimSuffix(e.Description(), "\n")
}

// Description is the human-readable form: the code and message on the first
// line followed by one line per field error.
func (e *WalleyError) Description() string {
	if e == nil {
		return ""
	}
	msgs := make([]string, 0, len(e.Errors))
	for _, m := range e.Errors {
		msgs = append(msgs, m.Message)
	}
	return "WalleyError code " + strconv.Itoa(e.Code) + ": " + e.Message + "\n" + strings.Join(msgs, "\n")
}

// FailureReason joins the reasons of all field errors.
func (e *WalleyError) FailureReason() string {
	if e == nil {
		return ""
	}
	reasons := make([]string, 0, len(e.Errors))
	for _, m := range e.Errors {
		reasons = append(reasons, m.Reason)
	}
	return strings.Join(reasons, ", ")
}

// TransportError wraps a network failure; no usable response was received.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	if e == nil || e.Err == nil {
		return "walley transport error"
	}
	return "walley transport error: " + e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// AsWalleyError returns the *WalleyError in err's chain.
func AsWalleyError(err error) (*WalleyError, bool) {
	var we *WalleyError
	if errors.As(err, &we) {
		return we, true
	}
	return nil, false
}

// IsMalformedRequest reports whether the request URL could not be built.
func IsMalformedRequest(err error) bool {
	we, ok := AsWalleyError(err)
	return ok && we.Kind == ErrorKindMalformedRequest
}

// IsApplicationError reports whether the API answered with an error envelope.
func IsApplicationError(err error) bool {
	we, ok := AsWalleyError(err)
	return ok && we.Kind == ErrorKindApplication
}

func IsTransportError(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

func wrapAPIError(err error) error {
	if err == nil {
		return nil
	}
	var apiErr *httpclient.APIError
	if errors.As(err, &apiErr) {
		we := &WalleyError{
			Code:    apiErr.Code,
			Message: apiErr.Message,
			Errors:  make([]ErrorMessage, 0, len(apiErr.Errors)),
			Kind:    errorKind(apiErr.Kind),
		}
		for _, fe := range apiErr.Errors {
			we.Errors = append(we.Errors, ErrorMessage{Reason: fe.Reason, Message: fe.Message})
		}
		return we
	}
	var te *httpclient.TransportError
	if errors.As(err, &te) {
		return &TransportError{Err: te.Err}
	}
	return err
}

func errorKind(k httpclient.Kind) ErrorKind {
	switch k {
	case httpclient.KindMalformedRequest:
		return ErrorKindMalformedRequest
	case httpclient.KindApplication:
		return ErrorKindApplication
	case httpclient.KindHTTPStatus:
		return ErrorKindHTTPStatus
	default:
		return ErrorKindUnknown
	}
}
