package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/stremovskyy/go-walley/consts"
	"github.com/stremovskyy/go-walley/internal/telemetry"
	"github.com/stremovskyy/go-walley/log"
	"github.com/stremovskyy/recorder"
)

// Signer produces the Authorization header value for a request.
//
// The SDK signs the exact request body bytes and path it sends.
type Signer interface {
	Header(body []byte, path string) (string, error)
}

// Doer sends a single HTTP request. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// DoerFunc adapts a function to Doer.
type DoerFunc func(req *http.Request) (*http.Response, error)

func (f DoerFunc) Do(req *http.Request) (*http.Response, error) { return f(req) }

// Client sends signed JSON requests and decodes the checkout API envelope.
// It is internal on purpose: the public API lives in the root package.
type Client struct {
	doer      Doer
	userAgent string
	logger    log.Logger
	recorder  recorder.Recorder
	telemetry *telemetry.Telemetry
	logBodies bool
}

// New creates an internal HTTP client. A nil doer uses http.DefaultClient so
// timeouts stay with the transport.
func New(doer Doer, userAgent string, logger log.Logger, rec recorder.Recorder, tel *telemetry.Telemetry, logBodies bool) *Client {
	if doer == nil {
		doer = http.DefaultClient
	}
	if logger == nil {
		logger = log.NopLogger{}
	}
	return &Client{
		doer:      doer,
		userAgent: userAgent,
		logger:    logger,
		recorder:  rec,
		telemetry: tel,
		logBodies: logBodies,
	}
}

// Envelope is the wrapper of every checkout API response.
type Envelope[T any] struct {
	ID    *string    `json:"id"`
	Data  *T         `json:"data,omitempty"`
	Error *ErrorBody `json:"error,omitempty"`
}

// ErrorBody is the application error carried in an envelope.
type ErrorBody struct {
	Code    int          `json:"code"`
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors,omitempty"`
}

type FieldError struct {
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

// Do sends body to host+path and returns the envelope data.
//
// The result is decided in this order: envelope data, envelope error, transport
// failure, HTTP status, and finally a generic 400 "Unknown error".
func Do[T any](ctx context.Context, c *Client, method, host, path string, body []byte, signer Signer) (*T, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	requestID := nextRequestID()
	rawURL := host + path

	ctx, span := c.telemetry.Start(ctx, method, path, requestID)

	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		apiErr := &APIError{Kind: KindMalformedRequest, Code: http.StatusBadRequest, Message: "Malformed url: " + rawURL}
		c.fail(ctx, span, requestID, method, rawURL, 0, telemetry.OutcomeMalformed, apiErr)
		return nil, apiErr
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		apiErr := &APIError{Kind: KindMalformedRequest, Code: http.StatusBadRequest, Message: "Malformed url: " + rawURL}
		c.fail(ctx, span, requestID, method, rawURL, 0, telemetry.OutcomeMalformed, apiErr)
		return nil, apiErr
	}

	req.Header.Set(consts.HeaderContentType, consts.ContentTypeJSON)
	req.Header.Set(consts.HeaderAccept, consts.ContentTypeJSON)
	if c.userAgent != "" {
		req.Header.Set(consts.HeaderUserAgent, c.userAgent)
	}
	if signer != nil {
		sigInput := body
		if sigInput == nil {
			sigInput = []byte{}
		}
		auth, err := signer.Header(sigInput, path)
		if err != nil {
			signErr := fmt.Errorf("sign request: %w", err)
			c.fail(ctx, span, requestID, method, rawURL, 0, telemetry.OutcomeMalformed, signErr)
			return nil, signErr
		}
		req.Header.Set(consts.HeaderAuthorization, auth)
	}

	c.logger.Debugf("[Walley HTTP] request prepared: request_id=%s method=%s url=%s payload=%s", requestID, method, rawURL, logBody(body, c.logBodies))
	c.recordRequest(ctx, requestID, body)

	// A doer may return a response together with an error (e.g. a redirect
	// policy stop). An envelope in that body still wins over the error.
	resp, doErr := c.doer.Do(req)
	if resp == nil {
		if doErr != nil {
			tErr := &TransportError{Err: doErr}
			c.fail(ctx, span, requestID, method, rawURL, 0, telemetry.OutcomeTransport, tErr)
			return nil, tErr
		}
		return nil, c.unknown(ctx, span, requestID, method, rawURL)
	}

	var raw []byte
	if resp.Body != nil {
		defer resp.Body.Close()
		var readErr error
		raw, readErr = io.ReadAll(resp.Body)
		if readErr != nil && doErr == nil {
			doErr = fmt.Errorf("read response body: %w", readErr)
		}
	}
	c.recordResponse(ctx, requestID, raw)

	c.logger.Debugf("[Walley HTTP] response received: request_id=%s method=%s url=%s status=%d response=%s", requestID, method, rawURL, resp.StatusCode, logBody(raw, c.logBodies))

	if env, ok := decodeEnvelope[T](raw); ok {
		if env.Data != nil {
			span.End(telemetry.OutcomeSuccess, resp.StatusCode, nil)
			return env.Data, nil
		}
		if env.Error != nil {
			apiErr := &APIError{
				Kind:    KindApplication,
				Code:    env.Error.Code,
				Message: env.Error.Message,
				Errors:  env.Error.Errors,
			}
			c.fail(ctx, span, requestID, method, rawURL, resp.StatusCode, telemetry.OutcomeAPIError, apiErr)
			return nil, apiErr
		}
	}

	if doErr != nil {
		tErr := &TransportError{Err: doErr}
		c.fail(ctx, span, requestID, method, rawURL, resp.StatusCode, telemetry.OutcomeTransport, tErr)
		return nil, tErr
	}

	if resp.StatusCode > 0 {
		apiErr := &APIError{Kind: KindHTTPStatus, Code: resp.StatusCode, Message: statusMessage(resp)}
		c.fail(ctx, span, requestID, method, rawURL, resp.StatusCode, telemetry.OutcomeHTTPError, apiErr)
		return nil, apiErr
	}

	return nil, c.unknown(ctx, span, requestID, method, rawURL)
}

func (c *Client) unknown(ctx context.Context, span *telemetry.Request, requestID, method, rawURL string) error {
	apiErr := &APIError{Kind: KindUnknown, Code: http.StatusBadRequest, Message: "Unknown error"}
	c.fail(ctx, span, requestID, method, rawURL, 0, telemetry.OutcomeUnknown, apiErr)
	return apiErr
}

// decodeEnvelope reports false when raw is not a complete envelope, including
// when data does not decode into T.
func decodeEnvelope[T any](raw []byte) (*Envelope[T], bool) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, false
	}
	var env Envelope[T]
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, false
	}
	if env.ID == nil {
		return nil, false
	}
	return &env, true
}

func statusMessage(resp *http.Response) string {
	if text := http.StatusText(resp.StatusCode); text != "" {
		return text
	}
	if resp.Status != "" {
		return resp.Status
	}
	return fmt.Sprintf("HTTP %d", resp.StatusCode)
}

// fail logs, records and traces a failed request exactly once.
func (c *Client) fail(ctx context.Context, span *telemetry.Request, requestID, method, rawURL string, status int, outcome string, err error) {
	c.logger.Errorf("[Walley HTTP] request failed: request_id=%s method=%s url=%s status=%s err=%v", requestID, method, rawURL, telemetry.StatusLabel(status), err)
	c.recordError(ctx, requestID, err)
	span.End(outcome, status, err)
}

func (c *Client) recordRequest(ctx context.Context, requestID string, body []byte) {
	if c == nil || c.recorder == nil {
		return
	}
	if err := c.recorder.RecordRequest(ctx, nil, requestID, body, nil); err != nil {
		c.logger.Warnf("[Walley HTTP] cannot record request: %v", err)
	}
}

func (c *Client) recordResponse(ctx context.Context, requestID string, body []byte) {
	if c == nil || c.recorder == nil {
		return
	}
	if err := c.recorder.RecordResponse(ctx, nil, requestID, body, nil); err != nil {
		c.logger.Warnf("[Walley HTTP] cannot record response: %v", err)
	}
}

func (c *Client) recordError(ctx context.Context, requestID string, err error) {
	if c == nil || c.recorder == nil || err == nil {
		return
	}
	if recErr := c.recorder.RecordError(ctx, nil, requestID, err, nil); recErr != nil {
		c.logger.Warnf("[Walley HTTP] cannot record error: %v", recErr)
	}
}

func logBody(b []byte, verbose bool) string {
	if !verbose {
		return fmt.Sprintf("size=%d bytes", len(b))
	}
	if pretty, ok := prettyJSONPreview(b); ok {
		return pretty
	}
	return previewBytes(b)
}

func prettyJSONPreview(b []byte) (string, bool) {
	if len(b) == 0 || !json.Valid(b) {
		return "", false
	}
	var out bytes.Buffer
	if err := json.Indent(&out, b, "", "  "); err != nil {
		return "", false
	}
	return truncate(out.String(), 4096), true
}

func previewBytes(b []byte) string {
	s := strings.TrimSpace(string(b))
	if s == "" {
		return "<empty>"
	}
	if !utf8.ValidString(s) {
		return fmt.Sprintf("<binary size=%d bytes>", len(b))
	}
	return truncate(s, 4096)
}

func truncate(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	return s[:max] + "...(truncated)"
}

func nextRequestID() string {
	return uuid.NewString()
}
