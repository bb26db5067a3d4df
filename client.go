package go_walley

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"runtime"

	"github.com/stremovskyy/go-walley/checkout"
	"github.com/stremovskyy/go-walley/consts"
	"github.com/stremovskyy/go-walley/embed"
	"github.com/stremovskyy/go-walley/internal/httpclient"
	"github.com/stremovskyy/go-walley/internal/jsonutil"
	"github.com/stremovskyy/go-walley/internal/telemetry"
	"github.com/stremovskyy/go-walley/log"
	"github.com/stremovskyy/recorder"
)

// Client is the main Walley Checkout SDK client.
//
// Requests to the checkout backend are signed with the SharedKey scheme when
// credentials are configured.
type Client struct {
	cfg config

	api      *httpclient.Client
	checkout *CheckoutService
}

func NewClient(opts ...Option) (Walley, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	tel, err := telemetry.New(cfg.registerer, cfg.tracerProvider)
	if err != nil {
		return nil, fmt.Errorf("init telemetry: %w", err)
	}

	var doer httpclient.Doer = cfg.httpClient
	if cfg.doer != nil {
		doer = cfg.doer
	}

	c := &Client{cfg: cfg}
	c.api = httpclient.New(doer, cfg.userAgent, cfg.logger, cfg.recorder, tel, cfg.logBodies)
	c.checkout = &CheckoutService{c: c}
	return c, nil
}

// NewDefaultClient is a convenience wrapper around NewClient() with default configuration.
func NewDefaultClient() (Walley, error) {
	return NewClient()
}

// NewClientWithRecorder attaches rec before applying opts.
func NewClientWithRecorder(rec recorder.Recorder, opts ...Option) (Walley, error) {
	opts = append([]Option{WithRecorder(rec)}, opts...)
	return NewClient(opts...)
}

func (c *Client) Checkout() *CheckoutService { return c.checkout }

func (c *Client) Environment() consts.Environment { return c.cfg.environment }

// SetLogLevel updates SDK log level when current logger supports it.
func (c *Client) SetLogLevel(level log.Level) {
	if c == nil || c.cfg.logger == nil {
		return
	}
	if l, ok := c.cfg.logger.(interface{ SetLevel(log.Level) }); ok {
		l.SetLevel(level)
	}
}

// Sign returns the SharedKey token for body sent to path.
func (c *Client) Sign(body []byte, path string) (string, error) {
	if c == nil {
		return "", errors.New("client is not initialized")
	}
	if c.cfg.credentials == nil {
		return "", errors.New("credentials are not configured; use WithCredentials(...)")
	}
	return c.cfg.credentials.signer().Sign(body, path)
}

func (c *Client) CreateCheckoutSnippet(publicToken string, opts ...embed.Option) string {
	return embed.Snippet(c.cfg.environment.FrontendHost, publicToken, opts...)
}

func (c *Client) CreateCheckoutHTML(publicToken string, opts ...embed.Option) string {
	return embed.HTML(c.cfg.environment.FrontendHost, publicToken, opts...)
}

// signer returns nil when no credentials are configured, so requests go out
// without an Authorization header.
func (c *Client) signer() httpclient.Signer {
	if c.cfg.credentials == nil {
		return nil
	}
	return c.cfg.credentials.signer()
}

func (c *Client) dryRunRequest(method, host, path string, body []byte) DryRunRequest {
	req := DryRunRequest{Method: method, URL: host + path, Body: body}
	if signer := c.signer(); signer != nil {
		if body == nil {
			body = []byte{}
		}
		if auth, err := signer.Header(body, path); err == nil {
			req.Authorization = auth
		}
	}
	return req
}

// failLocal logs an error detected before or after the HTTP exchange. Errors
// from the exchange itself are logged by httpclient.
func (c *Client) failLocal(op string, err error) error {
	if c.cfg.logger != nil {
		c.cfg.logger.Errorf("[Walley] %s failed: %v", op, err)
	}
	return err
}

func (c *Client) marshal(v any) ([]byte, error) {
	if c.cfg.canonicalJSON {
		return jsonutil.MarshalCanonical(v)
	}
	return jsonutil.Marshal(v)
}

func defaultUserAgent() string {
	return fmt.Sprintf("%s/%s %s/%s/%s", consts.SDKName, consts.SDKVersion, runtime.GOOS, runtime.Version(), runtime.GOARCH)
}

// =========================
// Checkout
// =========================

type CheckoutService struct{ c *Client }

// InitCheckoutResult is delivered by InitCheckoutAsync.
type InitCheckoutResult struct {
	Data *checkout.InitCheckoutData
	Err  error
}

// InitCheckout creates a checkout session and returns its public token.
func (s *CheckoutService) InitCheckout(ctx context.Context, req *checkout.Checkout, runOpts ...RunOption) (*checkout.InitCheckoutData, error) {
	if s == nil || s.c == nil {
		return nil, errors.New("client is nil")
	}
	if req == nil {
		return nil, s.c.failLocal("init checkout", &ValidationError{Fields: []FieldError{{Field: "checkout", Message: "is nil"}}})
	}
	if s.c.cfg.validateRequests {
		if err := req.Validate(); err != nil {
			return nil, s.c.failLocal("init checkout", fromCheckoutValidation(err))
		}
	}

	body, err := s.c.marshal(req)
	if err != nil {
		return nil, s.c.failLocal("init checkout", fmt.Errorf("marshal checkout: %w", err))
	}

	host := s.c.cfg.environment.BackendHost
	if s.c.dryRun(runOpts, func() DryRunRequest { return s.c.dryRunRequest(http.MethodPost, host, consts.CheckoutPath, body) }) {
		return nil, nil
	}
	out, err := httpclient.Do[checkout.InitCheckoutData](ctx, s.c.api, http.MethodPost, host, consts.CheckoutPath, body, s.c.signer())
	if err != nil {
		return nil, wrapAPIError(err)
	}
	return out, nil
}

// InitCheckoutAsync runs InitCheckout in its own goroutine. The returned
// channel yields exactly one result and is then closed.
func (s *CheckoutService) InitCheckoutAsync(ctx context.Context, req *checkout.Checkout, runOpts ...RunOption) <-chan InitCheckoutResult {
	ch := make(chan InitCheckoutResult, 1)
	go func() {
		defer close(ch)
		data, err := s.InitCheckout(ctx, req, runOpts...)
		ch <- InitCheckoutResult{Data: data, Err: err}
	}()
	return ch
}

// Do sends body to an arbitrary checkout API path and decodes the envelope
// data into out (if out != nil).
func (s *CheckoutService) Do(ctx context.Context, method string, path string, body any, out any, runOpts ...RunOption) error {
	if s == nil || s.c == nil {
		return errors.New("client is nil")
	}
	var payload []byte
	if body != nil {
		var err error
		if payload, err = s.c.marshal(body); err != nil {
			return s.c.failLocal(method+" "+path, fmt.Errorf("marshal request: %w", err))
		}
	}

	host := s.c.cfg.environment.BackendHost
	if s.c.dryRun(runOpts, func() DryRunRequest { return s.c.dryRunRequest(method, host, path, payload) }) {
		return nil
	}
	data, err := httpclient.Do[json.RawMessage](ctx, s.c.api, method, host, path, payload, s.c.signer())
	if err != nil {
		return wrapAPIError(err)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(*data, out); err != nil {
		return s.c.failLocal(method+" "+path, fmt.Errorf("decode response data: %w", err))
	}
	return nil
}
