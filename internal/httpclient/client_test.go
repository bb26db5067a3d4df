package httpclient

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/stremovskyy/go-walley/internal/signature"
	sdklog "github.com/stremovskyy/go-walley/log"
	"github.com/stremovskyy/recorder"
)

type session struct {
	PublicToken string `json:"publicToken"`
}

func TestNextRequestIDIsUUIDv4(t *testing.T) {
	id := nextRequestID()

	parsed, err := uuid.Parse(id)
	if err != nil {
		t.Fatalf("request_id must be a valid UUID, got %q: %v", id, err)
	}
	if parsed.Version() != 4 {
		t.Fatalf("request_id must be UUID v4, got version %d (%q)", parsed.Version(), id)
	}
}

func TestDoMalformedURLNeverCallsDoer(t *testing.T) {
	for _, host := range []string{"", "not a url", "http://", "://missing-scheme", "https://bad host"} {
		t.Run(host, func(t *testing.T) {
			var calls int32
			doer := DoerFunc(func(*http.Request) (*http.Response, error) {
				atomic.AddInt32(&calls, 1)
				return nil, errors.New("must not be called")
			})
			rec := &testRecorder{}
			logger := &testLogger{level: sdklog.LevelDebug}
			c := New(doer, "ua", logger, rec, nil, false)

			_, err := Do[session](context.Background(), c, http.MethodPost, host, "/checkout", []byte(`{}`), nil)

			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("expected *APIError, got %T %v", err, err)
			}
			if apiErr.Kind != KindMalformedRequest || apiErr.Code != http.StatusBadRequest {
				t.Fatalf("unexpected error %+v", apiErr)
			}
			if want := "Malformed url: " + host + "/checkout"; apiErr.Message != want {
				t.Fatalf("message = %q, want %q", apiErr.Message, want)
			}
			if atomic.LoadInt32(&calls) != 0 {
				t.Fatalf("doer must not be called for a malformed url")
			}
			if rec.requestCount != 0 || rec.errorCount != 1 {
				t.Fatalf("unexpected recorder counts %+v", rec)
			}
			if logger.errCount != 1 {
				t.Fatalf("failure must be logged once, got %d", logger.errCount)
			}
		})
	}
}

func respond(status int, body string) DoerFunc {
	return func(req *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: status,
			Status:     http.StatusText(status),
			Body:       io.NopCloser(strings.NewReader(body)),
			Request:    req,
		}, nil
	}
}

type closeSpy struct {
	io.Reader
	closed bool
}

func (c *closeSpy) Close() error {
	c.closed = true
	return nil
}

// respondWithError returns both a response and err, as http.Client does when
// its CheckRedirect policy stops a redirect.
func respondWithError(status int, body string, err error) (DoerFunc, *closeSpy) {
	spy := &closeSpy{Reader: strings.NewReader(body)}
	return func(req *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: status,
			Status:     http.StatusText(status),
			Body:       spy,
			Request:    req,
		}, err
	}, spy
}

func TestDoDecisionOrder(t *testing.T) {
	redirectDoer, _ := respondWithError(402, `{"id":"1","error":{"code":402,"message":"Payment required","errors":[]}}`, errors.New("stopped after redirect"))

	tests := []struct {
		name      string
		doer      DoerFunc
		wantToken string
		wantKind  Kind
		wantCode  int
		wantMsg   string
	}{
		{
			name:      "data",
			doer:      respond(200, `{"id":"1","data":{"publicToken":"tok"}}`),
			wantToken: "tok",
		},
		{
			name:      "data wins over status",
			doer:      respond(500, `{"id":"1","data":{"publicToken":"tok"}}`),
			wantToken: "tok",
		},
		{
			name:     "envelope error",
			doer:     respond(402, `{"id":"1","error":{"code":402,"message":"Payment required","errors":[{"reason":"Declined","message":"Card declined"}]}}`),
			wantKind: KindApplication,
			wantCode: 402,
			wantMsg:  "Payment required",
		},
		{
			name:     "envelope error wins over transport error",
			doer:     redirectDoer,
			wantKind: KindApplication,
			wantCode: 402,
			wantMsg:  "Payment required",
		},
		{
			name:     "id only falls back to status",
			doer:     respond(500, `{"id":"1"}`),
			wantKind: KindHTTPStatus,
			wantCode: 500,
			wantMsg:  "Internal Server Error",
		},
		{
			name:     "not json",
			doer:     respond(502, `<html>bad gateway</html>`),
			wantKind: KindHTTPStatus,
			wantCode: 502,
			wantMsg:  "Bad Gateway",
		},
		{
			name:     "missing id",
			doer:     respond(200, `{"data":{"publicToken":"tok"}}`),
			wantKind: KindHTTPStatus,
			wantCode: 200,
			wantMsg:  "OK",
		},
		{
			name:     "undecodable data",
			doer:     respond(200, `{"id":"1","data":{"publicToken":42}}`),
			wantKind: KindHTTPStatus,
			wantCode: 200,
			wantMsg:  "OK",
		},
		{
			name:     "no response",
			doer:     func(*http.Request) (*http.Response, error) { return nil, nil },
			wantKind: KindUnknown,
			wantCode: 400,
			wantMsg:  "Unknown error",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &testRecorder{}
			logger := &testLogger{level: sdklog.LevelDebug}
			c := New(tt.doer, "ua", logger, rec, nil, true)

			got, err := Do[session](context.Background(), c, http.MethodPost, "https://api.example", "/checkout", []byte(`{}`), nil)
			if tt.wantToken != "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if got.PublicToken != tt.wantToken {
					t.Fatalf("token = %q", got.PublicToken)
				}
				if rec.errorCount != 0 || logger.errCount != 0 {
					t.Fatalf("success must not record or log errors")
				}
				return
			}

			if got != nil {
				t.Fatalf("expected nil result, got %+v", got)
			}
			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("expected *APIError, got %T %v", err, err)
			}
			if apiErr.Kind != tt.wantKind || apiErr.Code != tt.wantCode || apiErr.Message != tt.wantMsg {
				t.Fatalf("got %+v, want kind=%v code=%d msg=%q", apiErr, tt.wantKind, tt.wantCode, tt.wantMsg)
			}
			if rec.errorCount != 1 || logger.errCount != 1 {
				t.Fatalf("failure must be recorded and logged once: rec=%d log=%d", rec.errorCount, logger.errCount)
			}
		})
	}
}

func TestAPIErrorRendersFieldErrors(t *testing.T) {
	err := &APIError{
		Code:    422,
		Message: "Validation failed",
		Errors: []FieldError{
			{Reason: "Required", Message: "cart.items is required"},
			{Reason: "Range", Message: "vat out of range"},
		},
	}
	want := "WalleyError code 422: Validation failed\ncart.items is required\nvat out of range"
	if err.Error() != want {
		t.Fatalf("got %q want %q", err.Error(), want)
	}
}

func TestDoTransportError(t *testing.T) {
	boom := errors.New("connection reset")
	c := New(DoerFunc(func(*http.Request) (*http.Response, error) { return nil, boom }), "ua", nil, nil, nil, false)

	_, err := Do[session](context.Background(), c, http.MethodPost, "https://api.example", "/checkout", nil, nil)
	var tErr *TransportError
	if !errors.As(err, &tErr) {
		t.Fatalf("expected *TransportError, got %T %v", err, err)
	}
	if !errors.Is(err, boom) {
		t.Fatalf("transport error must unwrap to the doer error")
	}
}

func TestDoReadsAndClosesBodyReturnedWithError(t *testing.T) {
	stop := errors.New("stopped after redirect")

	doer, spy := respondWithError(402, `{"id":"1","error":{"code":402,"message":"Payment required","errors":[]}}`, stop)
	_, err := Do[session](context.Background(), New(doer, "ua", nil, nil, nil, false), http.MethodPost, "https://api.example", "/checkout", []byte(`{}`), nil)
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Kind != KindApplication {
		t.Fatalf("expected application error, got %T %v", err, err)
	}
	if !spy.closed {
		t.Fatalf("response body was not closed")
	}

	// Without an envelope the doer error is reported.
	doer, spy = respondWithError(302, `<html>moved</html>`, stop)
	_, err = Do[session](context.Background(), New(doer, "ua", nil, nil, nil, false), http.MethodPost, "https://api.example", "/checkout", []byte(`{}`), nil)
	var tErr *TransportError
	if !errors.As(err, &tErr) || !errors.Is(err, stop) {
		t.Fatalf("expected transport error wrapping the doer error, got %T %v", err, err)
	}
	if !spy.closed {
		t.Fatalf("response body was not closed")
	}
}

func TestDoHonoursContextCancellation(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":"1","data":{"publicToken":"tok"}}`))
	}))
	defer ts.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := New(ts.Client(), "ua", nil, nil, nil, false)
	_, err := Do[session](ctx, c, http.MethodPost, ts.URL, "/checkout", []byte(`{}`), nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestDoSignsBodyAndSetsHeaders(t *testing.T) {
	signer := &signature.SharedKeySigner{Username: "merchant", AccessKey: "secret"}
	body := []byte(`{"countryCode":"SE"}`)

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ := io.ReadAll(r.Body)
		if string(got) != string(body) {
			t.Errorf("body = %s", got)
		}
		if err := signer.Verify(r.Header.Get("Authorization"), got, r.URL.Path); err != nil {
			t.Errorf("signature: %v", err)
		}
		if r.Header.Get("Content-Type") != "application/json" || r.Header.Get("Accept") != "application/json" {
			t.Errorf("unexpected content headers %v", r.Header)
		}
		if r.Header.Get("User-Agent") != "WalleyCheckoutGo/test" {
			t.Errorf("user agent = %q", r.Header.Get("User-Agent"))
		}
		_, _ = w.Write([]byte(`{"id":"1","data":{"publicToken":"tok"}}`))
	}))
	defer ts.Close()

	rec := &testRecorder{}
	c := New(ts.Client(), "WalleyCheckoutGo/test", nil, rec, nil, false)
	got, err := Do[session](context.Background(), c, http.MethodPost, ts.URL, "/checkout", body, signer)
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	if got.PublicToken != "tok" {
		t.Fatalf("token = %q", got.PublicToken)
	}
	if rec.requestCount != 1 || rec.responseCount != 1 || rec.errorCount != 0 {
		t.Fatalf("unexpected recorder counts %+v", rec)
	}
}

func TestDoWithoutSignerSendsNoAuthorization(t *testing.T) {
	var auth atomic.Value
	doer := DoerFunc(func(req *http.Request) (*http.Response, error) {
		auth.Store(req.Header.Get("Authorization"))
		return respond(200, `{"id":"1","data":{"publicToken":"tok"}}`)(req)
	})
	c := New(doer, "", nil, nil, nil, false)
	if _, err := Do[session](context.Background(), c, http.MethodPost, "https://api.example", "/checkout", nil, nil); err != nil {
		t.Fatalf("do: %v", err)
	}
	if got := auth.Load().(string); got != "" {
		t.Fatalf("unexpected authorization %q", got)
	}
}

func TestDoDoesNotSendWhenSigningFails(t *testing.T) {
	var calls int32
	doer := DoerFunc(func(*http.Request) (*http.Response, error) {
		atomic.AddInt32(&calls, 1)
		return nil, errors.New("unreachable")
	})
	c := New(doer, "ua", nil, nil, nil, false)

	_, err := Do[session](context.Background(), c, http.MethodPost, "https://api.example", "/checkout", []byte(`{}`), &signature.SharedKeySigner{})
	if err == nil || !strings.Contains(err.Error(), "sign request") {
		t.Fatalf("expected signing error, got %v", err)
	}
	if atomic.LoadInt32(&calls) != 0 {
		t.Fatalf("doer must not be called when signing fails")
	}
}

type testRecorder struct {
	requestCount  int
	responseCount int
	errorCount    int
}

func (t *testRecorder) RecordRequest(context.Context, *string, string, []byte, map[string]string) error {
	t.requestCount++
	return nil
}

func (t *testRecorder) RecordResponse(context.Context, *string, string, []byte, map[string]string) error {
	t.responseCount++
	return nil
}

func (t *testRecorder) RecordError(context.Context, *string, string, error, map[string]string) error {
	t.errorCount++
	return nil
}

func (t *testRecorder) RecordMetrics(context.Context, *string, string, map[string]string, map[string]string) error {
	return nil
}

func (t *testRecorder) GetRequest(context.Context, string) ([]byte, error) {
	return nil, nil
}

func (t *testRecorder) GetResponse(context.Context, string) ([]byte, error) {
	return nil, nil
}

func (t *testRecorder) FindByTag(context.Context, string) ([]string, error) {
	return nil, nil
}

func (t *testRecorder) Async() recorder.AsyncRecorder {
	return nil
}

type testLogger struct {
	level    sdklog.Level
	errCount int
}

func (t *testLogger) SetLevel(level sdklog.Level) { t.level = level }
func (t *testLogger) Debugf(string, ...any)       {}
func (t *testLogger) Infof(string, ...any)        {}
func (t *testLogger) Warnf(string, ...any)        {}

func (t *testLogger) Errorf(string, ...any) {
	if t.level <= sdklog.LevelError {
		t.errCount++
	}
}
