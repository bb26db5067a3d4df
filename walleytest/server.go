// Package walleytest provides an in-process checkout backend for tests and
// local development. It verifies SharedKey signatures and answers with the
// same envelope as the real API.
package walleytest

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stremovskyy/go-walley/checkout"
	"github.com/stremovskyy/go-walley/consts"
	"github.com/stremovskyy/go-walley/internal/signature"
)

// SessionLifetime is how long issued sessions stay valid.
const SessionLifetime = 168 * time.Hour

// Request is a request received by the server.
type Request struct {
	Method string
	Path   string
	Header http.Header
	Body   []byte
}

// ErrorBody is the error object of a response envelope.
type ErrorBody struct {
	Code    int            `json:"code"`
	Message string         `json:"message"`
	Errors  []ErrorMessage `json:"errors"`
}

type ErrorMessage struct {
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

// Responder overrides the reply to POST /checkout. Returning a non-nil error
// body sends it with status; otherwise data is wrapped in the envelope.
type Responder func(c *checkout.Checkout) (data *checkout.InitCheckoutData, errBody *ErrorBody, status int)

// Server is a stub Walley Checkout backend.
type Server struct {
	*httptest.Server

	verifier  *signature.SharedKeySigner
	validate  bool
	responder Responder
	now       func() time.Time

	mu       sync.Mutex
	requests []Request
}

type Option func(*Server)

// WithValidation rejects checkouts that break documented field constraints
// with a 422 error envelope.
func WithValidation() Option { return func(s *Server) { s.validate = true } }

func WithResponder(r Responder) Option { return func(s *Server) { s.responder = r } }

// WithClock fixes the time used for expiresAt.
func WithClock(now func() time.Time) Option { return func(s *Server) { s.now = now } }

// NewServer starts a server accepting requests signed with username and
// accessKey. Call Close when done.
func NewServer(username, accessKey string, opts ...Option) *Server {
	s := &Server{
		verifier: &signature.SharedKeySigner{Username: username, AccessKey: accessKey},
		now:      time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	s.Server = httptest.NewServer(s.router())
	return s
}

// Environment points both hosts at the stub.
func (s *Server) Environment() consts.Environment {
	return consts.CustomEnvironment("stub", s.URL, s.URL)
}

// Requests returns a copy of every request received so far.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Request, len(s.requests))
	copy(out, s.requests)
	return out
}

func (s *Server) router() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(gin.Recovery(), s.capture)

	router.POST(consts.CheckoutPath, s.authenticate, s.initCheckout)
	router.GET(consts.CheckoutLoaderScript, loaderScript)
	router.NoRoute(func(c *gin.Context) {
		abort(c, http.StatusNotFound, "Not found", nil)
	})
	return router
}

func (s *Server) capture(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		abort(c, http.StatusBadRequest, "Cannot read body", nil)
		return
	}
	c.Set("body", body)

	s.mu.Lock()
	s.requests = append(s.requests, Request{
		Method: c.Request.Method,
		Path:   c.Request.URL.Path,
		Header: c.Request.Header.Clone(),
		Body:   body,
	})
	s.mu.Unlock()
	c.Next()
}

func (s *Server) authenticate(c *gin.Context) {
	body := c.MustGet("body").([]byte)
	if err := s.verifier.Verify(c.GetHeader(consts.HeaderAuthorization), body, c.Request.URL.Path); err != nil {
		abort(c, http.StatusUnauthorized, "Unauthorized", []ErrorMessage{{Reason: "Authorization", Message: err.Error()}})
		return
	}
	c.Next()
}

func (s *Server) initCheckout(c *gin.Context) {
	body := c.MustGet("body").([]byte)
	var req checkout.Checkout
	if err := json.Unmarshal(body, &req); err != nil {
		abort(c, http.StatusBadRequest, "Invalid request body", []ErrorMessage{{Reason: "Json", Message: err.Error()}})
		return
	}
	if s.validate {
		if err := req.Validate(); err != nil {
			abort(c, http.StatusUnprocessableEntity, "Request validation failed", []ErrorMessage{{Reason: "Validation", Message: err.Error()}})
			return
		}
	}

	if s.responder != nil {
		data, errBody, status := s.responder(&req)
		if errBody != nil {
			c.JSON(status, gin.H{"id": uuid.NewString(), "error": errBody})
			return
		}
		if status == 0 {
			status = http.StatusOK
		}
		c.JSON(status, gin.H{"id": uuid.NewString(), "data": data})
		return
	}

	token := "public-" + strings.ToUpper(req.CountryCode) + "-" + uuid.NewString()
	c.JSON(http.StatusOK, gin.H{
		"id": uuid.NewString(),
		"data": checkout.InitCheckoutData{
			PublicToken: token,
			PrivateID:   uuid.NewString(),
			ExpiresAt:   checkout.Timestamp{Time: s.now().Add(SessionLifetime)},
			PaymentURI:  s.URL + "/purchase/" + token,
		},
	})
}

func loaderScript(c *gin.Context) {
	c.Data(http.StatusOK, "application/javascript", []byte("/* walley checkout stub loader */\n"))
}

func abort(c *gin.Context, status int, message string, errs []ErrorMessage) {
	if errs == nil {
		errs = []ErrorMessage{}
	}
	c.AbortWithStatusJSON(status, gin.H{
		"id":    uuid.NewString(),
		"error": ErrorBody{Code: status, Message: message, Errors: errs},
	})
}
