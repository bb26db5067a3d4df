package go_walley

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stremovskyy/go-walley/consts"
	"github.com/stremovskyy/go-walley/log"
	"github.com/stremovskyy/recorder"
	"go.opentelemetry.io/otel/trace"
)

type Option func(*config) error

// Doer sends one HTTP request. *http.Client satisfies it; tests and custom
// transports can plug in their own.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// DoerFunc adapts a function to Doer.
type DoerFunc func(req *http.Request) (*http.Response, error)

func (f DoerFunc) Do(req *http.Request) (*http.Response, error) { return f(req) }

type config struct {
	environment consts.Environment
	credentials *Credentials

	httpClient *http.Client
	doer       Doer
	userAgent  string
	logger     log.Logger
	logBodies  bool
	recorder   recorder.Recorder

	registerer     prometheus.Registerer
	tracerProvider trace.TracerProvider

	canonicalJSON    bool
	validateRequests bool
}

func defaultConfig() config {
	return config{
		environment: consts.Production,
		// No client timeout: timeouts are left to the transport and ctx.
		httpClient: &http.Client{},
		userAgent:  defaultUserAgent(),
		logger:     log.NewDefault(),
	}
}

// WithEnvironment selects the backend and frontend hosts.
func WithEnvironment(env consts.Environment) Option {
	return func(cfg *config) error {
		if env.BackendHost == "" || env.FrontendHost == "" {
			return errors.New("environment hosts are empty")
		}
		cfg.environment = env
		return nil
	}
}

// WithEnvironmentName is WithEnvironment for names like "production" or "test".
func WithEnvironmentName(name string) Option {
	return func(cfg *config) error {
		env, err := consts.ParseEnvironment(name)
		if err != nil {
			return err
		}
		cfg.environment = env
		return nil
	}
}

// WithCredentials sets the SharedKey credentials used to sign every request.
// Without credentials requests are sent unsigned.
func WithCredentials(creds Credentials) Option {
	return func(cfg *config) error {
		if strings.TrimSpace(creds.Username) == "" {
			return errors.New("credentials username is empty")
		}
		if creds.AccessKey == "" {
			return errors.New("credentials access key is empty")
		}
		c := creds
		cfg.credentials = &c
		return nil
	}
}

// WithHTTPClient sets a custom *http.Client.
func WithHTTPClient(client *http.Client) Option {
	return func(cfg *config) error {
		if client == nil {
			return errors.New("http client is nil")
		}
		cfg.httpClient = client
		return nil
	}
}

// WithTransport sets the round tripper of the SDK's http client.
func WithTransport(rt http.RoundTripper) Option {
	return func(cfg *config) error {
		if rt == nil {
			return errors.New("transport is nil")
		}
		cfg.httpClient.Transport = rt
		return nil
	}
}

// WithDoer replaces the http client entirely with a custom fetch function.
func WithDoer(d Doer) Option {
	return func(cfg *config) error {
		if d == nil {
			return errors.New("doer is nil")
		}
		cfg.doer = d
		return nil
	}
}

// WithTimeout sets http client timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(cfg *config) error {
		if timeout <= 0 {
			return errors.New("timeout must be > 0")
		}
		cfg.httpClient.Timeout = timeout
		return nil
	}
}

// WithUserAgent overrides the default User-Agent.
func WithUserAgent(ua string) Option {
	return func(cfg *config) error {
		if strings.TrimSpace(ua) == "" {
			return errors.New("user agent is empty")
		}
		cfg.userAgent = ua
		return nil
	}
}

func WithLogger(logger log.Logger) Option {
	return func(cfg *config) error {
		if logger == nil {
			cfg.logger = log.NopLogger{}
			return nil
		}
		cfg.logger = logger
		return nil
	}
}

// WithLogHTTPBodies enables verbose request/response body logging for debugging.
//
// Disabled by default because bodies may contain personal data.
func WithLogHTTPBodies(enabled bool) Option {
	return func(cfg *config) error {
		cfg.logBodies = enabled
		return nil
	}
}

// WithRecorder attaches a recorder that stores raw requests, responses and errors.
func WithRecorder(r recorder.Recorder) Option {
	return func(cfg *config) error {
		cfg.recorder = r
		return nil
	}
}

// WithMetrics registers request counters and latency histograms on reg.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(cfg *config) error {
		if reg == nil {
			return errors.New("prometheus registerer is nil")
		}
		cfg.registerer = reg
		return nil
	}
}

// WithTracerProvider sets where request spans go. Defaults to the global provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(cfg *config) error {
		if tp == nil {
			return errors.New("tracer provider is nil")
		}
		cfg.tracerProvider = tp
		return nil
	}
}

// WithCanonicalJSON sends request bodies in canonical JSON form (sorted keys,
// normalized numbers). Numbers keep full precision but not their literal form:
// 100.00 is sent as 100 and 99.50 as 9.95E1. The signature always covers the
// bytes actually sent.
func WithCanonicalJSON(enabled bool) Option {
	return func(cfg *config) error {
		cfg.canonicalJSON = enabled
		return nil
	}
}

// WithRequestValidation checks documented field constraints locally before
// sending. Off by default; the server remains authoritative.
func WithRequestValidation(enabled bool) Option {
	return func(cfg *config) error {
		cfg.validateRequests = enabled
		return nil
	}
}
