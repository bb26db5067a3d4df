package go_walley

import (
	"bytes"
	"encoding/json"

	"github.com/stremovskyy/go-walley/log"
)

// RunOption controls behavior of a single SDK call.
type RunOption func(*runOptions)

// DryRunRequest is the request a call would have sent.
type DryRunRequest struct {
	Method string
	URL    string
	Body   []byte
	// Authorization is the SharedKey header value, empty without credentials.
	Authorization string
}

// PrettyBody returns Body indented when it is JSON and unchanged otherwise.
func (r DryRunRequest) PrettyBody() string {
	if len(r.Body) == 0 {
		return "<empty>"
	}
	var out bytes.Buffer
	if err := json.Indent(&out, r.Body, "", "  "); err != nil {
		return string(r.Body)
	}
	return out.String()
}

// DryRunHandler receives the request that was not sent.
type DryRunHandler func(req DryRunRequest)

type runOptions struct {
	dryRun  bool
	handler DryRunHandler
}

// DryRun builds, signs and reports the request without sending it. Calls
// then return a nil result and a nil error.
//
// Without a handler the request is logged at info level through the client
// logger.
func DryRun(handler ...DryRunHandler) RunOption {
	return func(o *runOptions) {
		o.dryRun = true
		if len(handler) > 0 && handler[0] != nil {
			o.handler = handler[0]
		}
	}
}

func collectRunOptions(opts []RunOption) runOptions {
	var r runOptions
	for _, opt := range opts {
		if opt != nil {
			opt(&r)
		}
	}
	return r
}

// dryRun reports req and returns true when runOpts ask for a dry run. build is
// only evaluated in that case.
func (c *Client) dryRun(runOpts []RunOption, build func() DryRunRequest) bool {
	opts := collectRunOptions(runOpts)
	if !opts.dryRun {
		return false
	}
	req := build()
	if opts.handler != nil {
		opts.handler(req)
		return true
	}
	logDryRun(c.cfg.logger, req)
	return true
}

func logDryRun(logger log.Logger, req DryRunRequest) {
	if logger == nil {
		return
	}
	signed := "unsigned"
	if req.Authorization != "" {
		signed = "signed"
	}
	logger.Infof("Dry run: skipping %s request %s %s", signed, req.Method, req.URL)
	logger.Infof("Dry run payload:\n%s", req.PrettyBody())
}
