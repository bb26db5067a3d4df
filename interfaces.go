package go_walley

import (
	"github.com/stremovskyy/go-walley/consts"
	"github.com/stremovskyy/go-walley/embed"
	"github.com/stremovskyy/go-walley/log"
)

// Walley is the main SDK interface.
type Walley interface {
	Checkout() *CheckoutService

	// CreateCheckoutSnippet renders the loader script tag for a public token.
	CreateCheckoutSnippet(publicToken string, opts ...embed.Option) string
	// CreateCheckoutHTML renders a minimal page around the snippet.
	CreateCheckoutHTML(publicToken string, opts ...embed.Option) string

	Environment() consts.Environment
	Sign(body []byte, path string) (string, error)

	SetLogLevel(level log.Level)
}

var _ Walley = (*Client)(nil)
