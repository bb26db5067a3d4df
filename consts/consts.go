package consts

const (
	HeaderAuthorization = "Authorization"
	HeaderAccept        = "Accept"
	HeaderContentType   = "Content-Type"
	HeaderUserAgent     = "User-Agent"

	ContentTypeJSON = "application/json"
)

// SDK identity used in the User-Agent header.
const (
	SDKName    = "WalleyCheckoutGo"
	SDKVersion = "1.0.0"
)

// Checkout API endpoint paths.
const (
	CheckoutPath = "/checkout"
)

// Embed surface.
const (
	CheckoutLoaderScript = "/walley-checkout-loader.js"
)
