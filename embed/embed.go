// Package embed renders the script tag that mounts the checkout for a public
// token and decodes the messages the embedded page sends back.
package embed

import (
	"bytes"
	"html/template"
	"strings"

	"github.com/stremovskyy/go-walley/consts"
)

// Options customise the embedded checkout. Empty values are left out.
type Options struct {
	// ActionColor is a hex color for call to action buttons, e.g. "#582f87".
	ActionColor string
	// Language is the display language, e.g. "sv-SE".
	Language        string
	ActionTextColor string
	Padding         string
	ContainerID     string
}

type Option func(*Options)

func WithActionColor(hex string) Option { return func(o *Options) { o.ActionColor = hex } }

func WithLanguage(lang string) Option { return func(o *Options) { o.Language = lang } }

func WithActionTextColor(hex string) Option { return func(o *Options) { o.ActionTextColor = hex } }

// WithPadding sets data-padding; "none" removes the checkout's own padding.
func WithPadding(padding string) Option { return func(o *Options) { o.Padding = padding } }

// WithContainerID renders the checkout into an existing element.
func WithContainerID(id string) Option { return func(o *Options) { o.ContainerID = id } }

func buildOptions(opts []Option) Options {
	var o Options
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

var snippetTemplate = template.Must(template.New("snippet").Parse(
	`<script src="{{.Src}}" data-token="{{.Token}}" data-webview="true"` +
		`{{with .ActionColor}} data-action-color="{{.}}"{{end}}` +
		`{{with .Language}} data-lang="{{.}}"{{end}}` +
		`{{with .ActionTextColor}} data-action-text-color="{{.}}"{{end}}` +
		`{{with .Padding}} data-padding="{{.}}"{{end}}` +
		`{{with .ContainerID}} data-container-id="{{.}}"{{end}}` +
		`></script>`))

var pageTemplate = template.Must(template.New("page").Parse(
	`<head>
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body style='margin:0'>
  {{.}}
</body>
`))

type snippetData struct {
	Options
	Src   string
	Token string
}

// Snippet returns the script tag loading the checkout from frontendHost.
// Attribute values are HTML-escaped.
func Snippet(frontendHost, publicToken string, opts ...Option) string {
	var buf bytes.Buffer
	data := snippetData{
		Options: buildOptions(opts),
		Src:     strings.TrimSuffix(frontendHost, "/") + consts.CheckoutLoaderScript,
		Token:   publicToken,
	}
	// Execute only fails on template or writer errors; both are static here.
	_ = snippetTemplate.Execute(&buf, data)
	return buf.String()
}

// HTML wraps Snippet in a minimal page suitable for a web view.
func HTML(frontendHost, publicToken string, opts ...Option) string {
	var buf bytes.Buffer
	_ = pageTemplate.Execute(&buf, template.HTML(Snippet(frontendHost, publicToken, opts...)))
	return buf.String()
}
