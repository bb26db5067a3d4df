package embed

import (
	"encoding/json"
	"fmt"
	"strings"
)

// SizeNotificationHandler is the message handler name used by HeightObserverScript.
const SizeNotificationHandler = "sizeNotification"

// IframeSelector matches the iframe the checkout loader inserts.
const IframeSelector = ".collector-checkout-iframe"

// ListenerScript returns JavaScript that forwards every catalog event to the
// web view message handler named listener as {event: "<name>"}.
func ListenerScript(listener string) string {
	handler := jsString(listener)
	var b strings.Builder
	for _, e := range events {
		name := jsString(string(e))
		fmt.Fprintf(&b, "document.addEventListener(%s, function() {\n", name)
		fmt.Fprintf(&b, "    window.webkit.messageHandlers[%s].postMessage({event: %s});\n", handler, name)
		b.WriteString("});\n")
	}
	return b.String()
}

// HeightObserverScript returns JavaScript that posts {height: n} to handler
// whenever the checkout iframe is resized. An empty handler means
// SizeNotificationHandler.
func HeightObserverScript(handler string) string {
	if handler == "" {
		handler = SizeNotificationHandler
	}
	return fmt.Sprintf(`const element = document.querySelector(%s)
const resizeObserver = new ResizeObserver(entries => {
    const entry = entries[0]
    window.webkit.messageHandlers[%s].postMessage({height: entry.contentRect.height})
})
resizeObserver.observe(element)
`, jsString(IframeSelector), jsString(handler))
}

func jsString(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

// Handler receives decoded bridge messages.
type Handler interface {
	OnEvent(e Event)
	OnHeightChange(height float64)
}

// HandlerFuncs adapts plain functions to Handler. Nil funcs are skipped.
type HandlerFuncs struct {
	Event  func(Event)
	Height func(float64)
}

func (h HandlerFuncs) OnEvent(e Event) {
	if h.Event != nil {
		h.Event(e)
	}
}

func (h HandlerFuncs) OnHeightChange(height float64) {
	if h.Height != nil {
		h.Height(height)
	}
}

// Bridge dispatches messages posted by the scripts above.
type Bridge struct {
	handler Handler
}

func NewBridge(h Handler) *Bridge {
	return &Bridge{handler: h}
}

type message struct {
	Event  json.RawMessage `json:"event"`
	Height json.RawMessage `json:"height"`
}

// Dispatch decodes one message body. Unknown events and non-numeric heights
// are ignored; only a body that is not a JSON object is an error.
func (b *Bridge) Dispatch(raw []byte) error {
	var msg message
	if err := json.Unmarshal(raw, &msg); err != nil {
		return fmt.Errorf("embed: decode bridge message: %w", err)
	}
	if b == nil || b.handler == nil {
		return nil
	}
	var name string
	if len(msg.Event) > 0 && json.Unmarshal(msg.Event, &name) == nil {
		if e, err := ParseEvent(name); err == nil {
			b.handler.OnEvent(e)
		}
	}
	var height float64
	if len(msg.Height) > 0 && string(msg.Height) != "null" && json.Unmarshal(msg.Height, &height) == nil {
		b.handler.OnHeightChange(height)
	}
	return nil
}
