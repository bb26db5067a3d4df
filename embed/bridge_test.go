package embed

import (
	"strings"
	"testing"
)

func TestListenerScriptCoversCatalog(t *testing.T) {
	script := ListenerScript("walleyEvents")
	for _, e := range Events() {
		if !strings.Contains(script, `document.addEventListener("`+string(e)+`"`) {
			t.Errorf("missing listener for %s", e)
		}
		if !strings.Contains(script, `postMessage({event: "`+string(e)+`"})`) {
			t.Errorf("missing postMessage for %s", e)
		}
	}
	if !strings.Contains(script, `window.webkit.messageHandlers["walleyEvents"]`) {
		t.Fatalf("listener name not used: %s", script)
	}
}

func TestListenerScriptQuotesHandlerName(t *testing.T) {
	script := ListenerScript(`x"];alert(1);//`)
	if strings.Contains(script, `["x"];alert`) {
		t.Fatalf("handler name escaped the string literal: %s", script)
	}
}

func TestHeightObserverScript(t *testing.T) {
	script := HeightObserverScript("")
	for _, want := range []string{
		`document.querySelector(".collector-checkout-iframe")`,
		`new ResizeObserver`,
		`messageHandlers["sizeNotification"].postMessage({height: entry.contentRect.height})`,
	} {
		if !strings.Contains(script, want) {
			t.Errorf("missing %q in %s", want, script)
		}
	}
}

func TestBridgeDispatch(t *testing.T) {
	var gotEvents []Event
	var gotHeights []float64
	b := NewBridge(HandlerFuncs{
		Event:  func(e Event) { gotEvents = append(gotEvents, e) },
		Height: func(h float64) { gotHeights = append(gotHeights, h) },
	})

	messages := []string{
		`{"event":"walleyCheckoutPurchaseCompleted"}`,
		`{"height":640.5}`,
		`{"event":"walleyCheckoutSomethingNew"}`,
		`{"event":42}`,
		`{"height":"tall"}`,
		`{}`,
	}
	for _, m := range messages {
		if err := b.Dispatch([]byte(m)); err != nil {
			t.Fatalf("dispatch %s: %v", m, err)
		}
	}
	if len(gotEvents) != 1 || gotEvents[0] != EventPurchaseCompleted {
		t.Fatalf("events = %v", gotEvents)
	}
	if len(gotHeights) != 1 || gotHeights[0] != 640.5 {
		t.Fatalf("heights = %v", gotHeights)
	}

	if err := b.Dispatch([]byte(`not json`)); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestNilBridgeIgnoresMessages(t *testing.T) {
	var b *Bridge
	if err := b.Dispatch([]byte(`{"event":"walleyCheckoutLocked"}`)); err != nil {
		t.Fatalf("dispatch on nil bridge: %v", err)
	}
}
