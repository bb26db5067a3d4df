package embed

import "fmt"

// Event is a DOM event dispatched by the embedded checkout.
type Event string

const (
	EventCustomerUpdated       Event = "walleyCheckoutCustomerUpdated"
	EventLocked                Event = "walleyCheckoutLocked"
	EventUnlocked              Event = "walleyCheckoutUnlocked"
	EventResumed               Event = "walleyCheckoutResumed"
	EventShippingUpdated       Event = "walleyCheckoutShippingUpdated"
	EventPurchaseCompleted     Event = "walleyCheckoutPurchaseCompleted"
	EventCrmUpdated            Event = "walleyCheckoutCrmUpdated"
	EventOrderValidationFailed Event = "walleyCheckoutOrderValidationFailed"
)

var events = []Event{
	EventCustomerUpdated,
	EventLocked,
	EventUnlocked,
	EventResumed,
	EventShippingUpdated,
	EventPurchaseCompleted,
	EventCrmUpdated,
	EventOrderValidationFailed,
}

// Events returns the full catalog in a stable order.
func Events() []Event {
	out := make([]Event, len(events))
	copy(out, events)
	return out
}

func ParseEvent(name string) (Event, error) {
	for _, e := range events {
		if string(e) == name {
			return e, nil
		}
	}
	return "", fmt.Errorf("embed: unknown checkout event %q", name)
}

func (e Event) String() string { return string(e) }
