package checkout

import (
	"bytes"
	"fmt"
	"strconv"
	"time"
)

// TimestampLayout is the wire format of server timestamps: seven fractional
// digits and a numeric zone.
const TimestampLayout = "2006-01-02T15:04:05.0000000-07:00"

// Fractional seconds of any length are accepted by time.Parse after the
// seconds field, so these layouts only differ in zone syntax.
var timestampLayouts = []string{
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05Z0700",
}

// Timestamp is a time.Time using the checkout API date format.
type Timestamp struct {
	time.Time
}

// ParseTimestamp parses yyyy-MM-ddTHH:mm:ss.fffffff followed by Z, ±hh:mm or
// ±hhmm.
func ParseTimestamp(s string) (Timestamp, error) {
	var firstErr error
	for _, layout := range timestampLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return Timestamp{Time: t}, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return Timestamp{}, fmt.Errorf("checkout: invalid timestamp %q: %w", s, firstErr)
}

func (t Timestamp) String() string {
	return t.Time.Format(TimestampLayout)
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(t.Time.Format(TimestampLayout))), nil
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	s, err := strconv.Unquote(string(data))
	if err != nil {
		return fmt.Errorf("checkout: timestamp must be a string, got %s", data)
	}
	parsed, err := ParseTimestamp(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
