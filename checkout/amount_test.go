package checkout

import (
	"encoding/json"
	"testing"
	"time"
)

func TestAmountMarshal(t *testing.T) {
	tests := []struct {
		in   Amount
		want string
	}{
		{in: NewAmount(100), want: "100.00"},
		{in: NewAmount(-5.5), want: "-5.50"},
		{in: MustParseAmount("25.005"), want: "25.01"},
		{in: Amount{}, want: "0.00"},
	}
	for _, tt := range tests {
		got, err := tt.in.MarshalJSON()
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		if string(got) != tt.want {
			t.Errorf("got %s want %s", got, tt.want)
		}
	}
}

func TestAmountUnmarshal(t *testing.T) {
	for _, in := range []string{`12.5`, `"12.5"`, `12.50`} {
		var a Amount
		if err := json.Unmarshal([]byte(in), &a); err != nil {
			t.Fatalf("unmarshal %s: %v", in, err)
		}
		if a.String() != "12.50" {
			t.Errorf("%s decoded to %s", in, a)
		}
	}

	var a Amount
	if err := json.Unmarshal([]byte(`"twelve"`), &a); err == nil {
		t.Fatalf("expected error")
	}
	if _, err := ParseAmount("1,5"); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestParseTimestamp(t *testing.T) {
	want := time.Date(2024, 5, 1, 8, 20, 30, 0, time.UTC)
	tests := []struct {
		in   string
		want time.Time
		ok   bool
	}{
		{in: "2024-05-01T10:20:30.1234567+02:00", want: want.Add(123456700), ok: true},
		{in: "2024-05-01T08:20:30.1Z", want: want.Add(100 * time.Millisecond), ok: true},
		{in: "2024-05-01T10:20:30.123+0200", want: want.Add(123 * time.Millisecond), ok: true},
		{in: "2024-05-01T08:20:30Z", want: want, ok: true},
		{in: "2024-05-01", ok: false},
		{in: "yesterday", ok: false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTimestamp(tt.in)
			if !tt.ok {
				if err == nil {
					t.Fatalf("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			if !got.Equal(tt.want) {
				t.Fatalf("got %v want %v", got.UTC(), tt.want)
			}
		})
	}
}

func TestTimestampFormat(t *testing.T) {
	ts := Timestamp{Time: time.Date(2024, 5, 1, 8, 20, 30, 123456700, time.UTC)}
	got, err := ts.MarshalJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if want := `"2024-05-01T08:20:30.1234567+00:00"`; string(got) != want {
		t.Fatalf("got %s want %s", got, want)
	}
}
