package jsonutil

import (
	"bytes"
	"encoding/json"
	"errors"

	canonicaljson "github.com/gibson042/canonicaljson-go"
)

// Marshal encodes v into JSON without HTML escaping and without a trailing newline.
//
// The SharedKey signature is calculated over the exact request body bytes, so the
// bytes returned here are the bytes that get signed and sent.
func Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	b := buf.Bytes()
	// json.Encoder.Encode always adds a trailing \n.
	if len(b) > 0 && b[len(b)-1] == '\n' {
		b = b[:len(b)-1]
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out, nil
}

// MarshalCanonical encodes v and rewrites the result into canonical JSON
// (sorted keys, normalized numbers and strings).
func MarshalCanonical(v any) ([]byte, error) {
	raw, err := Marshal(v)
	if err != nil {
		return nil, err
	}
	return Canonicalize(raw)
}

// Canonicalize normalizes a single JSON document. Numbers keep full precision;
// integral values lose trailing zeros (100.00 becomes 100) and other values
// use the canonical exponent form (99.5 becomes 9.95E1).
func Canonicalize(raw []byte) ([]byte, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return []byte("null"), nil
	}
	// json.Number keeps the literal; canonicaljson normalizes it without a
	// float64 round trip.
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var payload any
	if err := dec.Decode(&payload); err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, errors.New("jsonutil: multiple JSON documents")
	}
	return canonicaljson.Marshal(payload)
}

// MustMarshal is a convenience helper for tests/examples.
func MustMarshal(v any) []byte {
	b, err := Marshal(v)
	if err != nil {
		panic(err)
	}
	return b
}
