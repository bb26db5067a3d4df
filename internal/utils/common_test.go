package utils

import "testing"

func TestRefAndPtr(t *testing.T) {
	p := Ref("order-1")
	if p == nil || *p != "order-1" {
		t.Fatalf("Ref returned %v", p)
	}
	if got := Ptr(p); got != "order-1" {
		t.Fatalf("Ptr = %q", got)
	}
	var missing *int
	if got := Ptr(missing); got != 0 {
		t.Fatalf("Ptr(nil) = %d", got)
	}
}

func TestRefNonZero(t *testing.T) {
	if RefNonZero("") != nil {
		t.Fatalf("empty string must map to nil")
	}
	if p := RefNonZero("https://shop.example/validate"); p == nil || *p != "https://shop.example/validate" {
		t.Fatalf("unexpected pointer %v", p)
	}
	if RefNonZero(0) != nil {
		t.Fatalf("zero int must map to nil")
	}
}
