package utils

import (
	"regexp"
	"testing"
)

var couponPattern = regexp.MustCompile(`^[A-Z0-9]{4}-[A-Z0-9]{4}-[A-Z0-9]{4}$`)

func TestNewCouponCode(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		code, err := NewCouponCode()
		if err != nil {
			t.Fatalf("NewCouponCode() error: %v", err)
		}
		if !couponPattern.MatchString(code) {
			t.Fatalf("coupon %q does not match XXXX-XXXX-XXXX", code)
		}
		seen[code] = true
	}
	// 50 draws from a 36^12 space colliding would mean the generator is
	// broken, not unlucky.
	if len(seen) != 50 {
		t.Fatalf("expected 50 distinct coupons, got %d", len(seen))
	}
}

func TestNewTempPassword(t *testing.T) {
	p, err := NewTempPassword()
	if err != nil {
		t.Fatalf("NewTempPassword() error: %v", err)
	}
	if len(p) != 10 {
		t.Fatalf("temp password length = %d, want 10", len(p))
	}
	for _, r := range p {
		if !((r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')) {
			t.Fatalf("unexpected character %q in %q", r, p)
		}
	}
}
