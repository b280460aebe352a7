package utils

import (
	"crypto/rand" // secure random number generation
	"strings"
)

const couponChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// NewCouponCode returns a redemption coupon in the form XXXX-XXXX-XXXX,
// three blocks of four uppercase alphanumeric characters drawn from
// crypto/rand.
func NewCouponCode() (string, error) {
	buf := make([]byte, 12)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	var b strings.Builder
	for i, by := range buf {
		if i > 0 && i%4 == 0 {
			b.WriteByte('-')
		}
		b.WriteByte(couponChars[int(by)%len(couponChars)])
	}
	return b.String(), nil
}

// NewTempPassword returns a 10-character random password used when a user
// recovers their account.
func NewTempPassword() (string, error) {
	buf := make([]byte, 10)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	var b strings.Builder
	for _, by := range buf {
		b.WriteByte(couponChars[int(by)%len(couponChars)])
	}
	return b.String(), nil
}
