package utils

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("12345678", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("HashPassword() error: %v", err)
	}
	if !VerifyPassword(hash, "12345678") {
		t.Fatal("correct password rejected")
	}
	if VerifyPassword(hash, "87654321") {
		t.Fatal("wrong password accepted")
	}
	if VerifyPassword("not-a-hash", "12345678") {
		t.Fatal("garbage hash accepted")
	}
}
