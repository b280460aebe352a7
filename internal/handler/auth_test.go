package handler

import (
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestRegistrationPayloadOmitsCredentials(t *testing.T) {
	rec, body := record(t, func(c echo.Context) error {
		return ok(c, http.StatusCreated, registrationPayload(7, "a.diaz"))
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", rec.Code)
	}
	if body["userId"] != float64(7) {
		t.Fatalf("userId = %v, want 7", body["userId"])
	}
	if body["username"] != "a.diaz" {
		t.Fatalf("username = %v, want a.diaz", body["username"])
	}
	// Generated credentials go to the mailer over the broker, never over HTTP.
	if _, leaked := body["password"]; leaked {
		t.Fatal("registration response must not carry a password")
	}
}
