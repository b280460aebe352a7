package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func record(t *testing.T, fn func(c echo.Context) error) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := fn(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not JSON: %v", err)
	}
	return rec, body
}

func TestOkEnvelope(t *testing.T) {
	rec, body := record(t, func(c echo.Context) error {
		return ok(c, http.StatusCreated, echo.Map{"points": 42})
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", rec.Code)
	}
	if body["success"] != true {
		t.Fatalf("success = %v, want true", body["success"])
	}
	if body["points"] != float64(42) {
		t.Fatalf("points = %v, want 42", body["points"])
	}
}

func TestOkEnvelopeEmptyPayload(t *testing.T) {
	_, body := record(t, func(c echo.Context) error {
		return ok(c, http.StatusOK, nil)
	})
	if body["success"] != true {
		t.Fatalf("success = %v, want true", body["success"])
	}
}

func TestFailEnvelope(t *testing.T) {
	rec, body := record(t, func(c echo.Context) error {
		return fail(c, http.StatusNotFound, "user not found")
	})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if body["success"] != false {
		t.Fatalf("success = %v, want false", body["success"])
	}
	if body["message"] != "user not found" {
		t.Fatalf("message = %v", body["message"])
	}
}

func TestDNIDigits(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"12345678Z", "12345678"},
		{"12345678", "12345678"},
		{" 12345678Z ", "12345678"},
		{"X1234567L", "X1234567"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := dniDigits(tt.in); got != tt.want {
			t.Fatalf("dniDigits(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
