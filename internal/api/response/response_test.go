package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()

	var body ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return body
}

func TestErrorEnvelope(t *testing.T) {
	tests := []struct {
		name   string
		write  func(http.ResponseWriter, error)
		status int
	}{
		{"bad request", BadRequest, http.StatusBadRequest},
		{"not found", NotFound, http.StatusNotFound},
		{"too many", TooManyRequests, http.StatusTooManyRequests},
		{"internal", InternalError, http.StatusInternalServerError},
		{"unavailable", ServiceUnavailable, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			tt.write(rec, errors.New("boom"))

			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d", rec.Code, tt.status)
			}
			body := decodeError(t, rec)
			if body.Code != tt.status || body.Error != http.StatusText(tt.status) || body.Message != "boom" {
				t.Errorf("body = %+v", body)
			}
		})
	}
}

func TestUnauthorized_Challenge(t *testing.T) {
	rec := httptest.NewRecorder()
	Unauthorized(rec, errors.New("invalid token"))

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d", rec.Code)
	}
	if rec.Header().Get("WWW-Authenticate") == "" {
		t.Error("missing WWW-Authenticate header")
	}
}

func TestTooManyRequests_RetryAfter(t *testing.T) {
	rec := httptest.NewRecorder()
	TooManyRequests(rec, nil)

	if rec.Header().Get("Retry-After") != "1" {
		t.Errorf("Retry-After = %q", rec.Header().Get("Retry-After"))
	}
	if body := decodeError(t, rec); body.Message != "" {
		t.Errorf("Message = %q, want empty", body.Message)
	}
}

func TestOK(t *testing.T) {
	rec := httptest.NewRecorder()
	OK(rec, map[string]int{"count": 3})

	if ct := rec.Header().Get("Content-Type"); ct != "application/json; charset=utf-8" {
		t.Errorf("Content-Type = %q", ct)
	}
	if rec.Body.String() != "{\"count\":3}\n" {
		t.Errorf("body = %q", rec.Body.String())
	}
}
