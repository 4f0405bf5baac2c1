// Package response writes JSON bodies and the API error envelope.
package response

import (
	"encoding/json"
	"log"
	"net/http"
)

// ErrorResponse is the body of every non-2xx API response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code"`
}

// JSON writes data as JSON with the given status code.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			log.Printf("Failed to encode response: %v", err)
		}
	}
}

// OK writes data with status 200.
func OK(w http.ResponseWriter, data any) {
	JSON(w, http.StatusOK, data)
}

// HTML writes an HTML page with status 200.
func HTML(w http.ResponseWriter, page []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(page); err != nil {
		log.Printf("Failed to write response: %v", err)
	}
}

// Error writes the error envelope with the given status code.
func Error(w http.ResponseWriter, status int, err error) {
	resp := ErrorResponse{
		Error: http.StatusText(status),
		Code:  status,
	}
	if err != nil {
		resp.Message = err.Error()
	}
	JSON(w, status, resp)
}

// BadRequest writes a 400 Bad Request response.
func BadRequest(w http.ResponseWriter, err error) {
	Error(w, http.StatusBadRequest, err)
}

// Unauthorized writes a 401 response with a bearer challenge.
func Unauthorized(w http.ResponseWriter, err error) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="grimorio"`)
	Error(w, http.StatusUnauthorized, err)
}

// NotFound writes a 404 Not Found response.
func NotFound(w http.ResponseWriter, err error) {
	Error(w, http.StatusNotFound, err)
}

// TooManyRequests writes a 429 response asking the client to wait a second.
func TooManyRequests(w http.ResponseWriter, err error) {
	w.Header().Set("Retry-After", "1")
	Error(w, http.StatusTooManyRequests, err)
}

// InternalError writes a 500 Internal Server Error response.
func InternalError(w http.ResponseWriter, err error) {
	Error(w, http.StatusInternalServerError, err)
}

// ServiceUnavailable writes a 503 Service Unavailable response.
func ServiceUnavailable(w http.ResponseWriter, err error) {
	Error(w, http.StatusServiceUnavailable, err)
}
