// Package response writes the API's JSON envelope. Every payload
// carries a success flag; error payloads carry a user-facing message.
package response

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// Envelope is the uniform response body.
type Envelope map[string]any

// JSON writes an arbitrary payload with the given status.
func JSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Warn("failed to encode response", "error", err)
	}
}

// Success writes a success envelope, merging extra fields in.
func Success(w http.ResponseWriter, status int, fields Envelope) {
	body := Envelope{"success": true}
	for k, v := range fields {
		body[k] = v
	}
	JSON(w, status, body)
}

// Error writes a failure envelope with a message.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, Envelope{"success": false, "message": message})
}
