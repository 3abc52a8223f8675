// Package response provides helpers for writing consistent JSON HTTP responses.
//
// Every handler in this application sends JSON back to the client. Rather
// than repeating the same three lines (set header, set status, encode JSON)
// in every handler, we centralise them here.
package response

import (
	"encoding/json"
	"net/http"
)

// Response is the envelope for every non-data reply: confirmations and
// errors alike.
//
//	{ "message": "Student not found" }
type Response struct {
	Message string `json:"message"`
}

// Message wraps msg in the standard envelope.
func Message(msg string) Response {
	return Response{Message: msg}
}

// WriteJSON writes data as JSON with the given HTTP status code.
//
// Header() → WriteHeader() → body writes, in that order: once WriteHeader
// is called, headers are locked.
func WriteJSON(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}
