// Package httputil centralizes JSON response writing so every handler renders
// the same envelopes.
package httputil

import (
	"encoding/json"
	"net/http"

	dErrors "ongfinder/pkg/domain-errors"
)

// WriteJSON renders v with the given status. Encoding failures are swallowed;
// by the time Encode fails the status line is already on the wire.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError translates a domain error into the {"error","error_description"}
// envelope. Internal errors omit the description so infrastructure details
// never reach clients.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	body := map[string]string{"error": string(code)}
	if code != dErrors.CodeInternal {
		if msg := dErrors.MessageOf(err); msg != "" {
			body["error_description"] = msg
		}
	}
	WriteJSON(w, dErrors.ToHTTPStatus(code), body)
}
