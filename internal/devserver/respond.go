package devserver

import (
	"encoding/json"
	"net/http"
)

// errorBody is the failure shape consumed by the client's message
// extraction.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	kind := "error"
	switch status {
	case http.StatusBadRequest:
		kind = "bad_request"
	case http.StatusUnauthorized:
		kind = "unauthorized"
	case http.StatusForbidden:
		kind = "forbidden"
	case http.StatusNotFound:
		kind = "not_found"
	case http.StatusConflict:
		kind = "conflict"
	}
	writeJSON(w, status, errorBody{Error: kind, Message: message})
}
