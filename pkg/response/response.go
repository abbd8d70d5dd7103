// Package response writes the JSON bodies shared by handlers and middleware.
package response

import (
	"encoding/json"
	"net/http"

	"github.com/shashiranjanraj/nutritrack/pkg/validate"
)

// MessageUnauthenticated is the body message for any rejected bearer token.
const MessageUnauthenticated = "Unauthenticated."

type message struct {
	Message string `json:"message"`
}

type validationBody struct {
	Message string           `json:"message"`
	Errors  *validate.Errors `json:"errors"`
}

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

// Message sends {"message": msg}.
func Message(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, message{Message: msg})
}

// ValidationError sends a 422 with the first message and the per-field map.
func ValidationError(w http.ResponseWriter, errs *validate.Errors) {
	JSON(w, http.StatusUnprocessableEntity, validationBody{Message: errs.First(), Errors: errs})
}

// Unauthenticated sends a 401.
func Unauthenticated(w http.ResponseWriter) {
	Message(w, http.StatusUnauthorized, MessageUnauthenticated)
}

// NotFound sends a 404 with a resource-specific message.
func NotFound(w http.ResponseWriter, msg string) {
	Message(w, http.StatusNotFound, msg)
}

// InternalError sends a 500 without leaking the cause.
func InternalError(w http.ResponseWriter) {
	Message(w, http.StatusInternalServerError, "Internal Server Error")
}
