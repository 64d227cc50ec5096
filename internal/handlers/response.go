package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/ledgerpay/backend/internal/apperr"
)

// ErrorPayload is the error body returned for every failed request. The HTTP
// status itself is not repeated in the body.
type ErrorPayload struct {
	ErrorCode int               `json:"errorCode"`
	Message   string            `json:"message"`
	Details   map[string]string `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps the closed failure set to its HTTP status and stable code.
// Anything outside that set is reported as a generic internal failure
// without leaking the cause.
func writeError(w http.ResponseWriter, err error) {
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		writeJSON(w, appErr.HTTPStatus, ErrorPayload{
			ErrorCode: appErr.Code,
			Message:   appErr.Message,
		})
		return
	}

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		details := make(map[string]string)
		for _, fieldErr := range validationErrs {
			details[fieldErr.Field()] = fmt.Sprintf("Field Validation Failed on '%s' tag", fieldErr.Tag())
		}
		writeJSON(w, http.StatusBadRequest, ErrorPayload{
			ErrorCode: 400001,
			Message:   "Validation failed",
			Details:   details,
		})
		return
	}

	writeJSON(w, http.StatusInternalServerError, ErrorPayload{
		ErrorCode: 500001,
		Message:   "Internal server error",
	})
}

func writeBadRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, ErrorPayload{ErrorCode: 400001, Message: message})
}
