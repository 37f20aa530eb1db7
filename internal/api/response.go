package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"eventdesk/internal/database"
	"eventdesk/internal/service"

	"github.com/rs/zerolog"
)

// Error codes of the response envelope.
const (
	CodeValidationError = "VALIDATION_ERROR"
	CodeInvalidJSON     = "INVALID_JSON"
	CodeUnauthorized    = "UNAUTHORIZED"
	CodeInternalError   = "INTERNAL_ERROR"
)

type apiError struct {
	Code    string              `json:"code"`
	Message string              `json:"message"`
	Details map[string][]string `json:"details,omitempty"`
}

type envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *apiError   `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeData(w http.ResponseWriter, statusCode int, data interface{}) {
	writeJSON(w, statusCode, envelope{Success: true, Data: data})
}

func writeError(w http.ResponseWriter, statusCode int, code, message string) {
	writeJSON(w, statusCode, envelope{Success: false, Error: &apiError{Code: code, Message: message}})
}

func writeFieldErrors(w http.ResponseWriter, fields map[string][]string) {
	writeJSON(w, http.StatusBadRequest, envelope{
		Success: false,
		Error: &apiError{
			Code:    CodeValidationError,
			Message: "validation failed",
			Details: fields,
		},
	})
}

// writeNotFound uses the validation-error code with a 404 status; missing and
// foreign-owned rows are indistinguishable to the caller.
func writeNotFound(w http.ResponseWriter) {
	writeError(w, http.StatusNotFound, CodeValidationError, "not found")
}

func writeUnauthorized(w http.ResponseWriter) {
	writeError(w, http.StatusUnauthorized, CodeUnauthorized, "authentication required")
}

// writeStoreError maps service/store failures to the envelope. Raw store
// errors go to the log, never to the client.
func writeStoreError(w http.ResponseWriter, logger *zerolog.Logger, err error) {
	switch {
	case errors.Is(err, database.ErrNotFound):
		writeNotFound(w)
	case errors.Is(err, database.ErrInvalidStatus):
		writeError(w, http.StatusBadRequest, CodeValidationError, "unknown status")
	case errors.Is(err, database.ErrInvalidTransition):
		writeError(w, http.StatusBadRequest, CodeValidationError, "status transition not allowed")
	case errors.Is(err, database.ErrEmailTaken):
		writeFieldErrors(w, map[string][]string{"email": {"is already registered"}})
	case errors.Is(err, database.ErrSlugTaken):
		writeFieldErrors(w, map[string][]string{"slug": {"is already in use"}})
	case errors.Is(err, service.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, CodeUnauthorized, "invalid email or password")
	default:
		logger.Error().Err(err).Msg("Internal error")
		writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
	}
}

// decodeJSON parses the body into dst; a false return means the error
// response has already been written.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, CodeInvalidJSON, "invalid JSON body")
		return false
	}
	return true
}
