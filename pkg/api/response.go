// Package api implements the shared response envelope: every endpoint answers
// {data, error, timestamp}, with error null on success and {code, message} on
// failure.
package api

import (
	"encoding/json"
	"net/http"
	"time"
)

// Error codes returned to clients. Coarse on purpose: internal store errors
// never leak into responses.
const (
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeAccountLocked      = "ACCOUNT_LOCKED"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeForbidden          = "FORBIDDEN"
	CodeBadRequest         = "BAD_REQUEST"
	CodeRateLimited        = "RATE_LIMITED"
	CodeStoreUnavailable   = "STORE_UNAVAILABLE"
	CodeInternal           = "INTERNAL_ERROR"
)

// Envelope is the wire format of every API response.
type Envelope struct {
	Data      interface{} `json:"data"`
	Error     *ErrorBody  `json:"error"`
	Timestamp time.Time   `json:"timestamp"`
}

// ErrorBody carries a machine-readable code and a human-readable message.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// WriteData writes a success envelope with the given status code.
func WriteData(w http.ResponseWriter, statusCode int, data interface{}) {
	writeEnvelope(w, statusCode, Envelope{
		Data:      data,
		Timestamp: time.Now().UTC(),
	})
}

// WriteError writes a failure envelope with the given status and error code.
func WriteError(w http.ResponseWriter, statusCode int, errorCode, message string) {
	writeEnvelope(w, statusCode, Envelope{
		Error:     &ErrorBody{Code: errorCode, Message: message},
		Timestamp: time.Now().UTC(),
	})
}

// Common error writers for consistency
func WriteBadRequest(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusBadRequest, CodeBadRequest, message)
}

func WriteUnauthorized(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusUnauthorized, CodeUnauthorized, message)
}

func WriteForbidden(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusForbidden, CodeForbidden, message)
}

func WriteInternalError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusInternalServerError, CodeInternal, message)
}

func WriteStoreUnavailable(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusServiceUnavailable, CodeStoreUnavailable, message)
}

func writeEnvelope(w http.ResponseWriter, statusCode int, env Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	_ = json.NewEncoder(w).Encode(env)
}
