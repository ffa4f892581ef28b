package handler

// RESPONSE HELPERS:
// These functions standardise how we send JSON responses and errors.
//
// CONSISTENT ERROR FORMAT:
// Every non-2xx response from our API has the same shape:
//   {"error": {"code": "user_not_found", "message": "user not found with id 7"}}
//
// "details" is added only when there is something useful to say, e.g. which
// field failed validation.

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/sakif/order-desk/internal/apperror"
	"github.com/sakif/order-desk/internal/logging"
	"github.com/sakif/order-desk/internal/validation"
)

// ErrorBody is the payload under the "error" key.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorResponse is the standard error envelope returned by all API endpoints.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// itemsResponse wraps unpaginated lists.
type itemsResponse[T any] struct {
	Items []T `json:"items"`
}

// writeJSON sends a JSON response with the given status code.
//
// Headers and status MUST be set before the body: once Encode writes, the
// headers are gone.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// WriteErrorCode writes the error envelope with an explicit status and code.
func WriteErrorCode(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Error: ErrorBody{Code: code, Message: message}})
}

// statusOf maps a domain error kind to an HTTP status.
//
// The service layer never sees status codes; errors.Is walks the wrap chain
//
//	fmt.Errorf("creating user: %w", apperror.DuplicateEmail(...))
//	  → *AppError{Err: ErrConflict} → ErrConflict ✓
func statusOf(err error) int {
	switch {
	case errors.Is(err, apperror.ErrInvalidJSON), errors.Is(err, apperror.ErrBadRequest):
		return http.StatusBadRequest // 400
	case errors.Is(err, apperror.ErrValidation):
		return http.StatusUnprocessableEntity // 422
	case errors.Is(err, apperror.ErrNotFound):
		return http.StatusNotFound // 404
	case errors.Is(err, apperror.ErrConflict):
		return http.StatusConflict // 409
	default:
		return http.StatusInternalServerError
	}
}

// writeError maps err to a status and envelope. Anything that is not an
// *AppError becomes a generic 500; the raw error is only logged, because it
// can carry SQL or file paths.
func writeError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	var appErr *apperror.AppError
	status := statusOf(err)

	if status == http.StatusInternalServerError || !errors.As(err, &appErr) {
		logging.FromContext(r.Context(), logger).Error("request failed",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
		WriteErrorCode(w, http.StatusInternalServerError, apperror.CodeServerError, "internal server error")
		return
	}

	writeJSON(w, status, ErrorResponse{Error: ErrorBody{
		Code:    appErr.Code,
		Message: appErr.Message,
		Details: appErr.Details,
	}})
}

// errBodyTooLarge is returned as-is by every decoder so callers can keep its
// message instead of substituting their own.
var errBodyTooLarge = apperror.InvalidJSON("request body too large")

// decodeObject reads the request body as one JSON object. Numbers stay
// json.Number so validation can tell 12 from 12.5 without float rounding.
//
// A missing body, malformed JSON, a non-object, an empty object, or trailing
// data all yield apperror.ErrInvalidJSON.
func decodeObject(r *http.Request) (validation.Raw, error) {
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()

	var raw validation.Raw
	if err := dec.Decode(&raw); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			return nil, errBodyTooLarge
		case errors.Is(err, io.EOF):
			return nil, apperror.InvalidJSON("expected a JSON body")
		default:
			return nil, apperror.InvalidJSON("expected a JSON object")
		}
	}
	if len(raw) == 0 {
		return nil, apperror.InvalidJSON("expected a JSON object")
	}
	if dec.More() {
		return nil, apperror.InvalidJSON("unexpected data after JSON object")
	}
	return raw, nil
}
