package common

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	pkgerrors "comments-backend/pkg/errors"
)

// DefaultMaxBodyBytes bounds request bodies read by ParseJSONBody
const DefaultMaxBodyBytes int64 = 64 << 10

// RespondJSON sends a JSON response
func RespondJSON(w http.ResponseWriter, status int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

// RespondNoContent sends an empty 204 response
func RespondNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// ParseJSONBody parses a JSON request body with a size limit. Malformed input
// is reported as a validation error.
func ParseJSONBody(w http.ResponseWriter, r *http.Request, v interface{}, maxBytes int64) error {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBodyBytes
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(v); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			return pkgerrors.NewValidationError("request body is empty")
		case errors.As(err, &maxErr):
			return pkgerrors.NewValidationError(
				fmt.Sprintf("request body exceeds %d bytes", maxErr.Limit),
			)
		default:
			return pkgerrors.NewValidationError("invalid request body").WithCause(err)
		}
	}

	return nil
}
