package httputil

import (
	"encoding/json"
	"net/http"

	"github.com/sgdemo/nric-verify/pkg/errors"
)

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error string `json:"error"`
}

// JSON sends v as the JSON response body
func JSON(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	json.NewEncoder(w).Encode(v)
}

// Error sends an error response. AppErrors carry their own status and
// message; anything else is reported as an opaque internal error.
func Error(w http.ResponseWriter, err error) {
	var appErr *errors.AppError
	if errors.As(err, &appErr) {
		JSON(w, appErr.StatusCode, ErrorResponse{Error: appErr.Message})
		return
	}

	// Default to internal server error
	JSON(w, http.StatusInternalServerError, ErrorResponse{Error: "an unexpected error occurred"})
}
