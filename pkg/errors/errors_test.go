package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructors(t *testing.T) {
	tests := []struct {
		name         string
		err          *AppError
		wantStatus   int
		wantCode     string
		wantSentinel error
		clientFault  bool
	}{
		{"bad request", BadRequest("No image provided"), http.StatusBadRequest, "BAD_REQUEST", ErrBadRequest, true},
		{"too large", TooLarge("too big"), http.StatusRequestEntityTooLarge, "TOO_LARGE", ErrTooLarge, true},
		{"not found", NotFound("page"), http.StatusNotFound, "NOT_FOUND", ErrNotFound, true},
		{"internal", Internal("boom"), http.StatusInternalServerError, "INTERNAL_ERROR", ErrInternal, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantStatus, tt.err.StatusCode)
			assert.Equal(t, tt.wantCode, tt.err.Code)
			assert.True(t, Is(tt.err, tt.wantSentinel))
			assert.Equal(t, tt.clientFault, tt.err.ClientFault())
		})
	}
}

func TestProcessing_KeepsUnderlyingMessage(t *testing.T) {
	cause := errors.New("image: unknown format")
	err := Processing(cause)

	assert.Equal(t, "image: unknown format", err.Message)
	assert.Equal(t, http.StatusInternalServerError, err.StatusCode)
	assert.True(t, Is(err, ErrProcessing))
	assert.True(t, Is(err, cause))
	assert.False(t, err.ClientFault())
}

func TestAs_ThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("verify: %w", BadRequest("No image provided"))

	var appErr *AppError
	require.True(t, As(wrapped, &appErr))
	assert.Equal(t, "No image provided", appErr.Message)
	assert.Equal(t, "No image provided: bad request", appErr.Error())
}
