package goerror

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBusiness(t *testing.T) {
	err := NewBusiness("E2003_INVALID_OTP", "Invalid OTP code.", CodeBadRequest)

	var gerr *Error
	require.ErrorAs(t, err, &gerr)
	assert.Equal(t, "E2003_INVALID_OTP", gerr.Key())
	assert.Equal(t, "Invalid OTP code.", gerr.Msg())
	assert.Equal(t, TypeBusiness, gerr.Type())
	assert.Equal(t, http.StatusBadRequest, gerr.StatusCode())
	assert.Equal(t, "Invalid OTP code.", err.Error())
}

func TestNewServer(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewServer(cause)

	var gerr *Error
	require.ErrorAs(t, err, &gerr)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "INTERNAL_SERVER_ERROR", gerr.Key())
	assert.Equal(t, http.StatusInternalServerError, gerr.StatusCode())
	assert.Equal(t, "Internal server error", gerr.Msg())
}

func TestNewInvalidInput(t *testing.T) {
	t.Run("pairs", func(t *testing.T) {
		err := NewInvalidInput(nil, "identifier", "must be a valid phone number")

		var gerr *Error
		require.ErrorAs(t, err, &gerr)
		assert.Equal(t, "VALIDATION_FAILED", gerr.Key())
		assert.Equal(t, http.StatusUnprocessableEntity, gerr.StatusCode())
		assert.Equal(t, map[string]string{"identifier": "must be a valid phone number"}, gerr.Fields())
	})

	t.Run("odd pairs fall back to invalid format", func(t *testing.T) {
		err := NewInvalidInput(nil, "identifier")

		var gerr *Error
		require.ErrorAs(t, err, &gerr)
		assert.Equal(t, CodeInvalidFormat, gerr.Code())
		assert.Equal(t, "INVALID_REQUEST_BODY", gerr.Key())
	})

	t.Run("wraps cause", func(t *testing.T) {
		cause := errors.New("field map")
		err := NewInvalidInput(cause)
		assert.ErrorIs(t, err, cause)
	})
}

func TestStatusCode(t *testing.T) {
	tests := []struct {
		code Code
		want int
	}{
		{CodeInvalidFormat, http.StatusBadRequest},
		{CodeBadRequest, http.StatusBadRequest},
		{CodeInvalidInput, http.StatusUnprocessableEntity},
		{CodeNotFound, http.StatusNotFound},
		{CodeTooManyRequest, http.StatusTooManyRequests},
		{CodeUnavailable, http.StatusServiceUnavailable},
		{CodeInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code.String(), func(t *testing.T) {
			e := &Error{code: tt.code}
			assert.Equal(t, tt.want, e.StatusCode())
		})
	}
}
