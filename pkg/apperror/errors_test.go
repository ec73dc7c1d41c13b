package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapErrorToStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{ErrNotFound, http.StatusNotFound},
		{ErrUnauthorized, http.StatusUnauthorized},
		{ErrForbidden, http.StatusForbidden},
		{ErrBadRequest, http.StatusBadRequest},
		{ErrInvalidInput, http.StatusBadRequest},
		{ErrRateLimitExceeded, http.StatusTooManyRequests},
		{errors.New("something else"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, MapErrorToStatus(tc.err), tc.err.Error())
	}
}

func TestMapErrorToStatusUnwrapsWrappedSentinels(t *testing.T) {
	wrapped := fmt.Errorf("%w: title 42 not found", ErrNotFound)
	assert.Equal(t, http.StatusNotFound, MapErrorToStatus(wrapped))

	doubleWrapped := fmt.Errorf("while handling request: %w", wrapped)
	assert.Equal(t, http.StatusNotFound, MapErrorToStatus(doubleWrapped))
}

func TestMapErrorToStatusPrefersExplicitAppErrorCode(t *testing.T) {
	err := New(http.StatusConflict, "already exists", ErrInvalidInput)
	assert.Equal(t, http.StatusConflict, MapErrorToStatus(err))
}

func TestAppErrorMessageAndUnwrap(t *testing.T) {
	inner := errors.New("inner")

	withMessage := New(http.StatusBadRequest, "explicit message", inner)
	assert.Equal(t, "explicit message", withMessage.Error())
	assert.ErrorIs(t, withMessage, inner)

	withoutMessage := New(http.StatusBadRequest, "", inner)
	assert.Equal(t, "inner", withoutMessage.Error())
}
