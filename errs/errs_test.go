package errs

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFailuresUnwrapToFamilySentinels(t *testing.T) {
	cases := []struct {
		err    *Error
		family error
		status int
		code   string
	}{
		{JobNotFound(), ErrNotFound, http.StatusNotFound, "JOB_NOT_FOUND"},
		{InvalidOffer(), ErrNotFound, http.StatusBadRequest, "INVALID_OFFER"},
		{AddressForbidden(), ErrForbidden, http.StatusForbidden, "ADDRESS_FORBIDDEN"},
		{InvalidCredentials(), ErrUnauthorized, http.StatusUnauthorized, "INVALID_CREDENTIALS"},
		{InvalidState("cannot accept"), ErrInvalidState, http.StatusBadRequest, "INVALID_STATE"},
		{EmailTaken(), ErrConflict, http.StatusConflict, "EMAIL_TAKEN"},
		{AddressInUse(), ErrInUse, http.StatusBadRequest, "ADDRESS_IN_USE"},
		{InvalidInput("bad payload"), ErrInvalidInput, http.StatusBadRequest, "INVALID_INPUT"},
	}

	for _, tc := range cases {
		assert.True(t, errors.Is(tc.err, tc.family), "%s should belong to its family", tc.code)
		assert.Equal(t, tc.status, tc.err.Status)
		assert.Equal(t, tc.code, tc.err.Code)
	}
}

func TestAsSurvivesWrapping(t *testing.T) {
	wrapped := fmt.Errorf("accepting job: %w", JobNotFound())

	appErr, ok := As(wrapped)
	assert.True(t, ok)
	assert.Equal(t, "JOB_NOT_FOUND", appErr.Code)
	assert.True(t, errors.Is(wrapped, ErrNotFound))
}

func TestUntypedErrorDefaults(t *testing.T) {
	plain := errors.New("boom")
	assert.Equal(t, "INTERNAL_ERROR", CodeOf(plain))
	assert.Equal(t, http.StatusInternalServerError, StatusOf(plain))

	_, ok := As(plain)
	assert.False(t, ok)
}

func TestErrorString(t *testing.T) {
	assert.Equal(t, "INVALID_STATE: cannot accept", InvalidState("cannot accept").Error())
}
