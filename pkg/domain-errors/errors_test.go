package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasCodeWalksWrappedChain(t *testing.T) {
	cause := errors.New("row missing")
	err := fmt.Errorf("lookup volunteer: %w", Wrap(cause, CodeNotFound, "volunteer not found"))

	assert.True(t, HasCode(err, CodeNotFound))
	assert.False(t, HasCode(err, CodeForbidden))
	assert.True(t, errors.Is(err, err))
}

func TestCodeOfDefaultsToInternal(t *testing.T) {
	assert.Equal(t, CodeInternal, CodeOf(errors.New("plain")))
	assert.Equal(t, CodeConflict, CodeOf(New(CodeConflict, "email taken")))
}

func TestToHTTPStatus(t *testing.T) {
	cases := map[Code]int{
		CodeNotFound:     http.StatusNotFound,
		CodeUnauthorized: http.StatusUnauthorized,
		CodeForbidden:    http.StatusForbidden,
		CodeValidation:   http.StatusUnprocessableEntity,
		CodeConflict:     http.StatusConflict,
		CodeBadRequest:   http.StatusBadRequest,
		CodeRateLimited:  http.StatusTooManyRequests,
		CodeInternal:     http.StatusInternalServerError,
	}
	for code, want := range cases {
		assert.Equal(t, want, ToHTTPStatus(code), string(code))
	}
}
