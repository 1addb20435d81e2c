package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodeOf(t *testing.T) {
	assert.Equal(t, CodeUnauthenticated, CodeOf(Unauthenticated("no session")))
	assert.Equal(t, CodeForbidden, CodeOf(Forbidden("not yours")))
	assert.Equal(t, CodeNotFound, CodeOf(NotFound("gone")))
	assert.Equal(t, CodeTransient, CodeOf(errors.New("plain error")))

	wrapped := fmt.Errorf("load data: %w", NotFound("gone"))
	assert.Equal(t, CodeNotFound, CodeOf(wrapped), "codes survive wrapping")
}

func TestStatusRoundTrip(t *testing.T) {
	for _, code := range []Code{CodeUnauthenticated, CodeForbidden, CodeNotFound, CodeTransient} {
		assert.Equal(t, code, FromStatus(HTTPStatus(code)))
	}
	assert.Equal(t, CodeTransient, FromStatus(http.StatusBadGateway))
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := Transient("request failed", cause)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "request failed")
	assert.Contains(t, err.Error(), "connection refused")
}
