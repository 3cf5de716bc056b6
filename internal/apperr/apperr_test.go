package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorsIsMatchesKind(t *testing.T) {
	err := NotFound("phone_numbers.get", "phone number not found")
	wrapped := fmt.Errorf("handler: %w", err)

	assert.ErrorIs(t, wrapped, ErrNotFound)
	assert.NotErrorIs(t, wrapped, ErrConflict)
	assert.Equal(t, KindNotFound, KindOf(wrapped))
}

func TestKindOfPlainError(t *testing.T) {
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
	assert.Equal(t, KindInternal, KindOf(nil))
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{Validation("op", "bad", nil), http.StatusBadRequest},
		{NotFound("op", "missing"), http.StatusNotFound},
		{Conflict("op", "dup", nil), http.StatusConflict},
		{Transient("op", errors.New("disk")), http.StatusServiceUnavailable},
		{Unauthorized("op", "who"), http.StatusUnauthorized},
		{Forbidden("op", "no"), http.StatusForbidden},
		{errors.New("plain"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, HTTPStatus(tt.err), tt.err.Error())
	}
}

func TestMessageHidesCause(t *testing.T) {
	err := Transient("categories.list", errors.New("database is locked"))
	assert.NotContains(t, Message(err), "locked")
	assert.Contains(t, err.Error(), "locked")
	assert.True(t, Retryable(err))
	assert.False(t, Retryable(Validation("op", "bad", nil)))
}

func TestValidationFields(t *testing.T) {
	err := Validation("categories.create", "invalid input", map[string]string{
		"name": "is required",
		"slug": "too long",
	})
	assert.Equal(t, "categories.create: validation: invalid input (name: is required, slug: too long)", err.Error())
	assert.Equal(t, "is required", FieldsOf(err)["name"])
	assert.Nil(t, FieldsOf(errors.New("x")))
}
