package apierrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestKind_HTTPStatus(t *testing.T) {
	tests := []struct {
		kind Kind
		want int
	}{
		{KindValidation, http.StatusBadRequest},
		{KindUnauthorized, http.StatusUnauthorized},
		{KindPermission, http.StatusForbidden},
		{KindNotFound, http.StatusNotFound},
		{KindConflict, http.StatusConflict},
		{KindInternal, http.StatusInternalServerError},
		{Kind("unknown"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.kind.HTTPStatus())
		})
	}
}

func TestError_Is(t *testing.T) {
	err := NotFound("list gone")

	assert.ErrorIs(t, err, ErrNotFound)
	assert.NotErrorIs(t, err, ErrConflict)

	// Kind matching survives wrapping.
	wrapped := fmt.Errorf("outer: %w", err)
	assert.ErrorIs(t, wrapped, ErrNotFound)
}

func TestError_Message(t *testing.T) {
	err := Permission("no access")
	assert.Equal(t, "no access", err.Error())
	assert.Equal(t, http.StatusForbidden, err.HTTPStatus())
}

func TestNamedConstructors(t *testing.T) {
	listID := uuid.New()

	assert.ErrorIs(t, NewErrListNotFound(listID), ErrNotFound)
	assert.Contains(t, NewErrListNotFound(listID).Error(), listID.String())
	assert.ErrorIs(t, NewErrItemNotFound(uuid.New()), ErrNotFound)
	assert.ErrorIs(t, NewErrTargetUserNotFound(), ErrNotFound)
	assert.ErrorIs(t, NewErrNotListOwner(), ErrPermission)
	assert.ErrorIs(t, NewErrNoListAccess(), ErrPermission)
}

func TestError_IsAgainstNonAPIError(t *testing.T) {
	err := Validation("bad input")
	assert.False(t, errors.Is(err, errors.New("bad input")))
}
