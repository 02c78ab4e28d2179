package apierr

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStatusFromWrappedSentinel(t *testing.T) {
	sentinel := New(http.StatusNotFound, "recipe_not_found", errors.New("recipe not found"))
	err := Wrap(sentinel, "id %s", "42")

	require.ErrorIs(t, err, sentinel)
	require.Equal(t, http.StatusNotFound, Status(err, http.StatusBadRequest))
	require.Equal(t, "recipe not found: id 42", err.Error())
}

func TestStatusFallback(t *testing.T) {
	require.Equal(t, http.StatusInternalServerError, Status(errors.New("boom"), http.StatusInternalServerError))
	require.Equal(t, http.StatusBadRequest, Status(New(0, "x", nil), http.StatusBadRequest))
}

func TestErrorMessage(t *testing.T) {
	require.Equal(t, "conflict", New(http.StatusConflict, "conflict", nil).Error())
	require.Equal(t, "api error (418)", New(http.StatusTeapot, "", nil).Error())
}
