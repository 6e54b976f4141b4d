package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKindOf(t *testing.T) {
	err := New(Conflict, "already awarded")
	require.Equal(t, Conflict, KindOf(err))

	wrapped := fmt.Errorf("handling request: %w", err)
	require.Equal(t, Conflict, KindOf(wrapped))

	require.Equal(t, Internal, KindOf(errors.New("plain")))
	require.Equal(t, Internal, KindOf(nil))
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := Wrap(Transient, "failed to commit transaction", cause)
	require.ErrorIs(t, err, cause)
	require.Equal(t, Transient, KindOf(err))
	require.Contains(t, err.Error(), "connection reset")
}

func TestHTTPStatus(t *testing.T) {
	require.Equal(t, http.StatusBadRequest, InvalidArgument.HTTPStatus())
	require.Equal(t, http.StatusForbidden, Forbidden.HTTPStatus())
	require.Equal(t, http.StatusNotFound, NotFound.HTTPStatus())
	require.Equal(t, http.StatusConflict, InvalidState.HTTPStatus())
	require.Equal(t, http.StatusConflict, Conflict.HTTPStatus())
	require.Equal(t, http.StatusServiceUnavailable, Transient.HTTPStatus())
	require.Equal(t, http.StatusInternalServerError, Internal.HTTPStatus())
}
