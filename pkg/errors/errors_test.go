package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorIsMatchesByKind(t *testing.T) {
	err := Wrap(errors.New("refresh rejected"), KindSessionExpired, http.StatusUnauthorized, "session expired")
	assert.True(t, errors.Is(err, ErrSessionExpired))
	assert.False(t, errors.Is(err, ErrUnauthenticated))

	wrapped := fmt.Errorf("list daily logs: %w", err)
	assert.True(t, errors.Is(wrapped, ErrSessionExpired))
}

func TestFromErrorPassthrough(t *testing.T) {
	orig := New(KindRequestFailed, http.StatusConflict, "duplicate log date")
	got := FromError(fmt.Errorf("create: %w", orig))
	require.NotNil(t, got)
	assert.Equal(t, KindRequestFailed, got.Kind)
	assert.Equal(t, http.StatusConflict, got.Status)
}

func TestFromErrorUnknownBecomesNetwork(t *testing.T) {
	got := FromError(errors.New("connection refused"))
	require.NotNil(t, got)
	assert.Equal(t, KindNetwork, got.Kind)
}

func TestKindHelpers(t *testing.T) {
	assert.Equal(t, KindValidation, KindOf(ErrValidation))
	assert.Equal(t, http.StatusUnauthorized, StatusOf(ErrUnauthenticated))
	assert.True(t, IsAuthFailure(ErrSessionExpired))
	assert.True(t, IsAuthFailure(ErrUnauthenticated))
	assert.False(t, IsAuthFailure(ErrRequestFailed))
	assert.Equal(t, "", string(KindOf(errors.New("plain"))))
}

func TestMessage(t *testing.T) {
	assert.Equal(t, "session expired", Message(ErrSessionExpired))
	assert.Equal(t, "plain", Message(errors.New("plain")))
	assert.Equal(t, "", Message(nil))
}
