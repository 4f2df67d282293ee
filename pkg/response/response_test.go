package response

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/gudang-labs/warehouse-dashboard/pkg/errors"
)

func TestDecodeSuccess(t *testing.T) {
	var out struct {
		Total int `json:"total"`
	}
	body := []byte(`{"success":true,"message":"ok","data":{"total":25}}`)
	require.NoError(t, Decode(http.StatusOK, body, &out))
	assert.Equal(t, 25, out.Total)
}

func TestDecodeSuccessFalseIsFailure(t *testing.T) {
	body := []byte(`{"success":false,"message":"username sudah digunakan"}`)
	err := Decode(http.StatusOK, body, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrRequestFailed))
	assert.Equal(t, "username sudah digunakan", apperrors.Message(err))
}

func TestDecodeNonJSONErrorBody(t *testing.T) {
	err := Decode(http.StatusBadGateway, []byte("upstream unavailable"), nil)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindRequestFailed, apperrors.KindOf(err))
	assert.Equal(t, http.StatusBadGateway, apperrors.StatusOf(err))
	assert.Equal(t, "upstream unavailable", apperrors.Message(err))
}

func TestDecodeErrorEnvelopeMessageWins(t *testing.T) {
	body := []byte(`{"success":false,"message":"log tidak ditemukan"}`)
	err := Decode(http.StatusNotFound, body, nil)
	require.Error(t, err)
	assert.Equal(t, "log tidak ditemukan", apperrors.Message(err))
	assert.Equal(t, http.StatusNotFound, apperrors.StatusOf(err))
}

func TestDecodeNilOutSkipsData(t *testing.T) {
	body := []byte(`{"success":true,"message":"deleted"}`)
	require.NoError(t, Decode(http.StatusOK, body, nil))
}
