package responses

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/dmcastillo/ofertazo-backend/pkg/errors"
	"github.com/dmcastillo/ofertazo-backend/pkg/types"
)

func decodeError(t *testing.T, body []byte) types.APIError {
	t.Helper()

	var envelope types.ErrorEnvelope
	require.NoError(t, json.Unmarshal(body, &envelope))
	return envelope.Error
}

func TestWriteSuccessWrapsDataEnvelope(t *testing.T) {
	resp := httptest.NewRecorder()
	WriteSuccess(resp, map[string]string{"status": "ok"})

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "application/json", resp.Header().Get("Content-Type"))

	var envelope struct {
		Data map[string]string `json:"data"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.Equal(t, "ok", envelope.Data["status"])
}

func TestWriteErrorPassesThroughClientMessages(t *testing.T) {
	resp := httptest.NewRecorder()
	WriteError(context.Background(), nil, resp,
		pkgerrors.New(pkgerrors.CodeValidation, "granularity is invalid").WithDetails(map[string]string{"granularity": "is invalid"}))

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	apiErr := decodeError(t, resp.Body.Bytes())
	assert.Equal(t, "VALIDATION_ERROR", apiErr.Code)
	assert.Equal(t, "granularity is invalid", apiErr.Message)
	assert.NotNil(t, apiErr.Details)
}

func TestWriteErrorMasksStorageFailures(t *testing.T) {
	resp := httptest.NewRecorder()
	WriteError(context.Background(), nil, resp,
		pkgerrors.Wrap(pkgerrors.CodeStorage, errors.New("pq: connection refused"), "counting events by action"))

	assert.Equal(t, http.StatusServiceUnavailable, resp.Code)
	apiErr := decodeError(t, resp.Body.Bytes())
	assert.Equal(t, "STORAGE_ERROR", apiErr.Code)
	assert.Equal(t, "storage unavailable", apiErr.Message)
	assert.Nil(t, apiErr.Details)
}

func TestWriteErrorWrapsUntypedErrors(t *testing.T) {
	resp := httptest.NewRecorder()
	WriteError(context.Background(), nil, resp, errors.New("boom"))

	assert.Equal(t, http.StatusInternalServerError, resp.Code)
	apiErr := decodeError(t, resp.Body.Bytes())
	assert.Equal(t, "INTERNAL_ERROR", apiErr.Code)
	assert.Equal(t, "internal server error", apiErr.Message)
}
