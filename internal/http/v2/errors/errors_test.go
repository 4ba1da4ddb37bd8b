package errors

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteErrorCtx_AppError(t *testing.T) {
	rr := httptest.NewRecorder()
	WriteErrorCtx(rr, nil, ErrInvalidParameter.WithDetail("expiry: expected YYYY-MM-DD"))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "application/json; charset=utf-8", rr.Header().Get("Content-Type"))

	var body map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "error", body["status"])
	assert.Equal(t, "INVALID_PARAMETER", body["code"])
	assert.Equal(t, "expiry: expected YYYY-MM-DD", body["detail"])
}

func TestWriteErrorCtx_GenericBecomes500WithoutLeakingCause(t *testing.T) {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	WriteErrorCtx(rr, req, errors.New("secret dsn in message"))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.NotContains(t, rr.Body.String(), "secret dsn")
	assert.Contains(t, rr.Body.String(), "INTERNAL_SERVER_ERROR")
}

func TestFromError_Unwraps(t *testing.T) {
	cause := errors.New("boom")
	wrapped := errors.Join(errors.New("ctx"), ErrStoreUnavailable.WithCause(cause))
	app := FromError(wrapped)
	assert.Equal(t, "STORE_ERROR", app.Code)
	assert.ErrorIs(t, app, cause)
}

func TestWithDetailDoesNotMutateBase(t *testing.T) {
	_ = ErrMissingKey.WithDetail("x")
	assert.Empty(t, ErrMissingKey.Detail)
}
