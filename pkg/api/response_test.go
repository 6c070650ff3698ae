package api_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/calebhoward/bastion/pkg/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteData(t *testing.T) {
	rec := httptest.NewRecorder()
	api.WriteData(rec, http.StatusOK, map[string]string{"hello": "world"})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var env api.Envelope
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&env))
	assert.Nil(t, env.Error)
	assert.False(t, env.Timestamp.IsZero())

	data, ok := env.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "world", data["hello"])
}

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	api.WriteError(rec, http.StatusTooManyRequests, api.CodeAccountLocked, "try later")

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	var env api.Envelope
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&env))
	assert.Nil(t, env.Data)
	require.NotNil(t, env.Error)
	assert.Equal(t, api.CodeAccountLocked, env.Error.Code)
	assert.Equal(t, "try later", env.Error.Message)
}

func TestErrorFieldIsExplicitNullOnSuccess(t *testing.T) {
	rec := httptest.NewRecorder()
	api.WriteData(rec, http.StatusOK, "ok")

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))

	errField, present := raw["error"]
	require.True(t, present, "envelope must always carry the error field")
	assert.Equal(t, "null", string(errField))
}
