package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/calebhoward/bastion/internal/auth"
	"github.com/calebhoward/bastion/internal/handlers"
	"github.com/calebhoward/bastion/internal/metrics"
	"github.com/calebhoward/bastion/pkg/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubHistory struct {
	snapshots []metrics.Snapshot
}

func (s *stubHistory) History() []metrics.Snapshot {
	return s.snapshots
}

func TestMetricsHandlerEmptyHistory(t *testing.T) {
	handler := handlers.NewMetricsHandler(&stubHistory{})

	rec := httptest.NewRecorder()
	handler.History(rec, httptest.NewRequest("GET", "/api/v1/system/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)

	var env struct {
		Data      []metrics.Snapshot `json:"data"`
		Error     *api.ErrorBody     `json:"error"`
		Timestamp time.Time          `json:"timestamp"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&env))
	assert.Nil(t, env.Error)
	assert.NotNil(t, env.Data)
	assert.Empty(t, env.Data)
}

func TestMetricsHandlerReturnsChronologicalHistory(t *testing.T) {
	base := time.Now().UTC().Truncate(time.Second)
	history := &stubHistory{snapshots: []metrics.Snapshot{
		{Timestamp: base, CPUPercent: 10, MemoryUsedBytes: 1, MemoryTotalBytes: 2, DiskPercent: 5},
		{Timestamp: base.Add(30 * time.Second), CPUPercent: 20, MemoryUsedBytes: 1, MemoryTotalBytes: 2, DiskPercent: 6},
	}}
	handler := handlers.NewMetricsHandler(history)

	rec := httptest.NewRecorder()
	handler.History(rec, httptest.NewRequest("GET", "/api/v1/system/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)

	var env struct {
		Data []metrics.Snapshot `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&env))
	require.Len(t, env.Data, 2)
	assert.Equal(t, 10.0, env.Data[0].CPUPercent)
	assert.True(t, env.Data[1].Timestamp.After(env.Data[0].Timestamp))
}

// Route-level check: only the admin role reaches the metrics endpoint.
func TestMetricsEndpointRequiresAdminRole(t *testing.T) {
	tm := auth.NewTokenManager("unit-test-secret-at-least-16-chars", 15*time.Minute)
	handler := auth.Middleware(tm, nil, nil, auth.GateConfig{})(
		auth.RequireRole("admin")(http.HandlerFunc(
			handlers.NewMetricsHandler(&stubHistory{}).History)))

	userToken, err := tm.GenerateAccessToken("user@example.com", "user")
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/api/v1/system/metrics", nil)
	req.Header.Set("Authorization", "Bearer "+userToken)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)

	adminToken, err := tm.GenerateAccessToken("admin@example.com", "admin")
	require.NoError(t, err)

	req = httptest.NewRequest("GET", "/api/v1/system/metrics", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
