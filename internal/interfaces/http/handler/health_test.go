package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthHandler_AllHealthy(t *testing.T) {
	h := NewHealthHandler("1.2.3", map[string]Pinger{
		"database": PingFunc(func(context.Context) error { return nil }),
		"redis":    nil,
	})
	c, w := newTestContext(http.MethodGet, "/health")

	h.Health(c)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	assert.True(t, resp.Success)
	data := resp.Data.(map[string]any)
	assert.Equal(t, "ok", data["status"])
	assert.Equal(t, "1.2.3", data["version"])
	checks := data["checks"].(map[string]any)
	assert.Equal(t, "ok", checks["database"])
	assert.NotContains(t, checks, "redis")
}

func TestHealthHandler_Degraded(t *testing.T) {
	h := NewHealthHandler("dev", map[string]Pinger{
		"database": PingFunc(func(context.Context) error { return errors.New("connection refused") }),
	})
	c, w := newTestContext(http.MethodGet, "/health")

	h.Health(c)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	resp := decode(t, w)
	assert.False(t, resp.Success)
	data := resp.Data.(map[string]any)
	assert.Equal(t, "degraded", data["status"])
	require.Contains(t, data["checks"], "database")
	assert.Contains(t, data["checks"].(map[string]any)["database"], "connection refused")
}
