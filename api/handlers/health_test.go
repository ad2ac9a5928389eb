package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestHandleHealth_ExactBody(t *testing.T) {
	h := NewHealthHandler("test", zap.NewNop())

	rec := httptest.NewRecorder()
	h.HandleHealth(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","service":"browser-agent"}`, rec.Body.String())
}

func TestHandleHealth_IgnoresFailingChecks(t *testing.T) {
	h := NewHealthHandler("test", zap.NewNop())
	h.RegisterCheck(HealthCheckFunc{
		CheckName: "upstream",
		Fn:        func(ctx context.Context) error { return errors.New("down") },
	})

	rec := httptest.NewRecorder()
	h.HandleHealth(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code, "liveness never reflects dependency state")
}

func TestHandleReady(t *testing.T) {
	t.Run("no checks", func(t *testing.T) {
		h := NewHealthHandler("test", zap.NewNop())

		rec := httptest.NewRecorder()
		h.HandleReady(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"status":"ready"`)
	})

	t.Run("failing check", func(t *testing.T) {
		h := NewHealthHandler("test", zap.NewNop())
		h.RegisterCheck(HealthCheckFunc{
			CheckName: "llm",
			Fn:        func(ctx context.Context) error { return errors.New("key rejected") },
		})

		rec := httptest.NewRecorder()
		h.HandleReady(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Contains(t, rec.Body.String(), "key rejected")
	})
}

func TestHandleVersion(t *testing.T) {
	h := NewHealthHandler("1.2.3", zap.NewNop())

	rec := httptest.NewRecorder()
	h.HandleVersion(rec, httptest.NewRequest(http.MethodGet, "/version", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"service":"browser-agent","version":"1.2.3"}`, rec.Body.String())
}
