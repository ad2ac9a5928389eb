package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/BaSui01/browser-agent/types"
)

func TestWriteError_MapsCodeWhenStatusUnset(t *testing.T) {
	tests := []struct {
		code       types.ErrorCode
		wantStatus int
	}{
		{types.ErrInvalidRequest, http.StatusBadRequest},
		{types.ErrUnauthorized, http.StatusUnauthorized},
		{types.ErrRateLimited, http.StatusTooManyRequests},
		{types.ErrUpstreamTimeout, http.StatusGatewayTimeout},
		{types.ErrRuntimeUnavailable, http.StatusServiceUnavailable},
		{types.ErrInternalError, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		rec := httptest.NewRecorder()
		WriteError(rec, types.NewError(tt.code, "msg"), zap.NewNop())

		assert.Equal(t, tt.wantStatus, rec.Code, "code %s", tt.code)
		assert.Contains(t, rec.Body.String(), string(tt.code))
		assert.Contains(t, rec.Body.String(), `"success":false`)
	}
}

func TestWriteError_ExplicitStatusWins(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, types.NewError(types.ErrInternalError, "msg").WithHTTPStatus(http.StatusBadGateway), nil)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestDecodeJSONBody(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}

	t.Run("valid body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"x"}`))
		rec := httptest.NewRecorder()

		var p payload
		assert.NoError(t, DecodeJSONBody(rec, req, &p, zap.NewNop()))
		assert.Equal(t, "x", p.Name)
	})

	t.Run("unknown fields tolerated", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"x","extra":1}`))
		rec := httptest.NewRecorder()

		var p payload
		assert.NoError(t, DecodeJSONBody(rec, req, &p, zap.NewNop()))
	})

	t.Run("malformed body answers 400", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":`))
		rec := httptest.NewRecorder()

		var p payload
		assert.Error(t, DecodeJSONBody(rec, req, &p, zap.NewNop()))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
