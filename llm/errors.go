package llm

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/BaSui01/browser-agent/types"
)

// MapHTTPError maps an upstream HTTP status to a *types.Error with the
// appropriate retryable flag. Shared by the model client and the
// browser runtime client.
func MapHTTPError(status int, msg string) *types.Error {
	switch status {
	case http.StatusUnauthorized:
		return types.NewError(types.ErrUnauthorized, msg).WithHTTPStatus(status)
	case http.StatusForbidden:
		return types.NewError(types.ErrForbidden, msg).WithHTTPStatus(status)
	case http.StatusTooManyRequests:
		return types.NewError(types.ErrRateLimited, msg).WithHTTPStatus(status).WithRetryable(true)
	case http.StatusBadRequest:
		// Quota and credit exhaustion arrives as a 400 from some gateways.
		msgLower := strings.ToLower(msg)
		if strings.Contains(msgLower, "quota") ||
			strings.Contains(msgLower, "credit") ||
			strings.Contains(msgLower, "limit") {
			return types.NewError(types.ErrQuotaExceeded, msg).WithHTTPStatus(status)
		}
		return types.NewError(types.ErrInvalidRequest, msg).WithHTTPStatus(status)
	case http.StatusRequestTimeout, http.StatusGatewayTimeout:
		return types.NewError(types.ErrUpstreamTimeout, msg).WithHTTPStatus(status).WithRetryable(true)
	case http.StatusServiceUnavailable, http.StatusBadGateway:
		return types.NewError(types.ErrUpstreamError, msg).WithHTTPStatus(status).WithRetryable(true)
	case 529: // model overloaded
		return types.NewError(types.ErrUpstreamError, msg).WithHTTPStatus(status).WithRetryable(true)
	default:
		return types.NewError(types.ErrUpstreamError, msg).
			WithHTTPStatus(status).
			WithRetryable(status >= 500)
	}
}

// ReadErrorMessage extracts a human-readable message from an upstream
// error body, preferring the OpenAI-style {"error":{"message":...}}
// envelope and falling back to the raw text.
func ReadErrorMessage(body io.Reader) string {
	data, err := io.ReadAll(body)
	if err != nil {
		return "failed to read error response"
	}

	var errResp struct {
		Error struct {
			Message string `json:"message"`
			Type    string `json:"type"`
			Code    any    `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(data, &errResp); err == nil && errResp.Error.Message != "" {
		if errResp.Error.Type != "" {
			return fmt.Sprintf("%s (type: %s)", errResp.Error.Message, errResp.Error.Type)
		}
		return errResp.Error.Message
	}

	// Some gateways reply with a flat {"detail": "..."} body.
	var detailResp struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(data, &detailResp); err == nil && detailResp.Detail != "" {
		return detailResp.Detail
	}

	return string(data)
}
