package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/BaSui01/browser-agent/config"
	"github.com/BaSui01/browser-agent/types"
)

// Client carries the model credentials forwarded to the browser runtime
// and knows how to probe the upstream API for readiness.
type Client struct {
	cfg    config.LLMConfig
	http   *http.Client
	logger *zap.Logger
}

// NewClient validates the model settings and builds a client.
func NewClient(cfg config.LLMConfig, logger *zap.Logger) (*Client, error) {
	if cfg.Model == "" {
		return nil, types.NewError(types.ErrInvalidRequest, "llm: model must not be empty")
	}
	if cfg.BaseURL == "" {
		return nil, types.NewError(types.ErrInvalidRequest, "llm: base URL must not be empty")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: timeout},
		logger: logger,
	}, nil
}

// Model returns the configured model identifier.
func (c *Client) Model() string { return c.cfg.Model }

// APIKey returns the configured API key.
func (c *Client) APIKey() string { return c.cfg.APIKey }

// BaseURL returns the upstream base URL without a trailing slash.
func (c *Client) BaseURL() string { return strings.TrimRight(c.cfg.BaseURL, "/") }

// HealthCheck verifies the upstream API is reachable and the key is
// accepted by listing models. Used by the readiness endpoint.
func (c *Client) HealthCheck(ctx context.Context) error {
	url := c.BaseURL() + "/v1/models"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return types.NewError(types.ErrInternalError, "llm: build health request").WithCause(err)
	}
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return types.NewError(types.ErrUpstreamError, fmt.Sprintf("llm: health check failed: %v", err)).
			WithRetryable(true)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		msg := ReadErrorMessage(resp.Body)
		c.logger.Warn("llm health check rejected",
			zap.Int("status", resp.StatusCode),
			zap.String("message", msg))
		return MapHTTPError(resp.StatusCode, msg)
	}
	return nil
}
