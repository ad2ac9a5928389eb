package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/BaSui01/browser-agent/config"
	"github.com/BaSui01/browser-agent/llm"
	"github.com/BaSui01/browser-agent/types"
)

// runRequest is the wire format of the runtime's run endpoint.
type runRequest struct {
	Task     string `json:"task"`
	Model    string `json:"model"`
	APIKey   string `json:"api_key,omitempty"`
	BaseURL  string `json:"base_url,omitempty"`
	Headless bool   `json:"headless"`
	MaxTurns int    `json:"max_turns"`
}

type runResponse struct {
	Result string `json:"result"`
}

// runtimeClient drives one task through the external browser runtime.
// It is built per request and not reused.
type runtimeClient struct {
	runtimeURL string
	llmCfg     config.LLMConfig
	opts       Options
	http       *http.Client
	logger     *zap.Logger
}

func newRuntimeClient(runtimeURL string, llmCfg config.LLMConfig, opts Options, logger *zap.Logger) *runtimeClient {
	return &runtimeClient{
		runtimeURL: strings.TrimRight(runtimeURL, "/"),
		llmCfg:     llmCfg,
		opts:       opts,
		// Browser runs are long; cancellation is the caller's context.
		http:   &http.Client{Timeout: 10 * time.Minute},
		logger: logger,
	}
}

// Execute posts the instruction to the runtime and returns its final
// answer. Failures come back as *types.Error so callers can report a
// uniform envelope.
func (c *runtimeClient) Execute(ctx context.Context, prompt string, opts Options) (string, error) {
	payload := runRequest{
		Task:     prompt,
		Model:    c.llmCfg.Model,
		APIKey:   c.llmCfg.APIKey,
		BaseURL:  c.llmCfg.BaseURL,
		Headless: opts.Headless,
		MaxTurns: opts.MaxTurns,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", types.NewError(types.ErrInternalError, "agent: encode run request").WithCause(err)
	}

	url := c.runtimeURL + "/api/v1/run"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", types.NewError(types.ErrInternalError, "agent: build run request").WithCause(err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", types.NewError(types.ErrUpstreamTimeout, "agent: run canceled").WithCause(ctx.Err())
		}
		return "", types.NewError(types.ErrRuntimeUnavailable, "agent: browser runtime unreachable").
			WithCause(err).
			WithRetryable(true)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		msg := llm.ReadErrorMessage(resp.Body)
		c.logger.Warn("browser runtime rejected task",
			zap.Int("status", resp.StatusCode),
			zap.Duration("elapsed", time.Since(start)),
			zap.String("message", msg))
		return "", llm.MapHTTPError(resp.StatusCode, msg)
	}

	var out runResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", types.NewError(types.ErrUpstreamError, "agent: decode run response").WithCause(err)
	}

	c.logger.Info("browser runtime completed task",
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("result_chars", len(out.Result)))
	return out.Result, nil
}
