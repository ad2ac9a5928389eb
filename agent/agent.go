package agent

import (
	"context"

	"go.uber.org/zap"

	"github.com/BaSui01/browser-agent/config"
)

// Executor runs a single browsing instruction against the browser
// runtime and returns the agent's final answer.
type Executor interface {
	Execute(ctx context.Context, prompt string, opts Options) (string, error)
}

// Options carries the per-request browser settings.
type Options struct {
	Headless bool
	MaxTurns int
}

// Factory builds a fresh Executor for each request. The runtime holds
// browser state per run, so executors are construct-use-discard.
type Factory func(opts Options) Executor

// NewFactory returns a Factory producing runtime clients that forward
// the configured model credentials alongside each task.
func NewFactory(agentCfg config.AgentConfig, llmCfg config.LLMConfig, logger *zap.Logger) Factory {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(opts Options) Executor {
		return newRuntimeClient(agentCfg.RuntimeURL, llmCfg, opts, logger)
	}
}
