// =============================================================================
// 📦 browser-agent default configuration
// =============================================================================
// Reasonable defaults for every configuration item.
// =============================================================================
package config

import "time"

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Server:    DefaultServerConfig(),
		LLM:       DefaultLLMConfig(),
		Agent:     DefaultAgentConfig(),
		Log:       DefaultLogConfig(),
		Telemetry: DefaultTelemetryConfig(),
	}
}

// DefaultServerConfig returns the default server configuration.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		HTTPPort:        3005,
		MetricsPort:     9091,
		ReadTimeout:     30 * time.Second,
		WriteTimeout:    10 * time.Minute,
		ShutdownTimeout: 15 * time.Second,
		RateLimitRPS:    100,
		RateLimitBurst:  200,
	}
}

// DefaultLLMConfig returns the default LLM configuration.
func DefaultLLMConfig() LLMConfig {
	return LLMConfig{
		Model:   "gpt-4o-mini",
		APIKey:  "",
		BaseURL: "https://api.openai.com",
		Timeout: 30 * time.Second,
	}
}

// DefaultAgentConfig returns the default agent runtime configuration.
func DefaultAgentConfig() AgentConfig {
	return AgentConfig{
		RuntimeURL: "http://localhost:7788",
		Headless:   true,
		MaxTurns:   10,
	}
}

// DefaultLogConfig returns the default log configuration.
func DefaultLogConfig() LogConfig {
	return LogConfig{
		Level:       "info",
		Format:      "json",
		OutputPaths: []string{"stdout"},
	}
}

// DefaultTelemetryConfig returns the default telemetry configuration.
func DefaultTelemetryConfig() TelemetryConfig {
	return TelemetryConfig{
		Enabled:      false,
		OTLPEndpoint: "localhost:4317",
		ServiceName:  "browser-agent",
		SampleRate:   0.1,
	}
}
