/*
Package main provides the browser-agent service entry point.

# Overview

cmd/browseragent is the executable entry of the browser-agent service.
It exposes the browsing HTTP API, health probes and Prometheus metrics,
with YAML configuration loading, structured logging (zap) and optional
OpenTelemetry export.

# Core types

  - Server     — main server managing the HTTP and metrics ports plus graceful shutdown
  - Middleware — HTTP middleware signature func(http.Handler) http.Handler

# Capabilities

  - Subcommands: serve (start the service), version, health
  - Middleware chain: Recovery, RequestID, SecurityHeaders, RequestLogger,
    CORS, RateLimiter (per IP), metrics and tracing
  - Metrics server: separate port exposing /metrics (Prometheus)
  - Graceful shutdown: signal watch → drain HTTP → close metrics → wait
  - Build injection: Version, BuildTime, GitCommit set via ldflags
*/
package main
