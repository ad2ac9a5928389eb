// Package config provides layered configuration for the browser-agent
// service: defaults, an optional YAML file, BROWSERAGENT_* environment
// overrides, and the legacy flat PORT / OPENAI_API_KEY variables that
// existing deployments still use.
package config
