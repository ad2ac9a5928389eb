// Package llm holds the OpenAI-compatible model settings handed to the
// browser runtime, plus a thin client used for upstream health probes
// and error normalization.
package llm
