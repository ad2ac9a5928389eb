// Package agent binds prompts to the external browser runtime. It builds
// the instruction text for each route, derives stable task identifiers,
// and runs tasks through a per-request runtime client.
package agent
