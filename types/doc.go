// Package types holds the shared type contracts of the browser-agent
// service. It is the lowest-level package and depends on nothing internal,
// so api, agent, llm and cmd can all agree on one structured error shape
// without import cycles.
package types
