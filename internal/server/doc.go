// Package server manages HTTP listener lifecycle: non-blocking start,
// asynchronous error reporting and graceful shutdown on signals.
package server
