// Package handlers implements the HTTP endpoints of the browser-agent
// service: health probes and the three browsing routes.
package handlers
