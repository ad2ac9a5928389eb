// Package api defines the wire types of the browser-agent HTTP surface:
// the task request shared by all browsing routes and the flat response
// envelope returned with HTTP 200 for both outcomes.
package api
