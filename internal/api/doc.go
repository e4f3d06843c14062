// Package api provides the client for the dashboard's REST backend.
//
// The engine consumes a single endpoint:
//
//	GET /historical/{symbol}?duration=<string>&bar_size=<string>
//
// 503 responses carry an optional detail payload distinguishing a busy
// gateway from a disconnected one; Classify maps failures to user-visible
// advisories.
package api
