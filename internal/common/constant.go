// Package common contains constants and helpers shared by the TraceTrail
// client packages.
package common

const (
	// AuthorizationHeader carries the bearer token on outbound API requests.
	AuthorizationHeader = "Authorization"

	// BearerPrefix precedes the token in AuthorizationHeader.
	BearerPrefix = "Bearer "

	// DefaultTokenKey is the persisted-state key holding the access token.
	DefaultTokenKey = "tracetrail_token"

	// AppName is used for data directories and the User-Agent header.
	AppName = "tracetrail"
)
