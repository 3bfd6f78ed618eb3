// Package common contains shared constants and sentinel errors used across
// NatorVoice components.
package common

// AuthorizationHeaderName is the HTTP header carrying the session bearer token.
const AuthorizationHeaderName = "Authorization"

// BearerPrefix precedes the session token inside the authorization header.
const BearerPrefix = "Bearer "

// Usage headers are attached to synthesis responses of authenticated callers.
const (
	UsageUsedHeaderName  = "X-Usage-Used"
	UsageLimitHeaderName = "X-Usage-Limit"
)

// MaxTextLength is the hard cap on synthesized script length, in characters.
const MaxTextLength = 1200
