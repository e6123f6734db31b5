// Package common contains constants and small helpers shared by the
// charitydesk client, the platform API client and the development
// identity server.
package common

// AuthorizationHeader carries the bearer access token on outbound requests.
const AuthorizationHeader = "Authorization"

// BearerPrefix is prepended to the access token in AuthorizationHeader.
const BearerPrefix = "Bearer "

// RequestIDHeader correlates a client request with server-side logs.
const RequestIDHeader = "X-Request-ID"

// ContentTypeJSON is the only body encoding spoken by the platform.
const ContentTypeJSON = "application/json"
