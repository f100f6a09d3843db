// Package common contains shared constants and small helpers used across
// the CollabNotes client packages.
package common

const (
	// AuthorizationHeader carries the bearer access token on outbound requests.
	AuthorizationHeader = "Authorization"

	// BearerPrefix precedes the access token in AuthorizationHeader.
	BearerPrefix = "Bearer "

	// RequestIDHeader identifies one logical request across its replays.
	RequestIDHeader = "X-Request-ID"

	// UserAgent is sent with every API call.
	UserAgent = "collabnotes-cli/1"
)

// BearerToken formats token for AuthorizationHeader.
func BearerToken(token string) string {
	return BearerPrefix + token
}
