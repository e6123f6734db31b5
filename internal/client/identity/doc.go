// Package identity is the HTTP client for the platform's identity endpoint
// (login, logout, refresh, verify, plus register, change-password and the
// forgot/reset password flow).
//
// # Wire format
//
// Requests and responses are JSON. Successful bodies are accepted either
// flat ({"user":…,"token":…,"refreshToken":…}) or wrapped in a
// {"data": …} envelope. Any non-2xx status is returned as *APIError whose
// Message is taken from the body by ErrorMessage.
//
// # Error Handling
//
//   - ErrUnauthorized matches 401 and 403 answers.
//   - ErrUnavailable matches transport failures and 502/503/504 answers.
//   - ErrMalformedResponse is returned when a 2xx body lacks required fields.
//
// A 401 on a call made for the signed-in user (ChangePassword) also runs the
// handler set with WithUnauthorizedHandler, normally the session's forced
// logout. The client never retries; retry policy belongs to the caller.
package identity
