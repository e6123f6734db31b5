// Package api is the typed HTTP client for the platform's campaign,
// donation and profile endpoints.
//
// The client reads its bearer credential from a Session on every request
// and never from storage. Before sending, an access token whose JWT exp has
// passed is refreshed once through Session.RefreshAuth. Any 401 answer
// clears the session with Session.ForceLogout and is returned as an error
// matching ErrUnauthorized.
//
// GET requests are retried on transport failures only. Non-2xx answers are
// never retried.
package api
