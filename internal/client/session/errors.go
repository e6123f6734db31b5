package session

import "errors"

// The messages of the first five errors are also the user-visible Err
// values recorded in State.
var (
	ErrNotAuthenticated     = errors.New("not authenticated")
	ErrSessionExpired       = errors.New("session expired")
	ErrLoginFailed          = errors.New("login failed")
	ErrNoRefreshToken       = errors.New("no refresh token")
	ErrRefreshFailed        = errors.New("failed to refresh token")
	ErrBusy                 = errors.New("session operation already in progress")
	ErrSuperseded           = errors.New("session changed while request was in flight")
	ErrAlreadyAuthenticated = errors.New("already authenticated")
)
