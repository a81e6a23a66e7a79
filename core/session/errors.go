package session

import "errors"

var (
	// ErrAuthFailed is returned when login is rejected, when credentials are
	// missing, or when the login call itself fails.
	ErrAuthFailed = errors.New("puter: authentication failed")

	// ErrNotAuthenticated is returned by chat calls made before the session
	// holds a token. No request is sent.
	ErrNotAuthenticated = errors.New("puter: not authenticated, login first")
)
