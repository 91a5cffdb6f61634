package session

import "errors"

var (
	// ErrNotAuthenticated indicates an operation that requires an authenticated session
	ErrNotAuthenticated = errors.New("session.not_authenticated")

	// ErrNoBackend indicates a coordinator constructed without a backend client
	ErrNoBackend = errors.New("session.no_backend")

	// ErrNoStore indicates a coordinator constructed without a session store
	ErrNoStore = errors.New("session.no_store")
)
