// Package transport wraps every outbound backend call in a credential
// pipeline: an http.RoundTripper that attaches the active session's bearer
// credential and reacts to authorization rejections.
//
// On a 401/403 response the transport first runs the configured
// invalidator to completion, clearing coordinator state and storage, and
// only then asks the Navigator to replace the current location with the
// login route, so a re-render after the redirect observes a consistent
// unauthenticated state. When the current location is already a public
// route (login, registration, password recovery) no redirect is issued,
// which is what breaks the redirect loop.
//
// The transport is the single holder of the active credential slot; only
// the session coordinator writes to it.
package transport
