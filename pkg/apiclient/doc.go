// Package apiclient provides a typed client for the ResolveIt backend REST
// API. Every endpoint returns the backend's response envelope
// `{success, message?, data|user?}`; the client unwraps it into Go types
// and maps failures onto a small error taxonomy:
//
//   - ErrUnauthorized – the backend rejected the bearer credential
//     (HTTP 401/403). This is the only error that callers may treat as
//     grounds for evicting a session.
//   - *APIError – the backend processed the request and said no
//     (validation failure, duplicate email, bad password). Carries the
//     backend's message for inline display.
//   - ErrTransient – the backend could not be reached or returned
//     something undecodable. Never grounds for eviction.
//
// The client performs no credential management of its own: it sends
// whatever the injected http.Client's transport attaches. Pair it with
// pkg/transport to get automatic bearer injection and 401 handling.
package apiclient
