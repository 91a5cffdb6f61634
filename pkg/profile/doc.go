// Package profile mirrors the authenticated user's owned content (issue
// reports and reposts) as a dependent cache of the session coordinator.
//
// The mirror re-fetches on every transition into Authenticated, including
// re-entry with a refreshed principal. The two fetches are independent:
// one failing degrades that list to empty without blocking the other. On
// transition into Unauthenticated both lists are cleared synchronously,
// inside the coordinator's observer callback, so a protected view can
// never flash the previous user's data after a redirect.
//
// There is no cancellation of in-flight fetches; a result is applied only
// if the session epoch it was fetched under is still current.
package profile
