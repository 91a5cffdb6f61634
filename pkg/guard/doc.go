// Package guard decides whether a navigation target may render, as a pure
// function of the session coordinator's state. It holds no state of its
// own: while the coordinator is still Initializing the guard holds (renders
// nothing, avoiding a false redirect flash during startup verification);
// while Unauthenticated it redirects to the login route, preserving the
// requested location for post-login return; while Authenticated it allows.
// Public routes always render.
package guard
