package transport

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
)

// Default route table for the redirect policy.
const (
	DefaultLoginRoute = "/login"
)

var defaultPublicRoutes = []string{
	"/login",
	"/register",
	"/forgot-password",
	"/reset-password",
}

// Invalidator destroys the current session. It must not return until state
// and storage are fully cleared; the transport redirects only afterwards.
type Invalidator func(ctx context.Context)

// Transport implements http.RoundTripper. It holds the active credential
// slot and enforces the unauthorized-response policy.
type Transport struct {
	base       http.RoundTripper
	invalidate Invalidator
	nav        Navigator
	loginRoute string
	public     map[string]struct{}
	log        *slog.Logger

	mu         sync.RWMutex
	credential string

	// handling serializes concurrent 401s so the invalidator runs once
	// per eviction rather than once per in-flight request.
	handling sync.Mutex
}

// Option is a functional option for configuring the Transport
type Option func(*Transport)

// WithBase sets the underlying RoundTripper. Defaults to http.DefaultTransport.
func WithBase(rt http.RoundTripper) Option {
	return func(t *Transport) {
		if rt != nil {
			t.base = rt
		}
	}
}

// WithInvalidator sets the session-destroying hook run on 401/403.
func WithInvalidator(fn Invalidator) Option {
	return func(t *Transport) {
		t.invalidate = fn
	}
}

// WithNavigator sets the navigator used for the login redirect.
func WithNavigator(nav Navigator) Option {
	return func(t *Transport) {
		t.nav = nav
	}
}

// WithLoginRoute overrides the redirect target.
func WithLoginRoute(route string) Option {
	return func(t *Transport) {
		if route != "" {
			t.loginRoute = route
		}
	}
}

// WithPublicRoutes replaces the set of routes that never trigger a redirect.
func WithPublicRoutes(routes ...string) Option {
	return func(t *Transport) {
		t.public = make(map[string]struct{}, len(routes))
		for _, r := range routes {
			t.public[r] = struct{}{}
		}
	}
}

// WithLogger sets the logger.
func WithLogger(log *slog.Logger) Option {
	return func(t *Transport) {
		if log != nil {
			t.log = log
		}
	}
}

// New creates a credential transport.
func New(opts ...Option) *Transport {
	t := &Transport{
		base:       http.DefaultTransport,
		loginRoute: DefaultLoginRoute,
		log:        slog.Default(),
	}
	t.public = make(map[string]struct{}, len(defaultPublicRoutes))
	for _, r := range defaultPublicRoutes {
		t.public[r] = struct{}{}
	}

	for _, opt := range opts {
		opt(t)
	}
	return t
}

// SetCredential installs the active bearer credential. Only the session
// coordinator calls this.
func (t *Transport) SetCredential(credential string) {
	t.mu.Lock()
	t.credential = credential
	t.mu.Unlock()
}

// ClearCredential removes the active credential.
func (t *Transport) ClearCredential() {
	t.SetCredential("")
}

// Credential returns the active credential; empty when unauthenticated.
func (t *Transport) Credential() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.credential
}

// RoundTrip attaches the bearer credential and applies the unauthorized
// policy to the response.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	cred := t.Credential()
	if cred != "" {
		// RoundTrippers must not mutate the caller's request.
		req = req.Clone(req.Context())
		req.Header.Set("Authorization", "Bearer "+cred)
	}

	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		t.handleUnauthorized(req.Context())
	}

	return resp, nil
}

// handleUnauthorized destroys the session, then redirects to login unless
// the user is already on a public route.
func (t *Transport) handleUnauthorized(ctx context.Context) {
	t.handling.Lock()
	defer t.handling.Unlock()

	// State and storage must be cleared before any navigation happens, so
	// the next render observes Unauthenticated rather than a stale session.
	if t.invalidate != nil {
		t.invalidate(ctx)
	}

	if t.nav == nil {
		return
	}

	current := t.nav.Current()
	if _, ok := t.public[current]; ok {
		// Already on a public route; redirecting again would loop.
		return
	}

	t.log.Info("credential rejected, redirecting to login", slog.String("from", current))
	t.nav.Replace(t.loginRoute, current)
}
