package guard

import (
	"github.com/sravansai-26/resolveit-sub000/pkg/session"
)

// Action is the guard's verdict for a navigation.
type Action int

const (
	// ActionHold renders nothing; startup state is still resolving.
	ActionHold Action = iota
	// ActionAllow renders the requested content.
	ActionAllow
	// ActionRedirect sends the user to Decision.Target instead.
	ActionRedirect
)

// Decision is the outcome of guarding one navigation.
type Decision struct {
	Action Action

	// Target is the route to redirect to; set only for ActionRedirect.
	Target string

	// ReturnTo is the originally requested route, carried through the
	// redirect so a successful login can come back to it.
	ReturnTo string
}

// Guard evaluates navigations against session snapshots.
type Guard struct {
	loginRoute string
	public     map[string]struct{}
}

// Option is a functional option for configuring the Guard
type Option func(*Guard)

// WithLoginRoute overrides the redirect target.
func WithLoginRoute(route string) Option {
	return func(g *Guard) {
		if route != "" {
			g.loginRoute = route
		}
	}
}

// WithPublicRoutes replaces the set of routes that render regardless of
// session state.
func WithPublicRoutes(routes ...string) Option {
	return func(g *Guard) {
		g.public = make(map[string]struct{}, len(routes))
		for _, r := range routes {
			g.public[r] = struct{}{}
		}
	}
}

// New creates a Guard. Defaults match the credential transport's route
// table: "/login" as the entry point, with the registration and password
// recovery routes public.
func New(opts ...Option) *Guard {
	g := &Guard{
		loginRoute: "/login",
		public: map[string]struct{}{
			"/login":           {},
			"/register":        {},
			"/forgot-password": {},
			"/reset-password":  {},
		},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Decide returns the verdict for rendering the requested route under the
// given session snapshot. Pure: no state is read or written besides the
// arguments.
func (g *Guard) Decide(snap session.Snapshot, requested string) Decision {
	if _, ok := g.public[requested]; ok {
		return Decision{Action: ActionAllow}
	}

	switch snap.State {
	case session.StateInitializing:
		return Decision{Action: ActionHold}
	case session.StateAuthenticated:
		return Decision{Action: ActionAllow}
	default:
		return Decision{
			Action:   ActionRedirect,
			Target:   g.loginRoute,
			ReturnTo: requested,
		}
	}
}
