package transport

import "sync"

// Navigator abstracts the host application's routing. Replace swaps the
// current history entry rather than pushing one, so the back button cannot
// return to a view whose session is gone.
type Navigator interface {
	// Current returns the route currently displayed.
	Current() string

	// Replace navigates to route, replacing the current history entry.
	// returnTo carries the originally requested location for post-login
	// return; empty means none.
	Replace(route, returnTo string)
}

// Visit records a single navigation performed through MemoryNavigator.
type Visit struct {
	Route    string
	ReturnTo string
}

// MemoryNavigator is a Navigator for hosts without a real router and for
// tests. It keeps the current route and a log of replacements.
type MemoryNavigator struct {
	mu      sync.Mutex
	current string
	visits  []Visit
}

// NewMemoryNavigator creates a navigator positioned at the given route.
func NewMemoryNavigator(current string) *MemoryNavigator {
	return &MemoryNavigator{current: current}
}

func (n *MemoryNavigator) Current() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current
}

func (n *MemoryNavigator) Replace(route, returnTo string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.current = route
	n.visits = append(n.visits, Visit{Route: route, ReturnTo: returnTo})
}

// SetCurrent moves the navigator without recording a visit, mimicking the
// user navigating on their own.
func (n *MemoryNavigator) SetCurrent(route string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.current = route
}

// Visits returns a copy of the recorded replacements.
func (n *MemoryNavigator) Visits() []Visit {
	n.mu.Lock()
	defer n.mu.Unlock()
	cp := make([]Visit, len(n.visits))
	copy(cp, n.visits)
	return cp
}
