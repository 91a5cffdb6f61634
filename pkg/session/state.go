package session

import "github.com/sravansai-26/resolveit-sub000/pkg/apiclient"

// State is the coordinator's lifecycle state.
type State string

const (
	// StateInitializing means startup restoration has not resolved yet.
	// Route guards render nothing in this state rather than redirecting.
	StateInitializing State = "initializing"
	// StateUnauthenticated means no session is active.
	StateUnauthenticated State = "unauthenticated"
	// StateAuthenticated means a credential and principal are present.
	StateAuthenticated State = "authenticated"
)

// Origin records how the current session was established.
type Origin string

const (
	OriginManual    Origin = "manual"
	OriginFederated Origin = "federated"
	OriginRestored  Origin = "restored"
)

// Snapshot is an immutable view of the session published to dependents.
// Principal is a copy; mutating it does not affect the coordinator.
type Snapshot struct {
	State     State
	Principal *apiclient.User
	Origin    Origin
	Epoch     uint64
}

// Authenticated reports whether the snapshot carries an active session.
func (s Snapshot) Authenticated() bool {
	return s.State == StateAuthenticated
}
