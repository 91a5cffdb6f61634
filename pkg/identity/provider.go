package identity

import "context"

// EventKind distinguishes provider events.
type EventKind int

const (
	// EventSignIn carries a fresh identity assertion.
	EventSignIn EventKind = iota
	// EventSignOut reports the user signed out at the provider. Advisory.
	EventSignOut
)

// Event is a single occurrence on the provider's sign-in/sign-out stream.
type Event struct {
	Kind EventKind

	// Assertion is the provider-issued proof of identity, consumed exactly
	// once by the backend exchange. Never persisted. Empty on sign-out.
	Assertion string

	// Profile hints from the provider, for display before the backend
	// profile arrives. The backend's profile is authoritative.
	Email       string
	DisplayName string
	PictureRef  string
}

// Provider is a federated identity source.
type Provider interface {
	// Events returns the provider's event stream. The channel is closed
	// when the provider shuts down.
	Events() <-chan Event

	// CurrentAssertion exchanges the provider's live session for a fresh
	// identity assertion.
	CurrentAssertion(ctx context.Context) (string, error)

	// SignOut ends the provider-side session.
	SignOut(ctx context.Context) error
}
