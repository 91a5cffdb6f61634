// Package identity bridges a federated identity provider into the
// first-party session. A Provider yields a stream of sign-in and sign-out
// events; the Bridge consumes them for the lifetime of the application,
// exchanging each sign-in's identity assertion for a backend credential
// and feeding the result through the session coordinator's single login
// entry point. Federated sessions are always durable, since the provider
// itself already persists the user's choice to stay signed in.
//
// Failure policy: a federated sign-in whose backend verification fails
// degrades to "provider signed in, no backend session"; it never evicts a
// coexisting first-party session, because backend unavailability must not
// force a logout. A provider sign-out event is likewise advisory only.
//
// GoogleProvider adapts Google's OAuth2 flow to the Provider interface.
package identity
