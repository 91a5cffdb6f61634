// Package session owns the authoritative in-memory session state for the
// ResolveIt client and reconciles its three sources: manual
// credential login, the federated identity bridge and restoration from
// persistent storage.
//
// # State machine
//
// A Coordinator moves between three states:
//
//	Initializing ──restore hit──► Authenticated ◄──login── (any state)
//	     │                            │
//	     └──restore miss──► Unauthenticated ◄──logout/rejection──┘
//
// On start the coordinator reads the session store; a stored credential
// produces an optimistic Authenticated entry with the cached principal
// while a background call verifies it against the backend. Verification
// rejection clears the session; transient verification failures keep the
// cached session, because only an explicit authorization rejection may
// evict.
//
// Login is the sole "session established" path, shared by manual
// credential exchange and the federated bridge, so precedence between the
// two identity sources is simply last-write-wins: each call replaces the
// previous session atomically, never merging two.
//
// All mutation is funneled through the coordinator's public operations; no
// other component writes to the session store or to the credential
// transport's active slot. Every mutation bumps an epoch that dependents
// use as a stale-response guard: results of fetches started under an older
// epoch are discarded instead of cancelled.
//
// Dependents observe the session through synchronous observers
// (Subscribe), which complete before the mutating operation returns, or
// through buffered watch channels (Watch) that drop updates for slow
// consumers.
package session
