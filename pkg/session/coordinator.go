package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/sravansai-26/resolveit-sub000/pkg/apiclient"
	"github.com/sravansai-26/resolveit-sub000/pkg/sessionstore"
)

// Backend is the subset of the API client the coordinator depends on.
// *apiclient.Client satisfies it.
type Backend interface {
	Login(ctx context.Context, email, password string) (string, apiclient.User, error)
	Me(ctx context.Context) (apiclient.User, error)
	Logout(ctx context.Context) error
}

// CredentialSink is the credential transport's active-credential slot.
// *transport.Transport satisfies it.
type CredentialSink interface {
	SetCredential(credential string)
	ClearCredential()
}

// ProviderNotifier lets logout tell the federated provider to drop its
// session too. Optional; failures are swallowed.
type ProviderNotifier interface {
	SignOut(ctx context.Context) error
}

// Coordinator is the single writer of session state. See the package
// documentation for the state machine it implements.
type Coordinator struct {
	store    *sessionstore.Store
	backend  Backend
	sink     CredentialSink
	provider ProviderNotifier
	log      *slog.Logger

	mu          sync.Mutex
	state       State
	principal   apiclient.User
	credential  string
	origin      Origin
	persistence sessionstore.Kind
	epoch       uint64

	observers []func(Snapshot)
	watchers  map[int]chan Snapshot
	nextWatch int
}

// Option is a functional option for configuring the Coordinator
type Option func(*Coordinator)

// WithProvider sets the federated provider notified on logout.
func WithProvider(p ProviderNotifier) Option {
	return func(c *Coordinator) {
		c.provider = p
	}
}

// WithLogger sets the logger.
func WithLogger(log *slog.Logger) Option {
	return func(c *Coordinator) {
		if log != nil {
			c.log = log
		}
	}
}

// New creates a Coordinator in the Initializing state. Call Restore to
// resolve startup state before routing any views.
func New(store *sessionstore.Store, backend Backend, sink CredentialSink, opts ...Option) (*Coordinator, error) {
	if store == nil {
		return nil, ErrNoStore
	}
	if backend == nil {
		return nil, ErrNoBackend
	}

	c := &Coordinator{
		store:    store,
		backend:  backend,
		sink:     sink,
		log:      slog.Default(),
		state:    StateInitializing,
		watchers: make(map[int]chan Snapshot),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Snapshot returns the current session view.
func (c *Coordinator) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Restore resolves the Initializing state from the session store. A stored
// session enters Authenticated optimistically, avoiding a loading flash,
// while a background call to the backend verifies the credential. A no-op
// outside Initializing.
func (c *Coordinator) Restore(ctx context.Context) {
	c.mu.Lock()
	if c.state != StateInitializing {
		c.mu.Unlock()
		return
	}

	rec, tier, ok := c.store.Read(ctx)
	if !ok {
		c.state = StateUnauthenticated
		c.epoch++
		snap := c.snapshotLocked()
		c.mu.Unlock()
		c.publish(snap)
		return
	}

	c.state = StateAuthenticated
	c.credential = rec.Credential
	c.principal = rec.Principal
	c.origin = OriginRestored
	c.persistence = tier
	c.epoch++
	epoch := c.epoch
	if c.sink != nil {
		c.sink.SetCredential(rec.Credential)
	}
	snap := c.snapshotLocked()
	c.mu.Unlock()
	c.publish(snap)

	go c.verifyRestored(ctx, epoch, tier)
}

// verifyRestored confirms an optimistically restored credential against the
// backend. Rejection clears the session; transient failures keep the cached
// principal, since only an authorization rejection may evict.
func (c *Coordinator) verifyRestored(ctx context.Context, epoch uint64, tier sessionstore.Kind) {
	user, err := c.backend.Me(ctx)

	if err != nil {
		if errors.Is(err, apiclient.ErrUnauthorized) {
			c.log.Info("stored session rejected by backend, clearing")
			c.invalidateIfEpoch(ctx, epoch)
			return
		}
		c.log.Warn("session verification unavailable, keeping cached principal", slog.Any("error", err))
		return
	}

	c.mu.Lock()
	if c.epoch != epoch || c.state != StateAuthenticated {
		// Superseded by a login or logout while verification was in flight.
		c.mu.Unlock()
		return
	}
	c.principal = user
	c.epoch++
	rec := sessionstore.Record{Credential: c.credential, Principal: user}
	if err := c.store.Write(ctx, rec, tier); err != nil {
		c.log.Warn("failed to persist refreshed principal", slog.Any("error", err))
	}
	snap := c.snapshotLocked()
	c.mu.Unlock()
	c.publish(snap)
}

// Login establishes a session. It is the sole entry point for both manual
// credential exchange and the federated bridge: the new session fully
// replaces any prior one, so racing identity sources resolve to whichever
// call completed last.
func (c *Coordinator) Login(ctx context.Context, credential string, principal apiclient.User, tier sessionstore.Kind, origin Origin) {
	c.mu.Lock()
	c.state = StateAuthenticated
	c.credential = credential
	c.principal = principal
	c.origin = origin
	c.persistence = tier
	c.epoch++

	rec := sessionstore.Record{Credential: credential, Principal: principal}
	if err := c.store.Write(ctx, rec, tier); err != nil {
		// The in-memory session still stands; it just won't survive a restart.
		c.log.Warn("failed to persist session", slog.String("tier", tier.String()), slog.Any("error", err))
	}
	if c.sink != nil {
		c.sink.SetCredential(credential)
	}
	snap := c.snapshotLocked()
	c.mu.Unlock()
	c.publish(snap)

	c.log.Info("session established",
		slog.String("origin", string(origin)),
		slog.String("tier", tier.String()),
		slog.Any("user_id", principal.ID))
}

// LoginWithPassword runs the manual credential exchange and establishes the
// session. remember selects the durable tier. The returned error carries
// the backend's message for inline display; no session state changes on
// failure.
func (c *Coordinator) LoginWithPassword(ctx context.Context, email, password string, remember bool) error {
	credential, user, err := c.backend.Login(ctx, email, password)
	if err != nil {
		return err
	}

	tier := sessionstore.Ephemeral
	if remember {
		tier = sessionstore.Durable
	}
	c.Login(ctx, credential, user, tier, OriginManual)
	return nil
}

// Logout destroys the session. Backend and provider notifications are
// best-effort, since logout is a client-side guarantee first, and the call is
// idempotent: a second logout is a no-op with no further side effects.
func (c *Coordinator) Logout(ctx context.Context) {
	c.mu.Lock()
	if c.state != StateAuthenticated {
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()

	// Notify while the credential slot is still populated so the backend
	// call is authenticated. Failures are swallowed.
	if err := c.backend.Logout(ctx); err != nil {
		c.log.Debug("backend logout notification failed", slog.Any("error", err))
	}
	if c.provider != nil {
		if err := c.provider.SignOut(ctx); err != nil {
			c.log.Debug("provider sign-out notification failed", slog.Any("error", err))
		}
	}

	c.Invalidate(ctx)
}

// Invalidate destroys the session without notifying anyone: the path taken
// when the backend has already rejected the credential. State, storage and
// the credential slot are all cleared before it returns, and synchronous
// observers run before the caller regains control, so any follow-up
// navigation observes a consistent Unauthenticated state. Idempotent.
func (c *Coordinator) Invalidate(ctx context.Context) {
	c.mu.Lock()
	snap, cleared := c.invalidateLocked(ctx)
	c.mu.Unlock()
	if cleared {
		c.publish(snap)
	}
}

func (c *Coordinator) invalidateLocked(ctx context.Context) (Snapshot, bool) {
	if c.state == StateUnauthenticated {
		return Snapshot{}, false
	}

	c.state = StateUnauthenticated
	c.credential = ""
	c.principal = apiclient.User{}
	c.origin = ""
	c.epoch++
	if err := c.store.Clear(ctx); err != nil {
		c.log.Warn("failed to clear session storage", slog.Any("error", err))
	}
	if c.sink != nil {
		c.sink.ClearCredential()
	}
	return c.snapshotLocked(), true
}

// RefreshProfile re-fetches the principal from the backend and replaces it
// wholesale. Transient failures leave the cached principal in place and are
// surfaced to the caller; only an authorization rejection evicts.
func (c *Coordinator) RefreshProfile(ctx context.Context) error {
	c.mu.Lock()
	if c.state != StateAuthenticated {
		c.mu.Unlock()
		return ErrNotAuthenticated
	}
	epoch := c.epoch
	tier := c.persistence
	c.mu.Unlock()

	user, err := c.backend.Me(ctx)
	if err != nil {
		if errors.Is(err, apiclient.ErrUnauthorized) {
			c.invalidateIfEpoch(ctx, epoch)
		}
		return err
	}

	c.mu.Lock()
	if c.epoch != epoch || c.state != StateAuthenticated {
		// A login or logout superseded this fetch; drop the result.
		c.mu.Unlock()
		return nil
	}
	c.principal = user
	c.epoch++
	rec := sessionstore.Record{Credential: c.credential, Principal: user}
	if err := c.store.Write(ctx, rec, tier); err != nil {
		c.log.Warn("failed to persist refreshed principal", slog.Any("error", err))
	}
	snap := c.snapshotLocked()
	c.mu.Unlock()
	c.publish(snap)
	return nil
}

// invalidateIfEpoch clears the session only if no other mutation happened
// since the observing call started.
func (c *Coordinator) invalidateIfEpoch(ctx context.Context, epoch uint64) {
	c.mu.Lock()
	if c.epoch != epoch {
		c.mu.Unlock()
		return
	}
	snap, cleared := c.invalidateLocked(ctx)
	c.mu.Unlock()
	if cleared {
		c.publish(snap)
	}
}

func (c *Coordinator) snapshotLocked() Snapshot {
	snap := Snapshot{
		State:  c.state,
		Origin: c.origin,
		Epoch:  c.epoch,
	}
	if c.state == StateAuthenticated {
		principal := c.principal
		snap.Principal = &principal
	}
	return snap
}
