package identity

import (
	"context"
	"log/slog"

	"github.com/sravansai-26/resolveit-sub000/pkg/apiclient"
	"github.com/sravansai-26/resolveit-sub000/pkg/session"
	"github.com/sravansai-26/resolveit-sub000/pkg/sessionstore"
)

// Exchanger is the backend's federated-verification endpoint.
// *apiclient.Client satisfies it.
type Exchanger interface {
	Federated(ctx context.Context, assertion string) (string, apiclient.User, error)
}

// SessionWriter is the coordinator's login entry point.
// *session.Coordinator satisfies it.
type SessionWriter interface {
	Login(ctx context.Context, credential string, principal apiclient.User, tier sessionstore.Kind, origin session.Origin)
}

// Bridge subscribes to a federated provider's event stream and reconciles
// it with the first-party session.
type Bridge struct {
	provider Provider
	backend  Exchanger
	sessions SessionWriter
	log      *slog.Logger
}

// BridgeOption is a functional option for configuring the Bridge
type BridgeOption func(*Bridge)

// WithLogger sets the logger.
func WithLogger(log *slog.Logger) BridgeOption {
	return func(b *Bridge) {
		if log != nil {
			b.log = log
		}
	}
}

// NewBridge creates a bridge between provider, backend and coordinator.
func NewBridge(provider Provider, backend Exchanger, sessions SessionWriter, opts ...BridgeOption) *Bridge {
	b := &Bridge{
		provider: provider,
		backend:  backend,
		sessions: sessions,
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Run consumes provider events until ctx is cancelled or the provider
// closes its stream. It never panics and only returns ctx's error: every
// per-event failure is logged and absorbed so a flaky provider or backend
// cannot take the session machinery down.
func (b *Bridge) Run(ctx context.Context) error {
	events := b.provider.Events()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			b.handle(ctx, ev)
		}
	}
}

func (b *Bridge) handle(ctx context.Context, ev Event) {
	switch ev.Kind {
	case EventSignIn:
		b.handleSignIn(ctx, ev)
	case EventSignOut:
		// Advisory only: the provider dropping its session must not destroy
		// a first-party session that was established independently.
		b.log.Info("federated provider signed out, keeping first-party session")
	}
}

func (b *Bridge) handleSignIn(ctx context.Context, ev Event) {
	credential, user, err := b.backend.Federated(ctx, ev.Assertion)
	if err != nil {
		// Degrade without eviction: the user stays signed in at the
		// provider, and any existing first-party session stands.
		b.log.Warn("federated verification failed",
			slog.String("email", ev.Email),
			slog.Any("error", err))
		return
	}

	// Federated sessions are always durable; the provider already persists
	// the user's choice to stay signed in.
	b.sessions.Login(ctx, credential, user, sessionstore.Durable, session.OriginFederated)
}
