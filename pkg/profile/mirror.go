package profile

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/sravansai-26/resolveit-sub000/pkg/apiclient"
	"github.com/sravansai-26/resolveit-sub000/pkg/session"
)

// ContentSource lists the authenticated user's owned content.
// *apiclient.Client satisfies it.
type ContentSource interface {
	MyIssues(ctx context.Context) ([]apiclient.Issue, error)
	MyReposts(ctx context.Context) ([]apiclient.Repost, error)
}

// Mirror caches the user's own issues and reposts, kept consistent with
// the session coordinator's state.
type Mirror struct {
	src          ContentSource
	log          *slog.Logger
	fetchTimeout time.Duration

	mu      sync.Mutex
	epoch   uint64
	issues  []apiclient.Issue
	reposts []apiclient.Repost
}

// Option is a functional option for configuring the Mirror
type Option func(*Mirror)

// WithLogger sets the logger.
func WithLogger(log *slog.Logger) Option {
	return func(m *Mirror) {
		if log != nil {
			m.log = log
		}
	}
}

// WithFetchTimeout bounds each content fetch.
func WithFetchTimeout(d time.Duration) Option {
	return func(m *Mirror) {
		if d > 0 {
			m.fetchTimeout = d
		}
	}
}

// New creates a Mirror over the given content source. Call Bind to attach
// it to a coordinator.
func New(src ContentSource, opts ...Option) *Mirror {
	m := &Mirror{
		src:          src,
		log:          slog.Default(),
		fetchTimeout: 30 * time.Second,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Bind subscribes the mirror to the coordinator's transitions.
func (m *Mirror) Bind(coord *session.Coordinator) {
	coord.Subscribe(m.Apply)
}

// Apply reacts to a session snapshot. Clearing on Unauthenticated happens
// synchronously before this returns; fetching on Authenticated happens in
// the background.
func (m *Mirror) Apply(snap session.Snapshot) {
	m.mu.Lock()
	m.epoch = snap.Epoch

	switch snap.State {
	case session.StateAuthenticated:
		m.mu.Unlock()
		go m.fetchIssues(snap.Epoch)
		go m.fetchReposts(snap.Epoch)
	case session.StateUnauthenticated:
		m.issues = nil
		m.reposts = nil
		m.mu.Unlock()
	default:
		m.mu.Unlock()
	}
}

// Issues returns the cached owned issues; empty when unauthenticated or
// when the last fetch failed.
func (m *Mirror) Issues() []apiclient.Issue {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make([]apiclient.Issue, len(m.issues))
	copy(cp, m.issues)
	return cp
}

// Reposts returns the cached reposts.
func (m *Mirror) Reposts() []apiclient.Repost {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make([]apiclient.Repost, len(m.reposts))
	copy(cp, m.reposts)
	return cp
}

func (m *Mirror) fetchIssues(epoch uint64) {
	ctx, cancel := context.WithTimeout(context.Background(), m.fetchTimeout)
	defer cancel()

	issues, err := m.src.MyIssues(ctx)
	if err != nil {
		// Degrade to empty; an unauthorized rejection here also flows
		// through the transport's invalidation path on its own.
		m.log.Warn("failed to fetch owned issues", slog.Any("error", err))
		issues = nil
	}

	m.mu.Lock()
	if m.epoch == epoch {
		m.issues = issues
	}
	m.mu.Unlock()
}

func (m *Mirror) fetchReposts(epoch uint64) {
	ctx, cancel := context.WithTimeout(context.Background(), m.fetchTimeout)
	defer cancel()

	reposts, err := m.src.MyReposts(ctx)
	if err != nil {
		m.log.Warn("failed to fetch reposts", slog.Any("error", err))
		reposts = nil
	}

	m.mu.Lock()
	if m.epoch == epoch {
		m.reposts = reposts
	}
	m.mu.Unlock()
}
