package sessionstore

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/sravansai-26/resolveit-sub000/pkg/apiclient"
)

// Storage keys within a tier namespace.
const (
	keyCredential = "credential"
	keyPrincipal  = "principal"
)

// Kind identifies a persistence tier.
type Kind int

const (
	// Durable survives process restarts.
	Durable Kind = iota
	// Ephemeral lives only as long as the current process.
	Ephemeral
)

func (k Kind) String() string {
	switch k {
	case Durable:
		return "durable"
	case Ephemeral:
		return "ephemeral"
	default:
		return "unknown"
	}
}

// Record is the persisted shape of a session. A record is only valid when
// both fields are populated; the session is never stored half-built.
type Record struct {
	Credential string
	Principal  apiclient.User
}

// Tier is a single key-value namespace. Save replaces the whole namespace
// atomically; Load returns an empty map when the namespace is absent.
type Tier interface {
	Save(ctx context.Context, values map[string]string) error
	Load(ctx context.Context) (map[string]string, error)
	Wipe(ctx context.Context) error
}

// Store coordinates the two tiers and enforces their mutual exclusion.
type Store struct {
	durable   Tier
	ephemeral Tier
	log       *slog.Logger
}

// Option is a functional option for configuring the Store
type Option func(*Store)

// WithLogger sets the logger used for discarded-record diagnostics.
func WithLogger(log *slog.Logger) Option {
	return func(s *Store) {
		if log != nil {
			s.log = log
		}
	}
}

// New creates a Store over the given durable and ephemeral tiers.
func New(durable, ephemeral Tier, opts ...Option) *Store {
	s := &Store{
		durable:   durable,
		ephemeral: ephemeral,
		log:       slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Write persists the record under the given tier and clears the other tier,
// keeping a single source of truth for the stored session.
func (s *Store) Write(ctx context.Context, rec Record, kind Kind) error {
	if rec.Credential == "" || rec.Principal.ID == uuid.Nil {
		return ErrInvalidRecord
	}

	principal, err := json.Marshal(rec.Principal)
	if err != nil {
		return errors.Join(ErrInvalidRecord, err)
	}
	values := map[string]string{
		keyCredential: rec.Credential,
		keyPrincipal:  string(principal),
	}

	var target, other Tier
	switch kind {
	case Durable:
		target, other = s.durable, s.ephemeral
	case Ephemeral:
		target, other = s.ephemeral, s.durable
	default:
		return ErrUnknownTier
	}

	if err := target.Save(ctx, values); err != nil {
		return errors.Join(ErrTierUnavailable, err)
	}
	if err := other.Wipe(ctx); err != nil {
		return errors.Join(ErrTierUnavailable, err)
	}
	return nil
}

// Read returns the stored session, preferring the durable tier if both are
// somehow populated and repairing the exclusion invariant on the spot.
// Corrupt records are discarded silently and read as absence.
func (s *Store) Read(ctx context.Context) (Record, Kind, bool) {
	if rec, ok := s.readTier(ctx, s.durable, Durable); ok {
		// A populated ephemeral tier alongside a durable one means
		// something wrote around the store; the durable copy wins.
		if other, ok := s.readTier(ctx, s.ephemeral, Ephemeral); ok && other.Credential != "" {
			_ = s.ephemeral.Wipe(ctx)
		}
		return rec, Durable, true
	}

	if rec, ok := s.readTier(ctx, s.ephemeral, Ephemeral); ok {
		return rec, Ephemeral, true
	}

	return Record{}, Durable, false
}

// Clear wipes both tiers unconditionally.
func (s *Store) Clear(ctx context.Context) error {
	errDurable := s.durable.Wipe(ctx)
	errEphemeral := s.ephemeral.Wipe(ctx)
	if errDurable != nil || errEphemeral != nil {
		return errors.Join(ErrTierUnavailable, errDurable, errEphemeral)
	}
	return nil
}

func (s *Store) readTier(ctx context.Context, tier Tier, kind Kind) (Record, bool) {
	values, err := tier.Load(ctx)
	if err != nil {
		s.log.Warn("session tier unreadable", slog.String("tier", kind.String()), slog.Any("error", err))
		return Record{}, false
	}

	cred := values[keyCredential]
	rawPrincipal := values[keyPrincipal]
	if cred == "" && rawPrincipal == "" {
		return Record{}, false
	}

	var principal apiclient.User
	if cred == "" || rawPrincipal == "" || json.Unmarshal([]byte(rawPrincipal), &principal) != nil || principal.ID == uuid.Nil {
		// Half-written or corrupt record: discard, treat as absent.
		s.log.Debug("discarding malformed session record", slog.String("tier", kind.String()))
		_ = tier.Wipe(ctx)
		return Record{}, false
	}

	return Record{Credential: cred, Principal: principal}, true
}
