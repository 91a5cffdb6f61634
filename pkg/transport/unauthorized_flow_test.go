package transport_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sravansai-26/resolveit-sub000/pkg/apiclient"
	"github.com/sravansai-26/resolveit-sub000/pkg/session"
	"github.com/sravansai-26/resolveit-sub000/pkg/sessionstore"
	"github.com/sravansai-26/resolveit-sub000/pkg/transport"
)

// Exercises the full eviction path: a live session whose credential the
// backend starts rejecting must end with state, storage and the credential
// slot cleared, and the user parked on the login route.
func TestUnauthorizedFlow(t *testing.T) {
	userID := uuid.New()
	var revoked atomic.Bool

	r := chi.NewRouter()
	authed := func(w http.ResponseWriter, req *http.Request) bool {
		if revoked.Load() || req.Header.Get("Authorization") != "Bearer tok-live" {
			w.WriteHeader(http.StatusUnauthorized)
			return false
		}
		return true
	}
	r.Post("/auth/login", func(w http.ResponseWriter, req *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"token":   "tok-live",
			"user":    map[string]any{"id": userID, "email": "a@b.com"},
		})
	})
	r.Get("/auth/me", func(w http.ResponseWriter, req *http.Request) {
		if !authed(w, req) {
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"user":    map[string]any{"id": userID, "email": "a@b.com"},
		})
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	ctx := context.Background()
	store := sessionstore.New(sessionstore.NewMemoryTier(), sessionstore.NewMemoryTier())
	nav := transport.NewMemoryNavigator("/issues/42")

	var coord *session.Coordinator
	tr := transport.New(
		transport.WithNavigator(nav),
		transport.WithInvalidator(func(ctx context.Context) { coord.Invalidate(ctx) }),
	)
	client, err := apiclient.New(srv.URL, apiclient.WithHTTPClient(&http.Client{Transport: tr}))
	require.NoError(t, err)
	coord, err = session.New(store, client, tr)
	require.NoError(t, err)
	coord.Restore(ctx)

	require.NoError(t, coord.LoginWithPassword(ctx, "a@b.com", "secret", true))
	require.Equal(t, session.StateAuthenticated, coord.Snapshot().State)

	// The credential slot must feed subsequent calls automatically.
	me, err := client.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, userID, me.ID)

	revoked.Store(true)
	_, err = client.Me(ctx)
	require.ErrorIs(t, err, apiclient.ErrUnauthorized)

	snap := coord.Snapshot()
	assert.Equal(t, session.StateUnauthenticated, snap.State)
	assert.Nil(t, snap.Principal)
	assert.Empty(t, tr.Credential())

	_, _, ok := store.Read(ctx)
	assert.False(t, ok, "storage cleared before the redirect")

	visits := nav.Visits()
	require.Len(t, visits, 1)
	assert.Equal(t, transport.Visit{Route: "/login", ReturnTo: "/issues/42"}, visits[0])
}

// A restored session that the backend rejects during background verification
// must clear without bouncing a user who is already on a public route.
func TestUnauthorizedFlow_RestoredSessionRejected(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/auth/me", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	ctx := context.Background()
	store := sessionstore.New(sessionstore.NewMemoryTier(), sessionstore.NewMemoryTier())
	rec := sessionstore.Record{
		Credential: "tok-stale",
		Principal:  apiclient.User{ID: uuid.New(), Email: "a@b.com"},
	}
	require.NoError(t, store.Write(ctx, rec, sessionstore.Durable))

	nav := transport.NewMemoryNavigator("/login")

	var coord *session.Coordinator
	tr := transport.New(
		transport.WithNavigator(nav),
		transport.WithInvalidator(func(ctx context.Context) { coord.Invalidate(ctx) }),
	)
	client, err := apiclient.New(srv.URL, apiclient.WithHTTPClient(&http.Client{Transport: tr}))
	require.NoError(t, err)
	coord, err = session.New(store, client, tr)
	require.NoError(t, err)

	coord.Restore(ctx)
	require.Equal(t, session.StateAuthenticated, coord.Snapshot().State, "optimistic entry")

	require.Eventually(t, func() bool {
		return coord.Snapshot().State == session.StateUnauthenticated
	}, time.Second, 5*time.Millisecond, "background verification rejects the stored credential")

	_, _, ok := store.Read(ctx)
	assert.False(t, ok)
	assert.Empty(t, tr.Credential())
	assert.Empty(t, nav.Visits(), "no redirect while already on a public route")
}
