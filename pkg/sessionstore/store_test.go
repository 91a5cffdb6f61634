package sessionstore_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sravansai-26/resolveit-sub000/pkg/apiclient"
	"github.com/sravansai-26/resolveit-sub000/pkg/sessionstore"
)

func testRecord() sessionstore.Record {
	return sessionstore.Record{
		Credential: "token-abc",
		Principal: apiclient.User{
			ID:        uuid.New(),
			FirstName: "Asha",
			LastName:  "Rao",
			Email:     "a@b.com",
		},
	}
}

func setupStore() (*sessionstore.Store, *sessionstore.MemoryTier, *sessionstore.MemoryTier) {
	durable := sessionstore.NewMemoryTier()
	ephemeral := sessionstore.NewMemoryTier()
	return sessionstore.New(durable, ephemeral), durable, ephemeral
}

func tierEmpty(t *testing.T, tier sessionstore.Tier) bool {
	t.Helper()
	values, err := tier.Load(context.Background())
	require.NoError(t, err)
	return len(values) == 0
}

func TestStore_Write(t *testing.T) {
	ctx := context.Background()

	t.Run("durable write clears ephemeral", func(t *testing.T) {
		store, durable, ephemeral := setupStore()

		require.NoError(t, store.Write(ctx, testRecord(), sessionstore.Ephemeral))
		require.False(t, tierEmpty(t, ephemeral))

		require.NoError(t, store.Write(ctx, testRecord(), sessionstore.Durable))
		assert.False(t, tierEmpty(t, durable))
		assert.True(t, tierEmpty(t, ephemeral))
	})

	t.Run("ephemeral write clears durable", func(t *testing.T) {
		store, durable, ephemeral := setupStore()

		require.NoError(t, store.Write(ctx, testRecord(), sessionstore.Durable))
		require.NoError(t, store.Write(ctx, testRecord(), sessionstore.Ephemeral))

		assert.True(t, tierEmpty(t, durable))
		assert.False(t, tierEmpty(t, ephemeral))
	})

	t.Run("rejects partial records", func(t *testing.T) {
		store, _, _ := setupStore()

		err := store.Write(ctx, sessionstore.Record{Credential: "token-only"}, sessionstore.Durable)
		assert.ErrorIs(t, err, sessionstore.ErrInvalidRecord)

		rec := testRecord()
		rec.Credential = ""
		err = store.Write(ctx, rec, sessionstore.Durable)
		assert.ErrorIs(t, err, sessionstore.ErrInvalidRecord)
	})
}

func TestStore_Read(t *testing.T) {
	ctx := context.Background()

	t.Run("round trips through each tier", func(t *testing.T) {
		for _, kind := range []sessionstore.Kind{sessionstore.Durable, sessionstore.Ephemeral} {
			store, _, _ := setupStore()
			want := testRecord()
			require.NoError(t, store.Write(ctx, want, kind))

			got, gotKind, ok := store.Read(ctx)
			require.True(t, ok)
			assert.Equal(t, kind, gotKind)
			assert.Equal(t, want.Credential, got.Credential)
			assert.Equal(t, want.Principal, got.Principal)
		}
	})

	t.Run("empty store reads as absent", func(t *testing.T) {
		store, _, _ := setupStore()
		_, _, ok := store.Read(ctx)
		assert.False(t, ok)
	})

	t.Run("prefers durable and repairs double population", func(t *testing.T) {
		store, _, ephemeral := setupStore()
		want := testRecord()
		require.NoError(t, store.Write(ctx, want, sessionstore.Durable))

		// Write around the store to violate the exclusion invariant.
		other := testRecord()
		other.Credential = "token-other"
		rawPrincipal := `{"id":"` + other.Principal.ID.String() + `","firstName":"X","lastName":"Y","email":"x@y.com"}`
		require.NoError(t, ephemeral.Save(ctx, map[string]string{
			"credential": other.Credential,
			"principal":  rawPrincipal,
		}))

		got, kind, ok := store.Read(ctx)
		require.True(t, ok)
		assert.Equal(t, sessionstore.Durable, kind)
		assert.Equal(t, want.Credential, got.Credential)
		assert.True(t, tierEmpty(t, ephemeral), "read should repair the invariant")
	})

	t.Run("malformed principal reads as absent", func(t *testing.T) {
		store, durable, _ := setupStore()
		require.NoError(t, durable.Save(ctx, map[string]string{
			"credential": "token-abc",
			"principal":  "{not json",
		}))

		_, _, ok := store.Read(ctx)
		assert.False(t, ok)
		assert.True(t, tierEmpty(t, durable), "corrupt record should be discarded")
	})

	t.Run("credential without principal reads as absent", func(t *testing.T) {
		store, durable, _ := setupStore()
		require.NoError(t, durable.Save(ctx, map[string]string{
			"credential": "token-abc",
		}))

		_, _, ok := store.Read(ctx)
		assert.False(t, ok)
	})
}

func TestStore_Clear(t *testing.T) {
	ctx := context.Background()

	t.Run("empties both tiers regardless of holder", func(t *testing.T) {
		for _, kind := range []sessionstore.Kind{sessionstore.Durable, sessionstore.Ephemeral} {
			store, durable, ephemeral := setupStore()
			require.NoError(t, store.Write(ctx, testRecord(), kind))

			require.NoError(t, store.Clear(ctx))

			_, _, ok := store.Read(ctx)
			assert.False(t, ok)
			assert.True(t, tierEmpty(t, durable))
			assert.True(t, tierEmpty(t, ephemeral))
		}
	})

	t.Run("clearing an empty store is fine", func(t *testing.T) {
		store, _, _ := setupStore()
		assert.NoError(t, store.Clear(ctx))
	})
}
