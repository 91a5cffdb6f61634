package sessionstore_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sravansai-26/resolveit-sub000/pkg/sessionstore"
)

func setupRedisTier(t *testing.T) *sessionstore.RedisTier {
	t.Helper()
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return sessionstore.NewRedisTier(client, "resolveit:session:test")
}

func TestRedisTier(t *testing.T) {
	ctx := context.Background()

	t.Run("save replaces the namespace", func(t *testing.T) {
		tier := setupRedisTier(t)

		require.NoError(t, tier.Save(ctx, map[string]string{"credential": "a", "principal": "{}"}))
		require.NoError(t, tier.Save(ctx, map[string]string{"credential": "b"}))

		values, err := tier.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, map[string]string{"credential": "b"}, values)
	})

	t.Run("missing key loads as empty", func(t *testing.T) {
		tier := setupRedisTier(t)

		values, err := tier.Load(ctx)
		require.NoError(t, err)
		assert.Empty(t, values)
	})

	t.Run("wipe deletes the namespace", func(t *testing.T) {
		tier := setupRedisTier(t)
		require.NoError(t, tier.Save(ctx, map[string]string{"credential": "a"}))

		require.NoError(t, tier.Wipe(ctx))

		values, err := tier.Load(ctx)
		require.NoError(t, err)
		assert.Empty(t, values)
	})

	t.Run("serves as the durable tier of a store", func(t *testing.T) {
		store := sessionstore.New(setupRedisTier(t), sessionstore.NewMemoryTier())
		want := testRecord()

		require.NoError(t, store.Write(ctx, want, sessionstore.Durable))

		got, kind, ok := store.Read(ctx)
		require.True(t, ok)
		assert.Equal(t, sessionstore.Durable, kind)
		assert.Equal(t, want, got)

		require.NoError(t, store.Clear(ctx))
		_, _, ok = store.Read(ctx)
		assert.False(t, ok)
	})
}
