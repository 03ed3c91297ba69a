//go:build integration

package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/purchase-approval/pkg/testutil"
)

func TestRedisStore_Integration(t *testing.T) {
	ctx := context.Background()

	store := NewRedisStore(RedisOptions{Addr: testutil.StartRedis(ctx, t)})
	t.Cleanup(func() { _ = store.Close() })
	require.NoError(t, store.Ping(ctx))

	_, ok, err := store.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Set(ctx, "purchase:capacity:1", "50", time.Minute))
	v, ok, err := store.Get(ctx, "purchase:capacity:1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "50", v)

	require.NoError(t, store.Delete(ctx, "purchase:capacity:1"))
	_, ok, err = store.Get(ctx, "purchase:capacity:1")
	require.NoError(t, err)
	assert.False(t, ok)
	require.NoError(t, store.Delete(ctx, "purchase:capacity:1"))
}
