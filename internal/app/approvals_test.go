package app_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"guest_reviews/internal/adapters/memory"
	redisad "guest_reviews/internal/adapters/redis"
	"guest_reviews/internal/app"
	"guest_reviews/internal/domain"
)

func newRedisBackend(t *testing.T) (*redisad.Approvals, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = c.Close() })
	return redisad.NewWithClient(c, ""), mr
}

func TestApprovalService_RoundTripRemote(t *testing.T) {
	backend, _ := newRedisBackend(t)
	local := memory.NewApprovalSet()
	svc := app.NewApprovalService(backend, local)
	ctx := context.Background()

	assert.Equal(t, domain.TierRemote, svc.SetApproved(ctx, "42", true))
	ids, tier := svc.ApprovedIDs(ctx)
	assert.Equal(t, domain.TierRemote, tier)
	assert.True(t, ids.Has("42"))
	assert.Zero(t, local.Len(), "successful remote writes do not touch the fallback")

	svc.SetApproved(ctx, "42", true) // idempotent
	ids, _ = svc.ApprovedIDs(ctx)
	assert.Len(t, ids, 1)

	assert.Equal(t, domain.TierRemote, svc.SetApproved(ctx, "42", false))
	ids, _ = svc.ApprovedIDs(ctx)
	assert.False(t, ids.Has("42"))
}

func TestApprovalService_FallsBackWhenRemoteDown(t *testing.T) {
	backend, mr := newRedisBackend(t)
	local := memory.NewApprovalSet()
	svc := app.NewApprovalService(backend, local)
	ctx := context.Background()

	require.Equal(t, domain.TierRemote, svc.SetApproved(ctx, "durable", true))
	mr.Close()

	assert.Equal(t, domain.TierMemory, svc.SetApproved(ctx, "volatile", true))
	ids, tier := svc.ApprovedIDs(ctx)
	assert.Equal(t, domain.TierMemory, tier)
	assert.True(t, ids.Has("volatile"))
	assert.False(t, ids.Has("durable"), "remote-only ids are invisible while the remote is down")

	assert.Equal(t, domain.TierMemory, svc.SetApproved(ctx, "volatile", false))
	ids, _ = svc.ApprovedIDs(ctx)
	assert.False(t, ids.Has("volatile"))
}

func TestApprovalService_MemoryOnly(t *testing.T) {
	svc := app.NewApprovalService(nil, nil)
	ctx := context.Background()

	ids, tier := svc.ApprovedIDs(ctx)
	assert.Equal(t, domain.TierMemory, tier)
	assert.Empty(t, ids, "cold start is empty")

	assert.Equal(t, domain.TierMemory, svc.SetApproved(ctx, "1", true))
	ids, _ = svc.ApprovedIDs(ctx)
	assert.True(t, ids.Has("1"))
}
