package redisad

import (
	"context"

	"github.com/redis/go-redis/v9"

	"guest_reviews/internal/adapters/observability"
)

const DefaultApprovalKey = "approved:ids"

// Approvals keeps approved review ids in a single Redis set.
type Approvals struct {
	c   redis.UniversalClient
	key string
}

func New(addr, pass string, db int, key string) *Approvals {
	return NewWithClient(redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db}), key)
}

func NewWithClient(c redis.UniversalClient, key string) *Approvals {
	if key == "" {
		key = DefaultApprovalKey
	}
	return &Approvals{c: c, key: key}
}

func (a *Approvals) Members(ctx context.Context) ([]string, error) {
	ids, err := a.c.SMembers(ctx, a.key).Result()
	observability.ObserveStore("redis", "members", err)
	return ids, err
}

func (a *Approvals) Add(ctx context.Context, id string) error {
	err := a.c.SAdd(ctx, a.key, id).Err()
	observability.ObserveStore("redis", "add", err)
	return err
}

func (a *Approvals) Remove(ctx context.Context, id string) error {
	err := a.c.SRem(ctx, a.key, id).Err()
	observability.ObserveStore("redis", "remove", err)
	return err
}

func (a *Approvals) Ping(ctx context.Context) error { return a.c.Ping(ctx).Err() }

func (a *Approvals) Close() error { return a.c.Close() }
