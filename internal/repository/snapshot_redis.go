package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/port"
)

const redisNamespace = "storefront:cart"

// snapshotRedis stores the whole snapshot as one JSON value under a
// namespaced key, the lighter alternative to the Postgres store.
type snapshotRedis struct {
	client *redis.Client
}

func NewSnapshotRedis(client *redis.Client) (port.SnapshotStore, error) {
	if client == nil {
		return nil, fmt.Errorf("client is nil")
	}

	return &snapshotRedis{client: client}, nil
}

func (r *snapshotRedis) key(storeName string) string {
	return fmt.Sprintf("%s:%s", redisNamespace, storeName)
}

func (r *snapshotRedis) Load(ctx context.Context, storeName string) (domain.CartSnapshot, bool, error) {
	if storeName == "" {
		return domain.CartSnapshot{}, false, fmt.Errorf("storeName is empty")
	}

	payload, err := r.client.Get(ctx, r.key(storeName)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.CartSnapshot{}, false, nil
		}
		return domain.CartSnapshot{}, false, fmt.Errorf("client.Get: %w", err)
	}

	var snapshot domain.CartSnapshot
	if err := json.Unmarshal(payload, &snapshot); err != nil {
		return domain.CartSnapshot{}, false, fmt.Errorf("json.Unmarshal: %w", err)
	}

	return snapshot, true, nil
}

func (r *snapshotRedis) Save(ctx context.Context, storeName string, snapshot domain.CartSnapshot) error {
	if storeName == "" {
		return fmt.Errorf("storeName is empty")
	}

	payload, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("json.Marshal: %w", err)
	}

	if err := r.client.Set(ctx, r.key(storeName), payload, 0).Err(); err != nil {
		return fmt.Errorf("client.Set: %w", err)
	}

	return nil
}
