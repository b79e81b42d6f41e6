package user

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// cachingRepository caches GetByID/ExistsByID lookups in redis with a
// short TTL. The booking search path checks user existence on every call,
// which makes these two lookups by far the hottest reads.
// Cache failures fall through to the inner repository.
type cachingRepository struct {
	inner  Repository
	client *redis.Client
	ttl    time.Duration
}

// NewCachingRepository wraps a Repository with a redis lookup cache.
// A nil client returns the inner repository unchanged.
func NewCachingRepository(inner Repository, client *redis.Client, ttl time.Duration) Repository {
	if client == nil {
		return inner
	}
	return &cachingRepository{inner: inner, client: client, ttl: ttl}
}

func cacheKey(id int64) string {
	return fmt.Sprintf("user:%d", id)
}

func (r *cachingRepository) Create(ctx context.Context, u *User) error {
	return r.inner.Create(ctx, u)
}

func (r *cachingRepository) GetByID(ctx context.Context, id int64) (*User, error) {
	if val, err := r.client.Get(ctx, cacheKey(id)).Result(); err == nil {
		var u User
		if err := json.Unmarshal([]byte(val), &u); err == nil {
			return &u, nil
		}
	} else if err != redis.Nil {
		// redis down; serve from the inner repository
		return r.inner.GetByID(ctx, id)
	}

	u, err := r.inner.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(u); err == nil {
		r.client.Set(ctx, cacheKey(u.ID), data, r.ttl)
	}
	return u, nil
}

func (r *cachingRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	if err := r.client.Get(ctx, cacheKey(id)).Err(); err == nil {
		return true, nil
	}

	_, err := r.GetByID(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *cachingRepository) List(ctx context.Context) ([]*User, error) {
	return r.inner.List(ctx)
}

func (r *cachingRepository) Update(ctx context.Context, u *User) error {
	if err := r.inner.Update(ctx, u); err != nil {
		return err
	}
	r.client.Del(ctx, cacheKey(u.ID))
	return nil
}

func (r *cachingRepository) Delete(ctx context.Context, id int64) error {
	if err := r.inner.Delete(ctx, id); err != nil {
		return err
	}
	r.client.Del(ctx, cacheKey(id))
	return nil
}
