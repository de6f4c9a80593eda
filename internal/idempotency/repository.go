package idempotency

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"sinag/internal/config"
	"sinag/pkg/circuitbreaker"
)

type Repository interface {
	SetNX(ctx context.Context, key string, value interface{}, ttl time.Duration) (bool, error)
	Delete(ctx context.Context, key string) error
}

type RedisRepository struct {
	client *redis.Client
}

func NewRepository(client *redis.Client) Repository {
	return &RedisRepository{client: client}
}

func (r *RedisRepository) SetNX(ctx context.Context, key string, value interface{}, ttl time.Duration) (bool, error) {
	success, err := r.client.SetNX(ctx, key, value, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("redis SetNX failed: %w", err)
	}
	return success, nil
}

func (r *RedisRepository) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis DEL failed: %w", err)
	}
	return nil
}

// CircuitBreakerRepository guards a Repository with a breaker so a failing
// Redis is skipped quickly instead of stalling every submission.
type CircuitBreakerRepository struct {
	repo Repository
	cb   *circuitbreaker.Wrapper
}

func NewCircuitBreakerRepository(repo Repository, cfg config.CircuitBreakerConfig) *CircuitBreakerRepository {
	return &CircuitBreakerRepository{
		repo: repo,
		cb:   circuitbreaker.FromConfig("redis-idempotency", cfg),
	}
}

func (r *CircuitBreakerRepository) SetNX(ctx context.Context, key string, value interface{}, ttl time.Duration) (bool, error) {
	return circuitbreaker.Call(ctx, r.cb, func() (bool, error) {
		return r.repo.SetNX(ctx, key, value, ttl)
	})
}

func (r *CircuitBreakerRepository) Delete(ctx context.Context, key string) error {
	_, err := circuitbreaker.Call(ctx, r.cb, func() (struct{}, error) {
		return struct{}{}, r.repo.Delete(ctx, key)
	})
	return err
}

func (r *CircuitBreakerRepository) State() string {
	return r.cb.StateName()
}
