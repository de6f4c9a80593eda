package idempotency

import (
	"context"
	"fmt"
	"time"

	"sinag/internal/config"
	"sinag/internal/constants"
	"sinag/internal/logger"
	"sinag/pkg/metrics"
	"sinag/pkg/tracing"
)

// DefaultFieldsToHash identifies a submission by what was submitted, so a
// corrected resubmission is evaluated again.
var DefaultFieldsToHash = []string{"submission_id", "indicator_code", "response_data", "checklist_data"}

// Service decides whether a submission has already been evaluated.
type Service struct {
	repo         Repository
	hasher       *Hasher
	ttl          time.Duration
	onRedisError string
	fieldsToHash []string
	logger       logger.Logger
}

func NewService(repo Repository, cfg config.IdempotencyConfig, log logger.Logger) *Service {
	fields := cfg.FieldsToHash
	if len(fields) == 0 {
		fields = DefaultFieldsToHash
	}
	ttlSeconds := cfg.TTLSeconds
	if ttlSeconds <= 0 {
		ttlSeconds = constants.DefaultTTLSeconds
	}
	onRedisError := cfg.OnRedisError
	if onRedisError == "" {
		onRedisError = constants.FallbackAllow
	}

	return &Service{
		repo:         repo,
		hasher:       NewHasher(cfg.HashAlgorithm),
		ttl:          time.Duration(ttlSeconds) * time.Second,
		onRedisError: onRedisError,
		fieldsToHash: append([]string(nil), fields...),
		logger:       log,
	}
}

// Claim records the submission and reports whether this is its first
// evaluation. The returned key can be passed to Release when evaluation
// fails and should be retried.
func (s *Service) Claim(ctx context.Context, submission map[string]interface{}) (bool, string, error) {
	ctx, span := tracing.GetTracer("validation-service").Start(ctx, "idempotency.claim")
	defer span.End()

	if err := ctx.Err(); err != nil {
		return false, "", err
	}

	hash, err := s.hasher.ComputeHash(submission, s.fieldsToHash)
	if err != nil {
		return false, "", fmt.Errorf("failed to compute idempotency key: %w", err)
	}
	key := constants.CacheKeyPrefixIdempotency + hash

	unique, err := s.repo.SetNX(ctx, key, time.Now().Unix(), s.ttl)
	if err != nil {
		metrics.IdempotencyChecksTotal.WithLabelValues("error").Inc()
		return s.handleRedisError(ctx, err, key)
	}

	if unique {
		metrics.IdempotencyChecksTotal.WithLabelValues("unique").Inc()
	} else {
		metrics.IdempotencyChecksTotal.WithLabelValues("duplicate").Inc()
	}
	return unique, key, nil
}

// Release forgets a claimed key so the same submission can be processed again.
func (s *Service) Release(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if err := s.repo.Delete(ctx, key); err != nil {
		s.logger.WarnwCtx(ctx, "Failed to release idempotency key", "key", key, "error", err)
	}
}

func (s *Service) handleRedisError(ctx context.Context, err error, key string) (bool, string, error) {
	switch s.onRedisError {
	case constants.FallbackAllow:
		metrics.FallbackUsageTotal.WithLabelValues("idempotency", "allow_on_error", "redis_error").Inc()
		s.logger.WarnwCtx(ctx, "Redis error during idempotency check, evaluating anyway (fallback: allow)", "error", err)
		return true, "", nil
	case constants.FallbackDeny:
		metrics.FallbackUsageTotal.WithLabelValues("idempotency", "deny_on_error", "redis_error").Inc()
		s.logger.WarnwCtx(ctx, "Redis error during idempotency check, skipping submission (fallback: deny)", "error", err)
		return false, "", nil
	default:
		return false, "", fmt.Errorf("redis error during idempotency check for %s: %w", key, err)
	}
}
