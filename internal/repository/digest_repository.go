package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/segyhp/portfolio-reporting/internal/domain"
	customError "github.com/segyhp/portfolio-reporting/pkg/errors"

	"github.com/redis/go-redis/v9"
)

type digestRepository struct {
	redis *redis.Client
	ttl   time.Duration
}

// NewDigestRepository stores digests in Redis. Each snapshot expires after ttl
// so a stopped scheduler does not leave stale figures behind.
func NewDigestRepository(client *redis.Client, ttl time.Duration) DigestStore {
	return &digestRepository{redis: client, ttl: ttl}
}

func digestKey(kind string) string {
	return fmt.Sprintf("report:digest:%s", kind)
}

func (r *digestRepository) Save(ctx context.Context, digest *domain.Digest) error {
	payload, err := json.Marshal(digest)
	if err != nil {
		return err
	}

	if err := r.redis.Set(ctx, digestKey(digest.Kind), payload, r.ttl).Err(); err != nil {
		return customError.WrapCacheError(err)
	}
	return nil
}

func (r *digestRepository) Latest(ctx context.Context, kind string) (*domain.Digest, error) {
	payload, err := r.redis.Get(ctx, digestKey(kind)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, customError.WrapDigestNotFound(kind)
	}
	if err != nil {
		return nil, customError.WrapCacheError(err)
	}

	var digest domain.Digest
	if err := json.Unmarshal(payload, &digest); err != nil {
		return nil, fmt.Errorf("decode digest %s: %w", kind, err)
	}
	return &digest, nil
}
