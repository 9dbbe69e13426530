package repositories

import (
	"context"
	"time"

	"lumen/internal/database"
)

const (
	ANOMALY_CACHE_PREFIX = "anomaly"
	ANOMALY_CACHE_EXPIRY = 10 * time.Minute
)

// AnomalyCacheRepository keeps AI anomaly analyses per room so the dashboard
// does not call the model on every refresh.
type AnomalyCacheRepository interface {
	Get(ctx context.Context, roomKey string, result any) (bool, error)
	Set(ctx context.Context, roomKey string, value any) error
	Invalidate(ctx context.Context, roomKey string) error
}

type anomalyCacheRepository struct {
	cache database.CacheClient
}

func NewAnomalyCacheRepository(cache database.CacheClient) AnomalyCacheRepository {
	return &anomalyCacheRepository{
		cache: cache,
	}
}

func (r *anomalyCacheRepository) Get(ctx context.Context, roomKey string, result any) (bool, error) {
	return database.NewCacheBuilder(r.cache, roomKey).
		WithHash(ANOMALY_CACHE_PREFIX).
		WithContext(ctx).
		Get(result)
}

func (r *anomalyCacheRepository) Set(ctx context.Context, roomKey string, value any) error {
	return database.NewCacheBuilder(r.cache, roomKey).
		WithHash(ANOMALY_CACHE_PREFIX).
		WithStruct(value).
		WithTTL(ANOMALY_CACHE_EXPIRY).
		WithContext(ctx).
		Set()
}

func (r *anomalyCacheRepository) Invalidate(ctx context.Context, roomKey string) error {
	return database.NewCacheBuilder(r.cache, roomKey).
		WithHash(ANOMALY_CACHE_PREFIX).
		WithContext(ctx).
		Delete()
}
