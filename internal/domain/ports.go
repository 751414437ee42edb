package domain

import (
	"context"

	"github.com/paulmach/orb"
)

type RestaurantRepository interface {
	// Read paths
	ScanRestaurants(ctx context.Context, q ScanQuery) ([]Restaurant, error)
	Ping(ctx context.Context) error

	// Write paths (ingestor only)
	UpsertRestaurants(ctx context.Context, rs []Restaurant) (int64, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
	Incr(ctx context.Context, key string) (int64, error)
}

// ScanQuery narrows a full scan. A nil Bound means every record.
// Implementations return records in dataset (insertion) order.
type ScanQuery struct {
	Bound *orb.Bound
}
