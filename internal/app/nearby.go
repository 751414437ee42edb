package app

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"restaurant_finder/internal/adapters/observability"
	"restaurant_finder/internal/domain"
)

// DatasetVersionKey is bumped by the ingestor after every successful load.
const DatasetVersionKey = "restaurants:version"

type NearbyService struct {
	repo     domain.RestaurantRepository
	cache    domain.Cache // nil disables caching
	cacheTTL time.Duration
}

func NewNearbyService(r domain.RestaurantRepository, c domain.Cache, ttl time.Duration) *NearbyService {
	if ttl <= 0 {
		c = nil
	}
	return &NearbyService{repo: r, cache: c, cacheTTL: ttl}
}

// Find searches the fixed default radius around qp.
func (s *NearbyService) Find(ctx context.Context, qp domain.QueryPoint) (domain.SearchResult, error) {
	return s.FindWithin(ctx, qp, domain.DefaultRadiusKm)
}

func (s *NearbyService) FindWithin(ctx context.Context, qp domain.QueryPoint, radiusKm float64) (domain.SearchResult, error) {
	key, cacheable := "", false
	if s.cache != nil {
		key, cacheable = s.cacheKey(ctx, qp, radiusKm)
	}
	if cacheable {
		var cached domain.SearchResult
		if ok, _ := s.cache.Get(ctx, key, &cached); ok {
			return cached, nil
		}
	}

	q := domain.ScanQuery{}
	if b, ok := qp.SearchBound(radiusKm); ok {
		q.Bound = &b
	}
	rs, err := s.repo.ScanRestaurants(ctx, q)
	if err != nil {
		return domain.SearchResult{}, fmt.Errorf("%w: %w", domain.ErrDatasetUnavailable, err)
	}

	out := search(rs, qp, radiusKm)
	observability.ObserveSearch(len(out.Restaurants))

	if cacheable {
		_ = s.cache.Set(ctx, key, out, int(s.cacheTTL.Seconds()))
	}
	return out, nil
}

// search is the pure part of FindWithin: filter, order, aggregate.
func search(rs []domain.Restaurant, qp domain.QueryPoint, radiusKm float64) domain.SearchResult {
	hits := make([]domain.RestaurantHit, 0)
	for _, r := range rs {
		d := qp.DistanceFrom(r)
		if d <= radiusKm {
			hits = append(hits, domain.RestaurantHit{Restaurant: r, DistanceKm: d})
		}
	}
	if len(hits) == 0 {
		return domain.EmptySearchResult()
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return morePopular(hits[i].NumberOfRatingsNumeric, hits[j].NumberOfRatingsNumeric)
	})

	return domain.SearchResult{
		Restaurants:        hits,
		PopularCuisines:    popularCuisines(hits),
		PopularBestSellers: popularBestSellers(hits),
	}
}

// morePopular orders by value descending with nil after every present value.
func morePopular(a, b *float64) bool {
	switch {
	case a == nil:
		return false
	case b == nil:
		return true
	default:
		return *a > *b
	}
}

// cacheKey reports false when the dataset version is unknown; the request
// then bypasses the cache rather than risk reading a stale generation.
func (s *NearbyService) cacheKey(ctx context.Context, qp domain.QueryPoint, radiusKm float64) (string, bool) {
	var version int64
	if _, err := s.cache.Get(ctx, DatasetVersionKey, &version); err != nil {
		log.Debug().Err(err).Msg("dataset version lookup failed, skipping cache")
		return "", false
	}
	f := func(x float64) string { return strconv.FormatFloat(x, 'g', -1, 64) }
	return fmt.Sprintf("nearby:v%d:%s:%s:%s", version, f(qp.Lat()), f(qp.Lon()), f(radiusKm)), true
}
