package app

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"

	"restaurant_finder/internal/adapters/observability"
	"restaurant_finder/internal/domain"
)

type IngestOptions struct {
	Workers   int
	BatchSize int
	BatchRPS  int // upsert batches per second across all workers
}

type IngestReport struct {
	RunID   string
	Rows    int
	Batches int
	Written int64 // rows affected as reported by the driver
	Version int64 // dataset version after the run, 0 without a cache
}

type IngestionService struct {
	repo  domain.RestaurantRepository
	cache domain.Cache
	opts  IngestOptions
}

func NewIngestionService(r domain.RestaurantRepository, cache domain.Cache, opts IngestOptions) *IngestionService {
	if opts.Workers <= 0 {
		opts.Workers = 4
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = 500
	}
	if opts.BatchRPS <= 0 {
		opts.BatchRPS = 20
	}
	return &IngestionService{repo: r, cache: cache, opts: opts}
}

// Ingest upserts rs in batches. Any failed batch aborts the run; the dataset
// version is only bumped when every batch landed.
func (s *IngestionService) Ingest(ctx context.Context, rs []domain.Restaurant) (IngestReport, error) {
	rep := IngestReport{RunID: uuid.NewString(), Rows: len(rs)}
	logger := log.With().Str("run", rep.RunID).Logger()

	batches := chunk(rs, s.opts.BatchSize)
	rep.Batches = len(batches)

	sem := semaphore.NewWeighted(int64(s.opts.Workers))
	rl := rate.NewLimiter(rate.Limit(s.opts.BatchRPS), 1)
	g, gctx := errgroup.WithContext(ctx)
	var written atomic.Int64

	for i, b := range batches {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(gctx, 1); err != nil {
			break
		}
		i, b := i, b
		g.Go(func() error {
			defer sem.Release(1)
			if err := rl.Wait(gctx); err != nil {
				return err
			}
			n, err := s.repo.UpsertRestaurants(gctx, b)
			if err != nil {
				return fmt.Errorf("batch %d: %w", i, err)
			}
			written.Add(n)
			observability.ObserveIngest(len(b))
			logger.Debug().Int("batch", i).Int("rows", len(b)).Msg("batch ok")
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return rep, err
	}
	if err := ctx.Err(); err != nil {
		return rep, err
	}
	rep.Written = written.Load()

	// Cached search results are keyed by version, so bumping it retires them all.
	if s.cache != nil {
		v, err := s.cache.Incr(ctx, DatasetVersionKey)
		if err != nil {
			logger.Warn().Err(err).Msg("dataset version bump failed; cached results may be stale until TTL")
		} else {
			rep.Version = v
		}
	}
	logger.Info().Int("rows", rep.Rows).Int("batches", rep.Batches).Int64("written", rep.Written).Msg("ingest complete")
	return rep, nil
}

func chunk(rs []domain.Restaurant, size int) [][]domain.Restaurant {
	var out [][]domain.Restaurant
	for len(rs) > 0 {
		n := size
		if len(rs) < n {
			n = len(rs)
		}
		out = append(out, rs[:n:n])
		rs = rs[n:]
	}
	return out
}
