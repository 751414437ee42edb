package app_test

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"sync"
	"testing"

	"restaurant_finder/internal/app"
	"restaurant_finder/internal/domain"
)

// batchRepo records every batch and can fail a chosen one.
type batchRepo struct {
	mu      sync.Mutex
	batches [][]domain.Restaurant
	failAt  int // SourceRow that triggers a failure; 0 never fails
}

func (b *batchRepo) ScanRestaurants(ctx context.Context, q domain.ScanQuery) ([]domain.Restaurant, error) {
	return nil, nil
}
func (b *batchRepo) Ping(ctx context.Context) error { return nil }
func (b *batchRepo) UpsertRestaurants(ctx context.Context, rs []domain.Restaurant) (int64, error) {
	for _, r := range rs {
		if b.failAt != 0 && r.SourceRow == b.failAt {
			return 0, errors.New("deadlock found when trying to get lock")
		}
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.batches = append(b.batches, rs)
	return int64(len(rs)), nil
}

func rowsN(n int) []domain.Restaurant {
	out := make([]domain.Restaurant, n)
	for i := range out {
		out[i] = domain.Restaurant{SourceRow: i + 1, SourceKey: "k" + strconv.Itoa(i+1)}
	}
	return out
}

func TestIngest_BatchesAllRowsAndBumpsVersion(t *testing.T) {
	repo := &batchRepo{}
	cache := &fakeCache{}
	svc := app.NewIngestionService(repo, cache, app.IngestOptions{Workers: 3, BatchSize: 4, BatchRPS: 1000})

	rep, err := svc.Ingest(context.Background(), rowsN(10))
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if rep.RunID == "" || rep.Rows != 10 || rep.Batches != 3 || rep.Written != 10 || rep.Version != 1 {
		t.Fatalf("unexpected report: %+v", rep)
	}

	var seen []int
	for _, b := range repo.batches {
		if len(b) > 4 {
			t.Fatalf("batch larger than BatchSize: %d", len(b))
		}
		for _, r := range b {
			seen = append(seen, r.SourceRow)
		}
	}
	sort.Ints(seen)
	for i, v := range seen {
		if v != i+1 {
			t.Fatalf("rows missing or duplicated: %v", seen)
		}
	}
}

func TestIngest_FailedBatchAbortsWithoutVersionBump(t *testing.T) {
	repo := &batchRepo{failAt: 6}
	cache := &fakeCache{}
	svc := app.NewIngestionService(repo, cache, app.IngestOptions{Workers: 1, BatchSize: 5, BatchRPS: 1000})

	_, err := svc.Ingest(context.Background(), rowsN(12))
	if err == nil {
		t.Fatalf("expected batch failure")
	}
	if _, ok := cache.store[app.DatasetVersionKey]; ok {
		t.Fatalf("version must not move after a failed run")
	}
}

func TestIngest_NoCache(t *testing.T) {
	svc := app.NewIngestionService(&batchRepo{}, nil, app.IngestOptions{})
	rep, err := svc.Ingest(context.Background(), rowsN(3))
	if err != nil || rep.Version != 0 || rep.Batches != 1 {
		t.Fatalf("unexpected: %+v %v", rep, err)
	}
}
