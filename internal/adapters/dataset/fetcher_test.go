package dataset_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"restaurant_finder/internal/adapters/dataset"
)

func TestFetcher_RetriesThenSuccess(t *testing.T) {
	var hits int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch atomic.AddInt32(&hits, 1) {
		case 1:
			w.WriteHeader(http.StatusServiceUnavailable)
		case 2:
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusTooManyRequests)
		default:
			_, _ = w.Write([]byte("name\nA\n"))
		}
	}))
	defer ts.Close()

	f := dataset.NewFetcher(100) // high RPS for tests
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	r, err := f.Load(ctx, ts.URL+"/restaurants.csv")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	b, _ := io.ReadAll(r)
	if string(b) != "name\nA\n" {
		t.Fatalf("unexpected body: %q", b)
	}
	if atomic.LoadInt32(&hits) != 3 {
		t.Fatalf("expected 3 calls due to retries, got %d", hits)
	}
}

func TestFetcher_404(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	_, err := dataset.NewFetcher(100).Load(ctx, ts.URL)
	if !errors.Is(err, dataset.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestFetcher_LocalFile(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "r.csv")
	if err := os.WriteFile(p, []byte("name\nA\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	f := dataset.NewFetcher(1)

	r, err := f.Load(context.Background(), p)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	rs, err := dataset.DecodeCSV(r)
	if err != nil || len(rs) != 1 {
		t.Fatalf("decode: %v %v", rs, err)
	}

	if _, err := f.Load(context.Background(), filepath.Join(dir, "missing.csv")); !errors.Is(err, dataset.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
