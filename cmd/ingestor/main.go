package main

import (
	"context"
	"database/sql"
	"os/signal"
	"syscall"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"restaurant_finder/internal/adapters/dataset"
	"restaurant_finder/internal/adapters/observability"
	redisad "restaurant_finder/internal/adapters/redis"
	"restaurant_finder/internal/app"
	"restaurant_finder/internal/domain"
	"restaurant_finder/internal/shared"
	mysqlrepo "restaurant_finder/internal/storage/mysql"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	cfg := shared.Load()

	// 1) initialize global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	log.Info().
		Str("source", cfg.DatasetSource).
		Int("workers", cfg.Workers).
		Int("batch", cfg.BatchSize).
		Msg("ingestor starting")

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("db ping ok")

	// 2) read and decode the dataset
	raw, err := dataset.NewFetcher(cfg.FetchRPS).Load(ctx, cfg.DatasetSource)
	if err != nil {
		log.Fatal().Err(err).Msg("dataset load failed")
	}
	rows, err := dataset.DecodeCSV(raw)
	if err != nil {
		log.Fatal().Err(err).Msg("dataset decode failed")
	}
	log.Info().Int("rows", len(rows)).Msg("dataset decoded")

	// 3) upsert, then retire cached search results
	var cache domain.Cache
	if cfg.RedisAddr != "" {
		rc := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		defer rc.Close()
		cache = rc
	}
	ing := app.NewIngestionService(mysqlrepo.New(db), cache, app.IngestOptions{
		Workers:   cfg.Workers,
		BatchSize: cfg.BatchSize,
		BatchRPS:  cfg.IngestRPS,
	})
	rep, err := ing.Ingest(ctx, rows)
	if err != nil {
		log.Fatal().Err(err).Str("run", rep.RunID).Msg("ingestion failed")
	}
	log.Info().
		Str("run", rep.RunID).
		Int("rows", rep.Rows).
		Int64("version", rep.Version).
		Msg("ingestion completed")
}
