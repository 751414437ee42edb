package shared

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv      string
	LogLevel    string
	HTTPAddr    string
	MetricsAddr string
	MySQLDSN    string
	RedisAddr   string
	RedisDB     int
	RedisPass   string
	CacheTTL    time.Duration
	CORSOrigins []string

	DatasetSource string
	Workers       int
	BatchSize     int
	IngestRPS     int
	FetchRPS      int
}

// Load reads the environment, after merging a .env file from the working
// directory when one exists. Real environment variables win over .env.
func Load() Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Msg(".env present but unreadable")
	}
	return fromEnv()
}

func fromEnv() Config {
	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
			log.Warn().Str("key", k).Str("value", v).Msg("not an integer, using default")
		}
		return def
	}
	c := Config{
		AppEnv:        env("APP_ENV", "prod"),
		LogLevel:      env("LOG_LEVEL", "info"),
		HTTPAddr:      env("HTTP_ADDR", ":8080"),
		MetricsAddr:   os.Getenv("METRICS_ADDR"),
		MySQLDSN:      env("MYSQL_DSN", "root:root@tcp(localhost:3306)/restaurants?parseTime=true&charset=utf8mb4,utf8&loc=UTC"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPass:     os.Getenv("REDIS_PASSWORD"),
		RedisDB:       atoi("REDIS_DB", 0),
		CacheTTL:      time.Duration(atoi("CACHE_TTL_SECONDS", 300)) * time.Second,
		CORSOrigins:   list(env("CORS_ALLOWED_ORIGINS", "*")),
		DatasetSource: env("DATASET_SOURCE", "restaurants.csv"),
		Workers:       atoi("INGEST_WORKERS", 4),
		BatchSize:     atoi("INGEST_BATCH_SIZE", 500),
		IngestRPS:     atoi("INGEST_RPS", 20),
		FetchRPS:      atoi("FETCH_RPS", 5),
	}
	if c.RedisAddr == "" {
		log.Info().Msg("REDIS_ADDR is empty, result cache disabled")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func list(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
