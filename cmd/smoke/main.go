// README: Smoke runner against a deployed API; executes HTTP and store checks and prints results.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"
)

func main() {
	cfg := loadConfig()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	runner := NewRunner(cfg)
	results := runner.RunAll(ctx)

	fmt.Println("\n== Summary ==")
	counts := summarize(results)
	fmt.Printf("PASS=%d FAIL=%d PENDING=%d SKIP=%d\n",
		counts[StatusPass], counts[StatusFail], counts[StatusPending], counts[StatusSkip])

	if counts[StatusFail] > 0 || (cfg.Strict && counts[StatusPending] > 0) {
		os.Exit(1)
	}
}

type Config struct {
	BaseURL     string
	DSN         string
	RedisAddr   string
	MongoURI    string
	Strict      bool
	Timeout     time.Duration
	Concurrency int
	Duration    time.Duration
}

func loadConfig() Config {
	var cfg Config
	flag.StringVar(&cfg.BaseURL, "base-url", envOrDefault("WAYFARER_SMOKE_BASE_URL", "http://localhost:5000"), "API base URL")
	flag.StringVar(&cfg.DSN, "dsn", os.Getenv("DATABASE_URL"), "Postgres DSN (empty skips the check)")
	flag.StringVar(&cfg.RedisAddr, "redis", os.Getenv("REDIS_ADDR"), "Redis address (empty skips the check)")
	flag.StringVar(&cfg.MongoURI, "mongo", os.Getenv("MONGODB_URI"), "MongoDB URI (empty skips the check)")
	flag.BoolVar(&cfg.Strict, "strict", envOrDefaultBool("WAYFARER_SMOKE_STRICT", false), "Fail on pending checks")
	flag.DurationVar(&cfg.Timeout, "timeout", envOrDefaultDuration("WAYFARER_SMOKE_TIMEOUT", 3*time.Minute), "Total timeout")
	flag.IntVar(&cfg.Concurrency, "concurrency", envOrDefaultInt("WAYFARER_SMOKE_CONCURRENCY", 10), "Concurrency for the load check")
	flag.DurationVar(&cfg.Duration, "duration", envOrDefaultDuration("WAYFARER_SMOKE_DURATION", 5*time.Second), "Duration of the load check")
	flag.Parse()
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return cfg
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envOrDefaultBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		v = strings.ToLower(v)
		return v == "1" || v == "true" || v == "yes"
	}
	return def
}

func envOrDefaultInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		var n int
		_, _ = fmt.Sscanf(v, "%d", &n)
		if n > 0 {
			return n
		}
	}
	return def
}

func envOrDefaultDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
